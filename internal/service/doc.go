// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Key components:
//
// 1. Service Interfaces:
//   - TaskService covers the task lifecycle: listing, lookup, creation,
//     update, deletion and active-task counting
//   - UserService registers and resolves the users that own tasks
//
// 2. Business Rules:
//   - Active-task quota: a user may hold at most a configured number of tasks
//     in an active status (OPEN or IN_PROGRESS)
//   - Deletion cool-down: a task cannot be deleted until a configured amount
//     of time has passed since its creation
//
// 3. Dependency Management:
//   - Services receive their stores, event emitter, clock and logger through
//     constructor injection
//
// 4. Error Handling:
//   - Expected conditions are reported with sentinel errors (see errors.go)
//   - Unexpected store failures are wrapped in TaskServiceError or
//     UserServiceError
//
// The service layer depends on domain entities and repository interfaces (from store),
// but never on specific infrastructure implementations.
package service
