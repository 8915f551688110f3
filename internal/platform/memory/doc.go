// Package memory provides in-process implementations of the store interfaces.
// Data lives in maps guarded by a single sync.RWMutex and is lost on restart.
// It is the default backend and the one used by most service and API tests.
package memory
