// Package domain contains the core business entities of the task tracker:
// tasks, their lifecycle statuses, and the users that own them. Entities here
// validate themselves and know nothing about storage or HTTP.
package domain
