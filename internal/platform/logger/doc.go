// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels, and carries request-scoped loggers through
// context.Context so that store and service code logs with the caller's attributes
// (trace ID, component) without taking a logger parameter on every call.
package logger
