// Package events provides types and interfaces for task lifecycle events.
//
// Services emit events without knowing which handlers will process them.
// InMemoryEventEmitter fans an event out to registered handlers synchronously;
// AsyncEmitter puts a bounded queue and a worker pool in front of any emitter
// so that request handling never waits on event delivery.
package events
