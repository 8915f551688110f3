package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Tasks    TasksConfig    `mapstructure:"tasks"    validate:"required"`
	Events   EventsConfig   `mapstructure:"events"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig selects the backing store and how to reach it.
type DatabaseConfig struct {
	// Driver is one of "memory", "postgres" or "sqlite".
	Driver string `mapstructure:"driver" validate:"required,oneof=memory postgres sqlite"`
	// URL is a Postgres connection string or a SQLite file path / DSN.
	URL string `mapstructure:"url" validate:"required_unless=Driver memory"`
	// AutoMigrate applies pending migrations when the server starts.
	// SQLite databases are always migrated on start.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// TasksConfig holds the task lifecycle rules.
type TasksConfig struct {
	// MaxActivePerUser is the number of OPEN/IN_PROGRESS tasks a user may hold.
	MaxActivePerUser int `mapstructure:"max_active_per_user" validate:"gt=0"`
	// MinDeleteAge is how long after creation a task becomes deletable.
	MinDeleteAge time.Duration `mapstructure:"min_delete_age" validate:"gte=0"`
}

// EventsConfig sizes the asynchronous lifecycle event dispatcher.
type EventsConfig struct {
	QueueSize   int `mapstructure:"queue_size"   validate:"gt=0"`
	WorkerCount int `mapstructure:"worker_count" validate:"gt=0"`
}
