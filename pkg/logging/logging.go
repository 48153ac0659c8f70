package logging

import (
	"log/slog"
	"os"
)

const (
	// KeyAppName is the attribute key for the application name.
	KeyAppName = "app"

	// KeyError is the attribute key for errors.
	KeyError = "err"

	// KeyDal is the attribute key for the data access layer in use.
	KeyDal = "dal"

	// KeyGuild is the attribute key for a guild ID.
	KeyGuild = "guild_id"

	// KeyChannel is the attribute key for a channel ID.
	KeyChannel = "channel_id"

	// KeyUser is the attribute key for a user ID.
	KeyUser = "user_id"
)

// Name is the name of the application that the logger is created for.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// name is the application name appended to every record.
	name Name

	// level is the minimum level that will be logged.
	level slog.Level
}

// NewConfig creates a logging configuration with the default level.
func NewConfig(name Name) *Config {
	return &Config{
		name:  name,
		level: slog.LevelDebug,
	}
}

// CommonLogger creates the logger used across the application. All records
// carry the application name and source position.
func CommonLogger(c *Config) (*slog.Logger, error) {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     c.level,
	})

	l := slog.New(h).With(slog.String(KeyAppName, string(c.name)))
	slog.SetDefault(l)
	return l, nil
}
