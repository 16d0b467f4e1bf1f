// Package env reads process wide switches from the environment.
package env

import "os"

// Debug reports whether DEBUG is set, which raises loggers to debug level.
func Debug() bool {
	return os.Getenv("DEBUG") != ""
}
