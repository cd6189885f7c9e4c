package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")

	// Output log errors
	ErrMalformedLog = fmt.Errorf("malformed output log")
	ErrLogWrite     = fmt.Errorf("failed to write output log")

	// Run history errors
	ErrHistoryDisabled = fmt.Errorf("run history is not configured")
	ErrRunNotFound     = fmt.Errorf("sync run not found")
	ErrNoMigrations    = fmt.Errorf("no migrations to roll back")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
