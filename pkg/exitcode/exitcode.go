// Package exitcode provides the process exit codes used by skillneat.
package exitcode

// Exit codes for the skillneat CLI. Broken references surface as
// GeneralError so the validate command can gate CI with a plain non-zero check.
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	ValidationError = 3
	FileSystemError = 4
	PermissionError = 6
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case ValidationError:
		return "Validation error"
	case FileSystemError:
		return "File system error"
	case PermissionError:
		return "Permission error"
	default:
		return "Unknown error"
	}
}
