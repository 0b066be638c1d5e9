/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package exitcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeValues(t *testing.T) {
	assert.Equal(t, 0, Success)
	assert.Equal(t, 1, GeneralError)
	assert.Equal(t, 2, ConfigError)
	assert.Equal(t, 3, ValidationError)
	assert.Equal(t, 4, FileSystemError)
	assert.Equal(t, 6, PermissionError)
}

func TestString(t *testing.T) {
	tests := map[int]string{
		Success:         "Success",
		GeneralError:    "General error",
		ConfigError:     "Configuration error",
		ValidationError: "Validation error",
		FileSystemError: "File system error",
		PermissionError: "Permission error",
		42:              "Unknown error",
	}
	for code, want := range tests {
		assert.Equal(t, want, String(code), "code %d", code)
	}
}
