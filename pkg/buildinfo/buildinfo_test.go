package buildinfo

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinaryVersionDefault(t *testing.T) {
	assert.Equal(t, "dev", BinaryVersion)
}

func TestModuleVersionMatchesBuildInfo(t *testing.T) {
	expected := ""
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		expected = info.Main.Version
	}
	assert.Equal(t, expected, ModuleVersion())
}

func TestVersionPrefersLdflags(t *testing.T) {
	saved := BinaryVersion
	t.Cleanup(func() { BinaryVersion = saved })

	BinaryVersion = "v1.4.0"
	assert.Equal(t, "v1.4.0", Version())

	BinaryVersion = "dev"
	assert.NotEmpty(t, Version())
}
