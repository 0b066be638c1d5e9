/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/skillneat/pkg/ignore"
)

func touch(t *testing.T, root string, rel string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("---\nname: x\n---\n"), 0o644))
	return p
}

func TestBuildIndex(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "alpha/SKILL.md")
	touch(t, root, "beta/SKILL.md")
	touch(t, root, "beta/references/notes.md")
	touch(t, root, "category/gamma/SKILL.md")
	touch(t, root, ".hidden/secret/SKILL.md")
	touch(t, root, "not-a-skill/README.md")

	ix, err := Build(root, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "beta", "category/gamma"}, ix.IDs())
	assert.Equal(t, 3, ix.Len())
	assert.True(t, ix.Has("category/gamma"))
	assert.False(t, ix.Has("gamma"), "identity is the full relative path")
	assert.False(t, ix.Has(".hidden/secret"))
	assert.False(t, ix.Has("not-a-skill"))

	assert.Len(t, ix.Manifests(), 3)
	assert.Contains(t, ix.Manifests(), filepath.Join(root, "beta", "SKILL.md"))
	assert.Equal(t, root, ix.Root())
}

func TestBuildCustomManifestName(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "one/MANIFEST.md")
	touch(t, root, "two/SKILL.md")

	ix, err := Build(root, Options{ManifestName: "MANIFEST.md"})
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, ix.IDs())
}

func TestBuildMissingRoot(t *testing.T) {
	_, err := Build(filepath.Join(t.TempDir(), "nope"), Options{})
	assert.ErrorIs(t, err, ErrRootNotFound)

	file := touch(t, t.TempDir(), "file.md")
	_, err = Build(file, Options{})
	assert.ErrorIs(t, err, ErrRootNotFound)
}

func TestBuildExcludeAndIgnore(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "keep/SKILL.md")
	touch(t, root, "drafts/wip/SKILL.md")
	touch(t, root, "archive/old/SKILL.md")
	require.NoError(t, os.WriteFile(filepath.Join(root, ignore.FileName), []byte("archive/\n"), 0o644))

	m, err := ignore.NewMatcher(root)
	require.NoError(t, err)

	ix, err := Build(root, Options{Exclude: []string{"drafts/**"}, Ignore: m})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, ix.IDs())
}

func TestMarkdownFiles(t *testing.T) {
	root := t.TempDir()
	a := touch(t, root, "a/SKILL.md")
	b := touch(t, root, "a/references/guide.md")
	touch(t, root, "a/scripts/run.sh")
	touch(t, root, ".git/info.md")

	files, err := MarkdownFiles(root, Options{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, files)
}
