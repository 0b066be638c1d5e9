/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package refcheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/skillneat/internal/catalog"
)

type skillSet map[string]bool

func (s skillSet) Has(id string) bool { return s[id] }
func (s skillSet) Len() int { return len(s) }

func skills(ids ...string) skillSet {
	s := skillSet{}
	for _, id := range ids {
		s[id] = true
	}
	return s
}

type fixture struct {
	root string
	in   Inputs
}

func newFixture(t *testing.T, workflows, bundles, narrative string) fixture {
	t.Helper()
	root := t.TempDir()
	data := filepath.Join(root, "data")
	require.NoError(t, os.MkdirAll(data, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(data, "workflows.json"), []byte(workflows), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(data, "bundles.json"), []byte(bundles), 0o644))
	narr := filepath.Join(root, "docs", "BUNDLES.md")
	if narrative != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(narr), 0o755))
		require.NoError(t, os.WriteFile(narr, []byte(narrative), 0o644))
	}
	return fixture{root: root, in: Inputs{
		SkillsDir:      filepath.Join(root, "skills"),
		Workflows:      filepath.Join(data, "workflows.json"),
		Bundles:        filepath.Join(data, "bundles.json"),
		Narrative:      narr,
		NarrativeLabel: "docs/BUNDLES.md",
	}}
}

func TestValidateMissingBundleSkill(t *testing.T) {
	f := newFixture(t, `{"workflows":[]}`, `{"bundles":{"core":{"skills":["alpha","nonexistent-skill"]}}}`, "")
	f.in.Skills = skills("alpha")

	rep, err := Validate(f.in, Options{Schema: true})
	require.NoError(t, err)
	assert.False(t, rep.Passed())
	assert.Equal(t, []string{"bundles.json bundle 'core' lists missing skill: nonexistent-skill"}, rep.Messages())
	assert.Equal(t, KindBundleSkill, rep.Problems[0].Kind)
	assert.False(t, rep.NarrativeRead)
}

func TestValidateAllResolved(t *testing.T) {
	f := newFixture(t,
		`{"workflows":[{"id":"ship","steps":[{"recommendedSkills":["alpha"]}],"relatedBundles":["core"]}]}`,
		`{"bundles":{"core":{"skills":["alpha","group/beta"]}}}`,
		"- [Alpha](../skills/alpha/)\n- [Beta](../skills/group/beta/)\n- [Site](https://example.com/)\n")
	f.in.Skills = skills("alpha", "group/beta")

	rep, err := Validate(f.in, Options{Schema: true, DuplicateIDs: true})
	require.NoError(t, err)
	assert.True(t, rep.Passed(), "problems: %v", rep.Messages())
	assert.Equal(t, 1, rep.WorkflowCount)
	assert.Equal(t, 1, rep.BundleCount)
	assert.Equal(t, 2, rep.SkillCount)
	assert.True(t, rep.NarrativeRead)
}

func TestValidateReportsInOrder(t *testing.T) {
	f := newFixture(t,
		`{"workflows":[
			{"id":"one","steps":[{"recommendedSkills":["ghost","alpha"]},{"recommendedSkills":["phantom"]}],"relatedBundles":["core","nope"]},
			{"steps":[{"recommendedSkills":["ghost"]}]}
		]}`,
		`{"bundles":{"zeta":{"skills":["z"]},"core":{"skills":["a"]}}}`,
		"[Gone](../skills/gone/) and [Alpha](../skills/alpha/)\n")
	f.in.Skills = skills("alpha")

	rep, err := Validate(f.in, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"workflows.json workflow 'one' recommends missing skill: ghost",
		"workflows.json workflow 'one' recommends missing skill: phantom",
		"workflows.json workflow 'one' references missing bundle: nope",
		"workflows.json workflow '?' recommends missing skill: ghost",
		"bundles.json bundle 'core' lists missing skill: a",
		"bundles.json bundle 'zeta' lists missing skill: z",
		"docs/BUNDLES.md links to missing skill: gone",
	}, rep.Messages())
}

func TestValidateDuplicateIDsOptIn(t *testing.T) {
	f := newFixture(t, `{"workflows":[{"id":"a"},{"id":"a"},{"id":"a"}]}`, `{"bundles":{}}`, "")
	f.in.Skills = skills()

	rep, err := Validate(f.in, Options{})
	require.NoError(t, err)
	assert.True(t, rep.Passed())

	rep, err = Validate(f.in, Options{DuplicateIDs: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"workflows.json has duplicate workflow id: a"}, rep.Messages())
}

func TestValidateSchemaViolations(t *testing.T) {
	f := newFixture(t, `{"workflows":[{"id":"x","steps":"oops"}]}`, `{"bundles":{"core":{"skills":["ghost"]}}}`, "")
	f.in.Skills = skills()

	rep, err := Validate(f.in, Options{Schema: true})
	require.NoError(t, err)
	require.Len(t, rep.Problems, 2)
	assert.Equal(t, KindSchema, rep.Problems[0].Kind)
	assert.Contains(t, rep.Problems[0].Message, "workflows.json schema: workflows.0.steps")
	assert.Equal(t, "bundles.json bundle 'core' lists missing skill: ghost", rep.Problems[1].Message)

	_, err = Validate(f.in, Options{Schema: false})
	assert.Error(t, err, "a malformed catalog is fatal without the schema check")
}

func TestValidateMissingCatalogIsFatal(t *testing.T) {
	f := newFixture(t, `{}`, `{}`, "")
	f.in.Skills = skills()
	require.NoError(t, os.Remove(f.in.Bundles))

	_, err := Validate(f.in, Options{})
	assert.ErrorIs(t, err, catalog.ErrCatalogNotFound)
}

func TestValidateYAMLCatalogs(t *testing.T) {
	f := newFixture(t, "", "", "")
	dir := filepath.Dir(f.in.Workflows)
	f.in.Workflows = filepath.Join(dir, "workflows.yaml")
	f.in.Bundles = filepath.Join(dir, "bundles.toml")
	require.NoError(t, os.WriteFile(f.in.Workflows, []byte("workflows:\n  - id: w\n    relatedBundles: [core, gone]\n"), 0o644))
	require.NoError(t, os.WriteFile(f.in.Bundles, []byte("[bundles.core]\nskills = [\"alpha\"]\n"), 0o644))
	f.in.Skills = skills("alpha")

	rep, err := Validate(f.in, Options{Schema: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"workflows.yaml workflow 'w' references missing bundle: gone"}, rep.Messages())
}

func TestNarrativePattern(t *testing.T) {
	p, err := NarrativePattern("/repo/docs", "/repo/skills")
	require.NoError(t, err)
	assert.Equal(t, []string{"](../skills/a/)", "a"}, p.FindStringSubmatch("see [A](../skills/a/)"))
	assert.Nil(t, p.FindStringSubmatch("see [A](../skills/a)"))

	p, err = NarrativePattern("/repo", "/repo/skills")
	require.NoError(t, err)
	assert.Equal(t, "b/c", p.FindStringSubmatch("[B](./skills/b/c/)")[1])
	assert.Equal(t, "b", p.FindStringSubmatch("[B](skills/b/)")[1])
}
