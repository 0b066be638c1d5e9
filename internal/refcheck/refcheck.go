/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package refcheck cross-checks the catalogs and the narrative document
// against the skill corpus. It never writes anything.
package refcheck

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fulmenhq/skillneat/internal/catalog"
	"github.com/fulmenhq/skillneat/internal/schema"
	"github.com/fulmenhq/skillneat/pkg/logger"
)

// Kind classifies a broken reference.
type Kind string

const (
	KindSchema         Kind = "schema"
	KindDuplicateID    Kind = "duplicate-id"
	KindWorkflowSkill  Kind = "workflow-skill"
	KindWorkflowBundle Kind = "workflow-bundle"
	KindBundleSkill    Kind = "bundle-skill"
	KindNarrativeSkill Kind = "narrative-skill"
)

// Problem is one labeled broken reference.
type Problem struct {
	Kind    Kind   `json:"kind"`
	Source  string `json:"source"`
	Owner   string `json:"owner,omitempty"`
	Target  string `json:"target,omitempty"`
	Message string `json:"message"`
}

func (p Problem) String() string { return p.Message }

// Report is the outcome of a validation run.
type Report struct {
	SkillCount    int       `json:"skill_count"`
	WorkflowCount int       `json:"workflow_count"`
	BundleCount   int       `json:"bundle_count"`
	NarrativeRead bool      `json:"narrative_checked"`
	Problems      []Problem `json:"problems"`
}

// Passed reports whether no broken references were found.
func (r *Report) Passed() bool { return len(r.Problems) == 0 }

// Messages returns the problem messages in report order.
func (r *Report) Messages() []string {
	out := make([]string, len(r.Problems))
	for i, p := range r.Problems {
		out[i] = p.Message
	}
	return out
}

func (r *Report) add(p Problem) { r.Problems = append(r.Problems, p) }

// Skills is the corpus identifier set.
type Skills interface {
	Has(id string) bool
	Len() int
}

// Inputs locates everything a validation run reads.
type Inputs struct {
	Skills    Skills
	SkillsDir string
	Workflows string
	Bundles   string
	// Narrative is optional; a missing file is skipped.
	Narrative string
	// NarrativeLabel names the narrative document in messages.
	NarrativeLabel string
}

// Options toggles optional checks.
type Options struct {
	Schema       bool
	DuplicateIDs bool
}

// Validate runs every check. Missing catalogs and unparseable files are
// fatal and returned as errors; broken references land in the report.
func Validate(in Inputs, opts Options) (*Report, error) {
	wdoc, err := catalog.Read(in.Workflows)
	if err != nil {
		return nil, err
	}
	bdoc, err := catalog.Read(in.Bundles)
	if err != nil {
		return nil, err
	}

	rep := &Report{SkillCount: in.Skills.Len(), Problems: []Problem{}}

	workflowsOK, bundlesOK := true, true
	if opts.Schema {
		workflowsOK = checkSchema(rep, wdoc, schema.Workflows)
		bundlesOK = checkSchema(rep, bdoc, schema.Bundles)
	}

	bundles := &catalog.Bundles{Bundles: map[string]catalog.Bundle{}}
	if bundlesOK {
		if bundles, err = bdoc.Bundles(); err != nil {
			return nil, err
		}
	}
	rep.BundleCount = len(bundles.Bundles)

	if workflowsOK {
		workflows, err := wdoc.Workflows()
		if err != nil {
			return nil, err
		}
		rep.WorkflowCount = len(workflows.Workflows)
		if opts.DuplicateIDs {
			checkDuplicateIDs(rep, wdoc.Name(), workflows)
		}
		checkWorkflows(rep, wdoc.Name(), workflows, in.Skills, bundles, bundlesOK)
	}

	if bundlesOK {
		checkBundles(rep, bdoc.Name(), bundles, in.Skills)
	}

	if in.Narrative != "" {
		read, err := checkNarrative(rep, in)
		if err != nil {
			return nil, err
		}
		rep.NarrativeRead = read
	}

	logger.Debug("reference validation finished",
		logger.Int("skills", rep.SkillCount),
		logger.Int("workflows", rep.WorkflowCount),
		logger.Int("bundles", rep.BundleCount),
		logger.Int("problems", len(rep.Problems)))
	return rep, nil
}

func checkSchema(rep *Report, doc *catalog.Document, name string) bool {
	res, err := schema.Validate(doc.Data, name)
	if err != nil {
		logger.Warn("schema check unavailable", logger.String("schema", name), logger.Err(err))
		return true
	}
	for _, e := range res.Errors {
		rep.add(Problem{
			Kind:    KindSchema,
			Source:  doc.Name(),
			Target:  e.Path,
			Message: fmt.Sprintf("%s schema: %s", doc.Name(), e),
		})
	}
	return res.Valid
}

func checkDuplicateIDs(rep *Report, source string, w *catalog.Workflows) {
	seen := make(map[string]int, len(w.Workflows))
	for _, wf := range w.Workflows {
		seen[wf.ID]++
		if seen[wf.ID] == 2 {
			rep.add(Problem{
				Kind:    KindDuplicateID,
				Source:  source,
				Target:  wf.ID,
				Message: fmt.Sprintf("%s has duplicate workflow id: %s", source, wf.Label()),
			})
		}
	}
}

func checkWorkflows(rep *Report, source string, w *catalog.Workflows, skills Skills, bundles *catalog.Bundles, checkBundleRefs bool) {
	for _, wf := range w.Workflows {
		for _, step := range wf.Steps {
			for _, id := range step.RecommendedSkills {
				if skills.Has(id) {
					continue
				}
				rep.add(Problem{
					Kind:    KindWorkflowSkill,
					Source:  source,
					Owner:   wf.ID,
					Target:  id,
					Message: fmt.Sprintf("%s workflow '%s' recommends missing skill: %s", source, wf.Label(), id),
				})
			}
		}
		if !checkBundleRefs {
			continue
		}
		for _, id := range wf.RelatedBundles {
			if bundles.Has(id) {
				continue
			}
			rep.add(Problem{
				Kind:    KindWorkflowBundle,
				Source:  source,
				Owner:   wf.ID,
				Target:  id,
				Message: fmt.Sprintf("%s workflow '%s' references missing bundle: %s", source, wf.Label(), id),
			})
		}
	}
}

func checkBundles(rep *Report, source string, b *catalog.Bundles, skills Skills) {
	for _, bid := range b.IDs() {
		for _, id := range b.Bundles[bid].Skills {
			if skills.Has(id) {
				continue
			}
			rep.add(Problem{
				Kind:    KindBundleSkill,
				Source:  source,
				Owner:   bid,
				Target:  id,
				Message: fmt.Sprintf("%s bundle '%s' lists missing skill: %s", source, bid, id),
			})
		}
	}
}

// NarrativePattern matches links of the form ](<rel>/<id>/) where rel is the
// path from the narrative document's directory to the skills directory.
func NarrativePattern(narrativeDir, skillsDir string) (*regexp.Regexp, error) {
	rel, err := filepath.Rel(narrativeDir, skillsDir)
	if err != nil {
		return nil, fmt.Errorf("skills directory is not reachable from %s: %w", narrativeDir, err)
	}
	prefix := regexp.QuoteMeta(filepath.ToSlash(rel))
	if !strings.HasPrefix(rel, ".") {
		prefix = `(?:\./)?` + prefix
	}
	return regexp.Compile(`\]\(` + prefix + `/([^)]+)/\)`)
}

func checkNarrative(rep *Report, in Inputs) (bool, error) {
	data, err := os.ReadFile(in.Narrative)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("narrative document absent, skipping", logger.Path(in.Narrative))
			return false, nil
		}
		return false, fmt.Errorf("failed to read narrative document: %w", err)
	}

	pattern, err := NarrativePattern(filepath.Dir(in.Narrative), in.SkillsDir)
	if err != nil {
		return false, err
	}
	label := in.NarrativeLabel
	if label == "" {
		label = filepath.Base(in.Narrative)
	}
	for _, m := range pattern.FindAllStringSubmatch(string(data), -1) {
		id := strings.TrimRight(m[1], "/")
		if in.Skills.Has(id) {
			continue
		}
		rep.add(Problem{
			Kind:    KindNarrativeSkill,
			Source:  label,
			Target:  id,
			Message: fmt.Sprintf("%s links to missing skill: %s", label, id),
		})
	}
	return true, nil
}
