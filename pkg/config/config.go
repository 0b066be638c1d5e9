package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for skillneat
type Config struct {
	Layout      LayoutConfig   `mapstructure:"layout"`
	Metadata    MetadataConfig `mapstructure:"metadata"`
	Links       LinksConfig    `mapstructure:"links"`
	Validate    ValidateConfig `mapstructure:"validate"`
	Exclude     []string       `mapstructure:"exclude"`
	Concurrency int            `mapstructure:"concurrency"`
}

// LayoutConfig locates the corpus, the catalogs and the narrative document
// relative to the repository root.
type LayoutConfig struct {
	SkillsDir     string `mapstructure:"skills_dir"`
	ManifestName  string `mapstructure:"manifest_name"`
	DataDir       string `mapstructure:"data_dir"`
	WorkflowsFile string `mapstructure:"workflows_file"`
	BundlesFile   string `mapstructure:"bundles_file"`
	NarrativeDoc  string `mapstructure:"narrative_doc"`
}

// MetadataConfig drives header normalization and quote repair.
type MetadataConfig struct {
	MaxDescription   int    `mapstructure:"max_description"`
	Ellipsis         string `mapstructure:"ellipsis"`
	IdentityField    string `mapstructure:"identity_field"`
	DescriptionField string `mapstructure:"description_field"`
}

// Link repair scopes.
const (
	LinkScopeMarkdown  = "markdown"
	LinkScopeManifests = "manifests"
)

// LinksConfig drives dangling link repair.
type LinksConfig struct {
	Scope        string   `mapstructure:"scope"`
	SkipPrefixes []string `mapstructure:"skip_prefixes"`
	SkipCode     bool     `mapstructure:"skip_code"`
}

// ValidateConfig toggles optional reference validator checks.
type ValidateConfig struct {
	Schema       bool `mapstructure:"schema"`
	DuplicateIDs bool `mapstructure:"duplicate_ids"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			SkillsDir:     "skills",
			ManifestName:  "SKILL.md",
			DataDir:       "data",
			WorkflowsFile: "workflows.json",
			BundlesFile:   "bundles.json",
			NarrativeDoc:  "docs/BUNDLES.md",
		},
		Metadata: MetadataConfig{
			MaxDescription:   200,
			Ellipsis:         "...",
			IdentityField:    "name",
			DescriptionField: "description",
		},
		Links: LinksConfig{
			Scope:        LinkScopeMarkdown,
			SkipPrefixes: []string{"http://", "https://", "mailto:", "<", ">"},
			SkipCode:     true,
		},
		Validate: ValidateConfig{
			Schema:       true,
			DuplicateIDs: false,
		},
		Exclude:     []string{},
		Concurrency: 1,
	}
}

// projectConfigs are merged on top of the global config, in order.
var projectConfigs = []string{
	".skillneat.yaml",
	".skillneat.yml",
	".skillneat.json",
	".skillneat.toml",
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("layout.skills_dir", d.Layout.SkillsDir)
	v.SetDefault("layout.manifest_name", d.Layout.ManifestName)
	v.SetDefault("layout.data_dir", d.Layout.DataDir)
	v.SetDefault("layout.workflows_file", d.Layout.WorkflowsFile)
	v.SetDefault("layout.bundles_file", d.Layout.BundlesFile)
	v.SetDefault("layout.narrative_doc", d.Layout.NarrativeDoc)

	v.SetDefault("metadata.max_description", d.Metadata.MaxDescription)
	v.SetDefault("metadata.ellipsis", d.Metadata.Ellipsis)
	v.SetDefault("metadata.identity_field", d.Metadata.IdentityField)
	v.SetDefault("metadata.description_field", d.Metadata.DescriptionField)

	v.SetDefault("links.scope", d.Links.Scope)
	v.SetDefault("links.skip_prefixes", d.Links.SkipPrefixes)
	v.SetDefault("links.skip_code", d.Links.SkipCode)

	v.SetDefault("validate.schema", d.Validate.Schema)
	v.SetDefault("validate.duplicate_ids", d.Validate.DuplicateIDs)

	v.SetDefault("exclude", d.Exclude)
	v.SetDefault("concurrency", d.Concurrency)
}

// Load resolves configuration for the repository at root. When explicit is
// set only that file is read; otherwise skillneat.yaml is searched in root,
// SKILLNEAT_HOME and $HOME, then project dotfiles in root are merged on top.
// The returned slice lists every file that contributed.
func Load(root, explicit string) (*Config, []string, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("SKILLNEAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var sources []string
	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("failed to read config %s: %w", explicit, err)
		}
		sources = append(sources, explicit)
	} else {
		v.SetConfigName("skillneat")
		v.SetConfigType("yaml")
		v.AddConfigPath(root)
		if home, err := GetHome(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath("$HOME")
		if err := v.ReadInConfig(); err == nil {
			sources = append(sources, v.ConfigFileUsed())
		} else {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, nil, fmt.Errorf("failed to read config: %w", err)
			}
		}

		for _, name := range projectConfigs {
			p := filepath.Join(root, name)
			if _, err := os.Stat(p); err != nil {
				continue
			}
			v.SetConfigFile(p)
			v.SetConfigType(strings.TrimPrefix(filepath.Ext(p), "."))
			if err := v.MergeInConfig(); err != nil {
				return nil, nil, fmt.Errorf("failed to merge project config %s: %w", p, err)
			}
			sources = append(sources, p)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Check(); err != nil {
		return nil, nil, err
	}
	return &cfg, sources, nil
}

// Check rejects settings the passes cannot honor.
func (c *Config) Check() error {
	if c.Layout.SkillsDir == "" {
		return errors.New("layout.skills_dir must not be empty")
	}
	if c.Layout.ManifestName == "" {
		return errors.New("layout.manifest_name must not be empty")
	}
	if c.Metadata.MaxDescription <= len([]rune(c.Metadata.Ellipsis)) {
		return fmt.Errorf("metadata.max_description (%d) must exceed the ellipsis length", c.Metadata.MaxDescription)
	}
	switch c.Links.Scope {
	case LinkScopeMarkdown, LinkScopeManifests:
	default:
		return fmt.Errorf("links.scope must be %q or %q, got %q", LinkScopeMarkdown, LinkScopeManifests, c.Links.Scope)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0, got %d", c.Concurrency)
	}
	return nil
}

// Paths holds the resolved locations of everything a run touches.
type Paths struct {
	Root      string
	SkillsDir string
	Workflows string
	Bundles   string
	Narrative string
}

// Resolve anchors the layout at root.
func (c *Config) Resolve(root string) Paths {
	dataDir := filepath.Join(root, c.Layout.DataDir)
	p := Paths{
		Root:      root,
		SkillsDir: filepath.Join(root, c.Layout.SkillsDir),
		Workflows: filepath.Join(dataDir, c.Layout.WorkflowsFile),
		Bundles:   filepath.Join(dataDir, c.Layout.BundlesFile),
	}
	if c.Layout.NarrativeDoc != "" {
		p.Narrative = filepath.Join(root, c.Layout.NarrativeDoc)
	}
	return p
}

// GetHome returns the skillneat home directory (SKILLNEAT_HOME or ~/.skillneat).
func GetHome() (string, error) {
	if home := os.Getenv("SKILLNEAT_HOME"); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".skillneat"), nil
}
