// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

// Package config handles loading and merging shortcut-sync configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTitleTemplate       = "{{{payload.pull_request.title}}}"
	DefaultDescriptionTemplate = "{{{payload.pull_request.html_url}}}"
	DefaultCommentTemplate     = "Shortcut story: {{{story.app_url}}}"
	DefaultShortcutURL         = "https://api.app.shortcut.com/api/v3"
	DefaultShortcutTimeout     = 30 * time.Second
	DefaultLogLevel            = "info"
)

// Action input names.
const (
	InputShortcutToken          = "shortcut-token"
	InputGitHubToken            = "github-token"
	InputIgnoredUsers           = "ignored-users"
	InputOnlyUsers              = "only-users"
	InputUserMap                = "user-map"
	InputLabelIterationGroupMap = "label-iteration-group-map"
	InputProjectName            = "project-name"
	InputTeamName               = "team-name"
	InputOpenedStateName        = "opened-state-name"
	InputStoryTitleTemplate     = "story-title-template"
	InputStoryDescTemplate      = "story-description-template"
	InputCommentTemplate        = "pr-comment-template"
	InputLabelDelay             = "label-delay"
	InputLogLevel               = "log-level"
)

// Config is the root configuration structure. It is built once per run.
type Config struct {
	ShortcutToken string `yaml:"shortcut_token,omitempty"`
	GitHubToken   string `yaml:"github_token,omitempty"`

	// IgnoredUsers and OnlyUsers are comma-separated GitHub usernames.
	IgnoredUsers string `yaml:"ignored_users,omitempty"`
	OnlyUsers    string `yaml:"only_users,omitempty"`

	// UserMap is a JSON object of GitHub username to Shortcut member id.
	UserMap string `yaml:"user_map,omitempty"`

	// LabelIterationGroupMap is a JSON object of label to {groupId, excludeName}.
	LabelIterationGroupMap string `yaml:"label_iteration_group_map,omitempty"`

	// Story routing.
	ProjectName     string `yaml:"project_name"`
	TeamName        string `yaml:"team_name,omitempty"`
	OpenedStateName string `yaml:"opened_state_name,omitempty"`

	// Templates are Mustache templates rendered against the event payload.
	Templates TemplatesConfig `yaml:"templates"`

	// LabelDelay is waited before handling a labeled event.
	LabelDelay time.Duration `yaml:"label_delay,omitempty"`

	Shortcut ShortcutConfig `yaml:"shortcut"`

	LogLevel string `yaml:"log_level,omitempty"`

	// Workflow is a preset workflow name (e.g., "pull-request-opened").
	Workflow string `yaml:"workflow,omitempty"`

	// Steps is a custom list of pipeline steps (overrides workflow).
	Steps []string `yaml:"steps,omitempty"`
}

// TemplatesConfig holds the Mustache templates.
type TemplatesConfig struct {
	StoryTitle       string `yaml:"story_title,omitempty"`
	StoryDescription string `yaml:"story_description,omitempty"`
	PRComment        string `yaml:"pr_comment,omitempty"`
}

// ShortcutConfig holds Shortcut API connection settings.
type ShortcutConfig struct {
	URL     string        `yaml:"url,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// Load reads a config file from the given path and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := parseRaw(data)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

func parseRaw(data []byte) (*Config, error) {
	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	candidates := []string{
		".github/shortcut-sync.yaml",
		".github/shortcut-sync.yml",
		".shortcut-sync.yaml",
		".shortcut-sync.yml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// LoadEnvFile loads KEY=VALUE pairs from a .env file without overriding
// variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// NewInputReader returns a viper instance that resolves action inputs from
// INPUT_<NAME> environment variables, the way the Actions runner exposes them.
func NewInputReader() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("INPUT")
	v.AutomaticEnv()
	return v
}

// FromInputs builds a Config from action inputs. Unset inputs stay zero.
func FromInputs(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ShortcutToken:          v.GetString(InputShortcutToken),
		GitHubToken:            v.GetString(InputGitHubToken),
		IgnoredUsers:           v.GetString(InputIgnoredUsers),
		OnlyUsers:              v.GetString(InputOnlyUsers),
		UserMap:                v.GetString(InputUserMap),
		LabelIterationGroupMap: v.GetString(InputLabelIterationGroupMap),
		ProjectName:            v.GetString(InputProjectName),
		TeamName:               v.GetString(InputTeamName),
		OpenedStateName:        v.GetString(InputOpenedStateName),
		Templates: TemplatesConfig{
			StoryTitle:       v.GetString(InputStoryTitleTemplate),
			StoryDescription: v.GetString(InputStoryDescTemplate),
			PRComment:        v.GetString(InputCommentTemplate),
		},
		LogLevel: v.GetString(InputLogLevel),
	}

	if raw := strings.TrimSpace(v.GetString(InputLabelDelay)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", InputLabelDelay, raw, err)
		}
		cfg.LabelDelay = d
	}

	return cfg, nil
}

// Resolve merges action inputs over an optional config file and applies
// defaults. Inputs win over the file.
func Resolve(path string, v *viper.Viper) (*Config, error) {
	inputs, err := FromInputs(v)
	if err != nil {
		return nil, err
	}

	file := &Config{}
	if path != "" {
		file, err = Load(path)
		if err != nil {
			return nil, err
		}
	}

	merged := mergeConfigs(file, inputs)
	merged.applyDefaults()
	return merged, nil
}

// Validate checks the required settings.
func (c *Config) Validate() error {
	var missing []string
	if c.ShortcutToken == "" {
		missing = append(missing, InputShortcutToken)
	}
	if c.GitHubToken == "" {
		missing = append(missing, InputGitHubToken)
	}
	if c.ProjectName == "" {
		missing = append(missing, InputProjectName)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required input(s): %s", strings.Join(missing, ", "))
	}
	if c.LabelDelay < 0 {
		return fmt.Errorf("%s cannot be negative", InputLabelDelay)
	}
	return nil
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Templates.StoryTitle == "" {
		c.Templates.StoryTitle = DefaultTitleTemplate
	}
	if c.Templates.StoryDescription == "" {
		c.Templates.StoryDescription = DefaultDescriptionTemplate
	}
	if c.Templates.PRComment == "" {
		c.Templates.PRComment = DefaultCommentTemplate
	}
	if c.Shortcut.URL == "" {
		c.Shortcut.URL = DefaultShortcutURL
	}
	if c.Shortcut.Timeout == 0 {
		c.Shortcut.Timeout = DefaultShortcutTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// mergeConfigs merges a child config onto a parent config.
// Non-zero values in child override parent.
func mergeConfigs(parent, child *Config) *Config {
	result := *parent

	overrideString(&result.ShortcutToken, child.ShortcutToken)
	overrideString(&result.GitHubToken, child.GitHubToken)
	overrideString(&result.IgnoredUsers, child.IgnoredUsers)
	overrideString(&result.OnlyUsers, child.OnlyUsers)
	overrideString(&result.UserMap, child.UserMap)
	overrideString(&result.LabelIterationGroupMap, child.LabelIterationGroupMap)
	overrideString(&result.ProjectName, child.ProjectName)
	overrideString(&result.TeamName, child.TeamName)
	overrideString(&result.OpenedStateName, child.OpenedStateName)
	overrideString(&result.Templates.StoryTitle, child.Templates.StoryTitle)
	overrideString(&result.Templates.StoryDescription, child.Templates.StoryDescription)
	overrideString(&result.Templates.PRComment, child.Templates.PRComment)
	overrideString(&result.Shortcut.URL, child.Shortcut.URL)
	overrideString(&result.LogLevel, child.LogLevel)
	overrideString(&result.Workflow, child.Workflow)

	if child.LabelDelay != 0 {
		result.LabelDelay = child.LabelDelay
	}
	if child.Shortcut.Timeout != 0 {
		result.Shortcut.Timeout = child.Shortcut.Timeout
	}
	if len(child.Steps) > 0 {
		result.Steps = child.Steps
	}

	return &result
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
