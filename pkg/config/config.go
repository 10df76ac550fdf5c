// Package config loads walker settings from a project file.
//
// The file is .modwalk.toml, .modwalk.yaml or .modwalk.yml, found by walking
// up from a directory. Unset fields keep the walker defaults:
//
//	concurrency = 8
//	extensions = [".js", ".ts"]
//	allow_cyclic = false
//
//	[[stage]]
//	name = "ts"
//	glob = "*.ts"
//	command = ["esbuild", "--loader=ts", "--sourcefile={file}"]
//	kind = "source"
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/kaelzhang/module-walker/pkg/errors"
	"github.com/kaelzhang/module-walker/pkg/resolve"
	"github.com/kaelzhang/module-walker/pkg/transform"
	"github.com/kaelzhang/module-walker/pkg/walker"
)

// FileNames lists the recognized config file names in lookup order.
var FileNames = []string{".modwalk.toml", ".modwalk.yaml", ".modwalk.yml"}

// Config is the decoded config file. Pointer fields distinguish unset
// values from explicit zeros.
type Config struct {
	Concurrency             *int     `toml:"concurrency" yaml:"concurrency" json:"concurrency,omitempty"`
	Extensions              []string `toml:"extensions" yaml:"extensions" json:"extensions,omitempty"`
	AllowCyclic             *bool    `toml:"allow_cyclic" yaml:"allow_cyclic" json:"allow_cyclic,omitempty"`
	AllowAbsoluteDependency *bool    `toml:"allow_absolute_dependency" yaml:"allow_absolute_dependency" json:"allow_absolute_dependency,omitempty"`
	RequireResolve          *bool    `toml:"require_resolve" yaml:"require_resolve" json:"require_resolve,omitempty"`
	RequireAsync            *bool    `toml:"require_async" yaml:"require_async" json:"require_async,omitempty"`
	CheckRequireLength      *bool    `toml:"check_require_length" yaml:"check_require_length" json:"check_require_length,omitempty"`
	AllowNonLiteralRequire  *bool    `toml:"allow_non_literal_require" yaml:"allow_non_literal_require" json:"allow_non_literal_require,omitempty"`
	CommentRequire          *bool    `toml:"comment_require" yaml:"comment_require" json:"comment_require,omitempty"`
	CheckPackages           *bool    `toml:"check_packages" yaml:"check_packages" json:"check_packages,omitempty"`
	Stages                  []Stage  `toml:"stage" yaml:"stages" json:"stages,omitempty"`

	// Path is the file the config was loaded from.
	Path string `toml:"-" yaml:"-" json:"-"`
}

// Stage configures an external command transform.
type Stage struct {
	Name    string         `toml:"name" yaml:"name" json:"name,omitempty"`
	Regex   string         `toml:"regex" yaml:"regex" json:"regex,omitempty"`
	Glob    string         `toml:"glob" yaml:"glob" json:"glob,omitempty"`
	Command []string       `toml:"command" yaml:"command" json:"command,omitempty"`
	Kind    string         `toml:"kind" yaml:"kind" json:"kind,omitempty"`
	Options map[string]any `toml:"options" yaml:"options" json:"options,omitempty"`
}

// Find looks for a config file in dir and its parents.
func Find(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		for _, name := range FileNames {
			p := filepath.Join(dir, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Load reads and validates the config file at path. The format follows the
// extension: .toml, or .yaml/.yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config").WithPath(path)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		if e, ok := errors.As(err); ok {
			e.Path = path
		}
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes data in the given format (".toml", ".yaml" or ".yml").
func Parse(data []byte, format string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse toml")
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", keys[0].String())
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q", format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values. Parse and Load call it.
func (c *Config) Validate() error {
	if c.Concurrency != nil {
		if err := errors.ValidateConcurrency(*c.Concurrency); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "concurrency")
		}
	}
	if c.Extensions != nil {
		if err := errors.ValidateExtensions(c.Extensions); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "extensions")
		}
	}
	for i, s := range c.Stages {
		if len(s.Command) == 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "stage %d (%s): command is required", i+1, s.Name)
		}
		if s.Regex != "" && s.Glob != "" {
			return errors.New(errors.ErrCodeInvalidConfig, "stage %d (%s): set regex or glob, not both", i+1, s.Name)
		}
		if s.Kind != "" {
			if _, ok := transform.ParseKind(s.Kind); !ok {
				return errors.New(errors.ErrCodeInvalidConfig, "stage %d (%s): unknown kind %q", i+1, s.Name, s.Kind)
			}
		}
	}
	return nil
}

// Apply overlays the set fields of c onto opts.
func (c *Config) Apply(opts *walker.Options) {
	if c.Concurrency != nil {
		opts.Concurrency = *c.Concurrency
	}
	if c.Extensions != nil {
		opts.Extensions = append([]string{}, c.Extensions...)
	}
	setBool(&opts.AllowCyclic, c.AllowCyclic)
	setBool(&opts.AllowAbsoluteDependency, c.AllowAbsoluteDependency)
	setBool(&opts.RequireResolve, c.RequireResolve)
	setBool(&opts.RequireAsync, c.RequireAsync)
	setBool(&opts.CheckRequireLength, c.CheckRequireLength)
	setBool(&opts.AllowNonLiteralRequire, c.AllowNonLiteralRequire)
	setBool(&opts.CommentRequire, c.CommentRequire)
	if c.CheckPackages != nil {
		if *c.CheckPackages {
			opts.Packages = resolve.NodeModules{}
		} else {
			opts.Packages = nil
		}
	}
	for _, s := range c.Stages {
		opts.Stages = append(opts.Stages, s.stage())
	}
}

func (s Stage) stage() transform.Stage {
	var kind *transform.Kind
	if k, ok := transform.ParseKind(s.Kind); ok {
		kind = &k
	}
	var match transform.MatchRule
	switch {
	case s.Regex != "":
		match = transform.Regex(s.Regex)
	case s.Glob != "":
		match = transform.Glob(s.Glob)
	}
	name := s.Name
	if name == "" {
		name = filepath.Base(s.Command[0])
	}
	return transform.Stage{
		Name:    name,
		Match:   match,
		Options: s.Options,
		Run:     transform.Command(s.Command, kind),
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
