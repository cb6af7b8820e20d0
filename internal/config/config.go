// Package config loads the site configuration from the system folder.
//
// The system folder (_ion) sits in the site root and holds config.yaml (or the
// legacy config.ini), the themes directory and an optional model.ion used when
// creating new pages. A Site is built once per run and never modified.
package config

import (
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/ion/internal/foundation/errors"
	"git.home.luguber.info/inful/ion/internal/theme"
	"git.home.luguber.info/inful/ion/internal/urlpath"
	"git.home.luguber.info/inful/ion/internal/util/sets"
)

const (
	DefaultSystemDir  = "_ion"
	DefaultSourceFile = "data.ion"
	DefaultBaseURL    = "/"
	DefaultThemeName  = "ionize"

	YAMLFileName  = "config.yaml"
	INIFileName   = "config.ini"
	ModelFileName = "model.ion"
	ThemesDirName = "themes"
)

// File is the on-disk configuration. Both config.yaml and config.ini decode into it.
type File struct {
	BaseURL      string  `yaml:"base_url"`
	DefaultTheme string  `yaml:"default_theme"`
	BlockedDirs  DirList `yaml:"blocked_dirs"`
	OnError      string  `yaml:"on_error"`
	LogLevel     string  `yaml:"log_level,omitempty"`
	LogFormat    string  `yaml:"log_format,omitempty"`
	MetricsFile  string  `yaml:"metrics_file,omitempty"`
}

// Site is the immutable configuration of one site.
type Site struct {
	root         string
	systemDir    string
	sourceFile   string
	baseURL      string
	defaultTheme string
	blocked      sets.Set[string]
	onError      ErrorPolicy
	logLevel     LogLevel
	logFormat    LogFormat
	metricsFile  string
	configPath   string
}

// New builds a Site rooted at root from f, applying defaults and validating
// enum values. The system folder name is always blocked.
func New(root string, f File) (*Site, error) {
	s := &Site{
		root:         root,
		systemDir:    DefaultSystemDir,
		sourceFile:   DefaultSourceFile,
		baseURL:      strings.TrimSpace(f.BaseURL),
		defaultTheme: strings.TrimSpace(f.DefaultTheme),
		blocked:      sets.New[string](),
	}
	if s.baseURL == "" {
		s.baseURL = DefaultBaseURL
	}
	if s.defaultTheme == "" {
		s.defaultTheme = DefaultThemeName
	}
	if !theme.ValidName(s.defaultTheme) {
		return nil, ferrors.ValidationError("invalid default_theme").
			WithContext("default_theme", s.defaultTheme).
			Build()
	}

	for _, d := range f.BlockedDirs {
		if name := NormalizeDirName(d); name != "" {
			s.blocked.Add(name)
		}
	}
	s.blocked.Add(s.systemDir)

	var err error
	if s.onError, err = errorPolicyNormalizer.NormalizeWithError(f.OnError); err != nil {
		return nil, ferrors.ValidationError("invalid on_error").WithCause(err).Build()
	}
	if s.logLevel, err = logLevelNormalizer.NormalizeWithError(f.LogLevel); err != nil {
		return nil, ferrors.ValidationError("invalid log_level").WithCause(err).Build()
	}
	if s.logFormat, err = logFormatNormalizer.NormalizeWithError(f.LogFormat); err != nil {
		return nil, ferrors.ValidationError("invalid log_format").WithCause(err).Build()
	}

	if m := strings.TrimSpace(f.MetricsFile); m != "" {
		if !filepath.IsAbs(m) {
			m = filepath.Join(root, m)
		}
		s.metricsFile = m
	}
	return s, nil
}

// NormalizeDirName turns a directory path into the form used for blocked
// directory matching: slash separated, relative, no leading "./" and no
// trailing slash. The site root itself is ".".
func NormalizeDirName(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	name := strings.TrimRight(urlpath.CleanRel(p), "/")
	if name == "" {
		return "."
	}
	return name
}

// Root is the absolute site root.
func (s *Site) Root() string { return s.root }

// SystemDir is the system folder name relative to the root.
func (s *Site) SystemDir() string { return s.systemDir }

// SystemPath is the absolute system folder path.
func (s *Site) SystemPath() string { return filepath.Join(s.root, s.systemDir) }

// SourceFile is the content file name looked for in every directory.
func (s *Site) SourceFile() string { return s.sourceFile }

// BaseURL is the configured base URL, kept exactly as written.
func (s *Site) BaseURL() string { return s.baseURL }

// ThemesDir is the themes directory relative to the root, slash separated.
func (s *Site) ThemesDir() string { return s.systemDir + "/" + ThemesDirName }

// DefaultTheme is the theme used by pages without a theme field.
func (s *Site) DefaultTheme() string { return s.defaultTheme }

// ModelPath is where a custom content model may be placed.
func (s *Site) ModelPath() string { return filepath.Join(s.SystemPath(), ModelFileName) }

// IsBlocked reports whether the normalized directory name is blocked.
func (s *Site) IsBlocked(name string) bool { return s.blocked.Has(name) }

// BlockedDirs returns the blocked directory names, sorted.
func (s *Site) BlockedDirs() []string { return sets.Sorted(s.blocked) }

// OnError is the render failure policy.
func (s *Site) OnError() ErrorPolicy { return s.onError }

// LogLevel is the configured log level.
func (s *Site) LogLevel() LogLevel { return s.logLevel }

// LogFormat is the configured log format.
func (s *Site) LogFormat() LogFormat { return s.logFormat }

// MetricsFile is the absolute Prometheus textfile path, or "".
func (s *Site) MetricsFile() string { return s.metricsFile }

// ConfigPath is the configuration file the site was loaded from, or "".
func (s *Site) ConfigPath() string { return s.configPath }
