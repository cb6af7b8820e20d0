package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/ion/internal/foundation/errors"
	"git.home.luguber.info/inful/ion/internal/logfields"
)

// Load reads the configuration of the site rooted at root (usually the
// working directory). Environment files in root are loaded first without
// overriding variables that are already set.
func Load(root string) (*Site, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "could not resolve site root").
			Fatal().
			WithContext("path", root).
			Build()
	}

	loadEnvFiles(absRoot)

	systemPath := filepath.Join(absRoot, DefaultSystemDir)
	if info, err := os.Stat(systemPath); err != nil || !info.IsDir() {
		return nil, ferrors.ConfigError(fmt.Sprintf("system folder %q doesn't exist or couldn't be read; it must be in the directory ion is called from", DefaultSystemDir)).
			WithCause(err).
			WithContext("path", systemPath).
			Build()
	}

	path, f, err := readConfigFile(systemPath)
	if err != nil {
		return nil, err
	}

	site, err := New(absRoot, f)
	if err != nil {
		return nil, err
	}
	site.configPath = path
	return site, nil
}

// readConfigFile prefers config.yaml and falls back to config.ini.
func readConfigFile(systemPath string) (string, File, error) {
	var f File
	for _, name := range []string{YAMLFileName, INIFileName} {
		path := filepath.Join(systemPath, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return path, f, configFileError(path, err)
		}
		if name == YAMLFileName {
			err = parseYAML(data, &f)
		} else {
			err = parseINI(data, &f)
		}
		if err != nil {
			return path, f, configFileError(path, err)
		}
		slog.Debug("Loaded configuration", logfields.Path(path))
		return path, f, nil
	}
	return "", f, ferrors.ConfigError("could not load configuration file").
		WithContext("path", filepath.Join(systemPath, YAMLFileName)).
		Build()
}

func configFileError(path string, err error) error {
	return ferrors.WrapError(err, ferrors.CategoryConfig, "could not load configuration file").
		Fatal().
		WithContext("path", path).
		Build()
}

func parseYAML(data []byte, f *File) error {
	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), f); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}
	return nil
}

// parseINI reads the legacy "key = value" format. Section headers and ';'
// comments are dropped before the dotenv parser sees the content; it handles
// '#' comments, quoting and ${VAR} expansion.
func parseINI(data []byte, f *File) error {
	var filtered bytes.Buffer
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "[") || strings.HasPrefix(line, ";") {
			continue
		}
		filtered.WriteString(line)
		filtered.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return err
	}

	values, err := godotenv.Parse(&filtered)
	if err != nil {
		return fmt.Errorf("parse ini: %w", err)
	}
	for key, value := range values {
		switch key {
		case "base_url":
			f.BaseURL = value
		case "default_theme":
			f.DefaultTheme = value
		case "blocked_dirs":
			f.BlockedDirs = splitList(value)
		case "on_error":
			f.OnError = value
		case "log_level":
			f.LogLevel = value
		case "log_format":
			f.LogFormat = value
		case "metrics_file":
			f.MetricsFile = value
		default:
			slog.Debug("Ignoring unknown configuration key", slog.String("key", key))
		}
	}
	return nil
}

// loadEnvFiles loads .env and .env.local from root when present.
func loadEnvFiles(root string) {
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load environment file", logfields.Path(path), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment variables", logfields.Path(path))
	}
}

// DirList is a list of directory names. In YAML it may be written as a
// sequence or as a single comma-separated string.
type DirList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *DirList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*d = splitList(node.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*d = cleanList(items)
		return nil
	default:
		return fmt.Errorf("blocked_dirs: expected a list or a comma-separated string (line %d)", node.Line)
	}
}

func splitList(s string) DirList {
	return cleanList(strings.Split(s, ","))
}

func cleanList(items []string) DirList {
	out := make(DirList, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
