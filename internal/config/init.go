package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/ion/internal/foundation/errors"
)

// DefaultThemeHTML is the template written by Init for the default theme. It
// uses every standard placeholder.
const DefaultThemeHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ title }}</title>
<base href="{{ base_url }}">
<link rel="canonical" href="{{ permalink }}">
<link rel="stylesheet" type="text/css" href="{{ themes_url }}/ionize/style.css"/>
{{ styles }}
</head>
<body>
<header><h1><a href="{{ permalink }}">{{ title }}</a></h1><p>{{ date }}</p></header>
<main>
{{ content }}
</main>
{{ scripts }}
</body>
</html>
`

// Init creates the system folder under root with a default config.yaml and
// the default theme. An existing config.yaml is only replaced when force is
// set. It returns the files written.
func Init(root string, force bool) ([]string, error) {
	systemPath := filepath.Join(root, DefaultSystemDir)
	configPath := filepath.Join(systemPath, YAMLFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		return nil, ferrors.NewError(ferrors.CategoryAlreadyExists, "configuration already exists, use --force to overwrite").
			WithContext("path", configPath).
			Build()
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "could not inspect configuration file").
			WithContext("path", configPath).
			Build()
	}

	cfg, err := yaml.Marshal(File{
		BaseURL:      DefaultBaseURL,
		DefaultTheme: DefaultThemeName,
		BlockedDirs:  DirList{},
		OnError:      string(PolicyFailFast),
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "could not encode default configuration").Build()
	}

	themePath := filepath.Join(systemPath, ThemesDirName, DefaultThemeName, "index.html")
	written := []string{}
	if err := writeFile(configPath, cfg, 0o600); err != nil {
		return nil, err
	}
	written = append(written, configPath)

	if _, err := os.Stat(themePath); err == nil && !force {
		return written, nil
	}
	if err := writeFile(themePath, []byte(DefaultThemeHTML), 0o644); err != nil {
		return written, err
	}
	return append(written, themePath), nil
}

func writeFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "could not create directory").
			WithContext("path", filepath.Dir(path)).
			Build()
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "could not write file").
			WithContext("path", path).
			Build()
	}
	return nil
}
