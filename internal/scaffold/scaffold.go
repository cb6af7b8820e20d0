// Package scaffold creates new content pages.
package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	ferrors "git.home.luguber.info/inful/ion/internal/foundation/errors"
	"git.home.luguber.info/inful/ion/internal/logfields"
)

// Site is the part of the site configuration the Scaffolder needs.
type Site interface {
	Root() string
	SourceFile() string
	ModelPath() string
}

// Result describes the outcome of Spark.
type Result struct {
	// Created is false when the directory already had a content file.
	Created bool
	// Dir is the page directory and File its content file, both as given
	// relative to the site root when possible.
	Dir  string
	File string
}

// Message is the user facing summary of r.
func (r Result) Message() string {
	if !r.Created {
		return fmt.Sprintf("Zap! Page '%s' already exists with a %s file.", r.Dir, filepath.Base(r.File))
	}
	return fmt.Sprintf("Page '%s' successfully created.\nEdit the file %s and call 'ion charge'!", r.Dir, r.File)
}

// Scaffolder writes content files from the site model.
type Scaffolder struct {
	site   Site
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Scaffolder.
type Option func(*Scaffolder)

// WithClock sets the clock used for the model's date field.
func WithClock(now func() time.Time) Option {
	return func(s *Scaffolder) { s.now = now }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Scaffolder) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a Scaffolder for site.
func New(site Site, opts ...Option) *Scaffolder {
	s := &Scaffolder{site: site, now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Spark creates the directory path (relative to the site root unless
// absolute) and writes a content file into it. An existing content file is
// left untouched and reported with Created false.
func (s *Scaffolder) Spark(path string) (Result, error) {
	dir := path
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.site.Root(), dir)
	}
	file := filepath.Join(dir, s.site.SourceFile())
	res := Result{Dir: path, File: filepath.Join(path, s.site.SourceFile())}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return res, ferrors.WrapError(err, ferrors.CategoryFileSystem, "could not create page directory").
			WithContext("path", dir).
			Build()
	}

	if _, err := os.Stat(file); err == nil {
		s.logger.Debug("Content file already exists", logfields.File(file))
		return res, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return res, ferrors.WrapError(err, ferrors.CategoryFileSystem, "could not inspect content file").
			WithContext("path", file).
			Build()
	}

	model, err := s.model(dir)
	if err != nil {
		return res, err
	}
	// #nosec G306 -- content files sit next to the world readable site files
	if err := os.WriteFile(file, model, 0o644); err != nil {
		return res, ferrors.WrapError(err, ferrors.CategoryFileSystem, "could not write content file").
			WithContext("path", file).
			Build()
	}
	s.logger.Info("Created page", logfields.Dir(dir), logfields.File(file))
	res.Created = true
	return res, nil
}

// model returns the site's model.ion when present, else the built-in model
// for dir.
func (s *Scaffolder) model(dir string) ([]byte, error) {
	b, err := os.ReadFile(s.site.ModelPath())
	switch {
	case err == nil:
		return b, nil
	case errors.Is(err, fs.ErrNotExist):
		return []byte(DefaultModel(TitleFromDir(dir), s.now())), nil
	default:
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "could not read content model").
			WithContext("path", s.site.ModelPath()).
			Build()
	}
}

// DefaultModel is the content written for a new page without a site model.
func DefaultModel(title string, date time.Time) string {
	return "title: " + title + "\n" +
		"date: " + date.Format(time.DateOnly) + "\n" +
		"content:\nWrite your content here\n"
}

var titleSeparators = strings.NewReplacer("-", " ", "_", " ")

// TitleFromDir derives a page title from the last element of dir.
func TitleFromDir(dir string) string {
	name := strings.TrimSpace(titleSeparators.Replace(filepath.Base(filepath.Clean(dir))))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "Write your title here"
	}
	return cases.Title(language.English).String(strings.Join(strings.Fields(name), " "))
}
