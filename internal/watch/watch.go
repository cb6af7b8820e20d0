// Package watch re-renders a site whenever its files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/ion/internal/config"
	"git.home.luguber.info/inful/ion/internal/logfields"
	"git.home.luguber.info/inful/ion/internal/render"
)

// DefaultDebounce is how long the watcher waits for further events before
// starting a render.
const DefaultDebounce = 300 * time.Millisecond

// Renderer renders a tree below root.
type Renderer interface {
	Render(ctx context.Context, root string) (*render.Report, error)
}

// Watcher runs full render passes on file changes. Passes never overlap.
type Watcher struct {
	site        *config.Site
	renderer    Renderer
	root        string
	debounce    time.Duration
	logger      *slog.Logger
	afterRender func(*render.Report, error)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithAfterRender registers fn to be called after every render pass.
func WithAfterRender(fn func(*render.Report, error)) Option {
	return func(w *Watcher) { w.afterRender = fn }
}

// New returns a Watcher rendering root (relative to the site root unless
// absolute) with r.
func New(site *config.Site, r Renderer, root string, opts ...Option) *Watcher {
	w := &Watcher{
		site:     site,
		renderer: r,
		root:     root,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run renders once and then re-renders on every debounced batch of changes
// until ctx is done. Failed passes are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	absRoot := w.root
	if !filepath.IsAbs(absRoot) {
		absRoot = filepath.Join(w.site.Root(), absRoot)
	}
	if err := w.addDirsRecursive(fw, absRoot); err != nil {
		return err
	}
	// Theme edits re-render too, also when the themes live outside absRoot.
	themes := filepath.Join(w.site.Root(), filepath.FromSlash(w.site.ThemesDir()))
	if _, err := os.Stat(themes); err == nil && !w.within(absRoot, themes) {
		_ = w.addDirsRecursive(fw, themes)
	}

	w.rebuild(ctx)
	w.logger.Info("Watching for changes", logfields.Path(absRoot))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopped watching")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			// New directories are watched even inside blocked ones; their
			// children are matched by their own names.
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = w.addDirsRecursive(fw, ev.Name)
				}
			}
			if w.ignore(ev) {
				continue
			}
			w.logger.Debug("File change detected", logfields.Path(ev.Name), logfields.Event(ev.Op.String()))
			pending = time.After(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		case <-pending:
			pending = nil
			w.rebuild(ctx)
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context) {
	report, err := w.renderer.Render(ctx, w.root)
	if err != nil && !errors.Is(err, context.Canceled) {
		w.logger.Warn("Render failed, waiting for further changes", logfields.Error(err))
	}
	if w.afterRender != nil {
		w.afterRender(report, err)
	}
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := fw.Add(path); err != nil {
			w.logger.Warn("Watch add failed", logfields.Dir(path), logfields.Error(err))
		}
		return nil
	})
}

// ignore reports whether ev must not trigger a render: generated outputs,
// files directly inside blocked directories, pure permission changes and
// editor temp files.
func (w *Watcher) ignore(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return true
	}
	if ShouldIgnoreFile(ev.Name) {
		return true
	}
	if w.inThemes(ev.Name) {
		return false
	}
	base := filepath.Base(ev.Name)
	if base == render.HTMLFile || base == render.JSONFile {
		return true
	}
	return w.blocked(filepath.Dir(ev.Name))
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.site.Root(), path)
	if err != nil {
		return ""
	}
	return config.NormalizeDirName(filepath.ToSlash(rel))
}

// blocked reports whether the directory path is itself blocked. Parents are
// not consulted: a blocked directory does not block its subdirectories.
func (w *Watcher) blocked(dir string) bool {
	name := w.rel(dir)
	return name != "" && w.site.IsBlocked(name)
}

func (w *Watcher) within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *Watcher) inThemes(path string) bool {
	name := w.rel(path)
	themes := w.site.ThemesDir()
	return name == themes || strings.HasPrefix(name, themes+"/")
}

// ShouldIgnoreFile returns true for hidden, editor swap and OS metadata files.
func ShouldIgnoreFile(path string) bool {
	base := filepath.Base(path)

	// Ignore hidden files
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Ignore editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}
