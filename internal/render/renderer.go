package render

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/ion/internal/config"
	"git.home.luguber.info/inful/ion/internal/content"
	ferrors "git.home.luguber.info/inful/ion/internal/foundation/errors"
	"git.home.luguber.info/inful/ion/internal/logfields"
	"git.home.luguber.info/inful/ion/internal/metrics"
	"git.home.luguber.info/inful/ion/internal/page"
	"git.home.luguber.info/inful/ion/internal/theme"
)

// Output file names written into every rendered directory.
const (
	HTMLFile = "index.html"
	JSONFile = "index.json"
)

// Failure is a directory that could not be rendered under the continue policy.
type Failure struct {
	Dir string
	Err error
}

// Report summarizes one render pass. Paths are relative to the site root and
// slash separated.
type Report struct {
	RunID    string
	Pages    []string
	Skipped  int
	Blocked  int
	Failures []Failure
	Duration time.Duration
}

// Renderer renders site trees. It is not safe for concurrent use.
type Renderer struct {
	site      *config.Site
	assembler *page.Assembler
	engine    *theme.Engine
	logger    *slog.Logger
	recorder  metrics.Recorder
	policy    config.ErrorPolicy
	onPage    func(path string)
	now       func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Renderer) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithErrorPolicy overrides the site's on_error policy.
func WithErrorPolicy(p config.ErrorPolicy) Option {
	return func(r *Renderer) { r.policy = p }
}

// WithPageHook registers fn to be called with the relative path of every
// index.html right after it is written.
func WithPageHook(fn func(path string)) Option {
	return func(r *Renderer) { r.onPage = fn }
}

// New returns a Renderer for site.
func New(site *config.Site, opts ...Option) *Renderer {
	r := &Renderer{
		site:      site,
		assembler: page.NewAssembler(site),
		engine:    theme.NewEngine(site),
		logger:    slog.Default(),
		recorder:  metrics.NoopRecorder{},
		policy:    site.OnError(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render renders the tree below root, which may be relative to the site root
// and must lie inside it. The returned Report is never nil, also when an
// error is returned.
func (r *Renderer) Render(ctx context.Context, root string) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	log := r.logger.With(logfields.RunID(report.RunID))
	start := r.now()

	err := r.walk(ctx, log, root, report)
	report.Duration = r.now().Sub(start)

	r.recorder.ObserveRenderDuration(report.Duration)
	r.recorder.SetPagesRendered(len(report.Pages))
	r.recorder.IncRenderOutcome(outcome(err, report))

	attrs := []any{
		logfields.Pages(len(report.Pages)),
		logfields.Skipped(report.Skipped),
		logfields.Failures(len(report.Failures)),
		logfields.DurationMS(float64(report.Duration.Microseconds()) / 1000),
	}
	if err != nil {
		log.Error("Render failed", append(attrs, logfields.Error(err))...)
		return report, err
	}
	log.Info("Render complete", attrs...)
	return report, nil
}

func outcome(err error, report *Report) metrics.OutcomeLabel {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	case err != nil && len(report.Failures) > 0 && len(report.Pages) > 0:
		return metrics.OutcomePartial
	case err != nil:
		return metrics.OutcomeFailed
	default:
		return metrics.OutcomeSuccess
	}
}

func (r *Renderer) walk(ctx context.Context, log *slog.Logger, root string, report *Report) error {
	absRoot, err := r.resolveRoot(root)
	if err != nil {
		return err
	}
	log.Debug("Rendering tree", logfields.Path(absRoot), logfields.Policy(string(r.policy)))

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == absRoot {
				return walkErr
			}
			return r.fail(log, report, relName(r.site.Root(), path), walkErr)
		}
		if !d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		name := relName(r.site.Root(), path)
		if r.site.IsBlocked(name) {
			log.Debug("Skipping blocked directory", logfields.Dir(name))
			report.Blocked++
			r.recorder.IncDirectoryResult(metrics.ResultBlocked)
			// Subdirectories are matched by their own names.
			return nil
		}

		dirStart := r.now()
		htmlPath, err := r.renderDir(log, path, name)
		r.recorder.ObserveDirectoryDuration(r.now().Sub(dirStart))
		switch {
		case err != nil:
			return r.fail(log, report, name, err)
		case htmlPath == "":
			report.Skipped++
			r.recorder.IncDirectoryResult(metrics.ResultSkipped)
		default:
			report.Pages = append(report.Pages, htmlPath)
			r.recorder.IncDirectoryResult(metrics.ResultRendered)
			if r.onPage != nil {
				r.onPage(htmlPath)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !ferrors.IsClassified(err) {
			return ferrors.NotFoundError("render root does not exist").WithCause(err).WithContext("path", absRoot).Build()
		}
		return err
	}

	if len(report.Failures) > 0 {
		errs := make([]error, 0, len(report.Failures))
		for _, f := range report.Failures {
			errs = append(errs, f.Err)
		}
		return errors.Join(errs...)
	}
	return nil
}

// fail applies the error policy to a failing directory.
func (r *Renderer) fail(log *slog.Logger, report *Report, name string, err error) error {
	err = withDir(err, name)
	r.recorder.IncDirectoryResult(metrics.ResultFailed)
	if r.policy != config.PolicyContinue {
		return err
	}
	log.Error("Failed to render directory", logfields.Dir(name), logfields.Error(err))
	report.Failures = append(report.Failures, Failure{Dir: name, Err: err})
	return nil
}

// withDir attaches the directory to err, keeping the classification of
// already classified errors.
func withDir(err error, name string) error {
	if ce, ok := err.(*ferrors.ClassifiedError); ok {
		return ce.WithContext("dir", name)
	}
	return ferrors.RenderError("could not render directory").
		WithCause(err).
		WithContext("dir", name).
		Build()
}

func (r *Renderer) resolveRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}
	abs := root
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.site.Root(), root)
	}
	abs = filepath.Clean(abs)
	rel, err := filepath.Rel(r.site.Root(), abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ferrors.ValidationError("render root must be inside the site root").
			WithContext("path", root).
			Build()
	}
	return abs, nil
}

// renderDir renders one directory and returns the relative path of the
// written index.html, or "" when the directory has no content file.
func (r *Renderer) renderDir(log *slog.Logger, dir, name string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "could not list directory").Build()
	}
	fileNames := make([]string, 0, len(entries))
	for _, e := range entries {
		if isFile(dir, e) {
			fileNames = append(fileNames, e.Name())
		}
	}
	if !slices.Contains(fileNames, r.site.SourceFile()) {
		log.Debug("No content file, skipping", logfields.Dir(name))
		return "", nil
	}

	rec, err := content.Parse(filepath.Join(dir, r.site.SourceFile()))
	if err != nil {
		return "", err
	}
	data, err := r.assembler.Assemble(rec, name, fileNames)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryInternal, "could not assemble page data").Build()
	}
	html, err := r.engine.RenderPage(data)
	if err != nil {
		return "", err
	}
	// Data.MarshalJSON keeps field order and leaves HTML unescaped.
	js, err := data.MarshalJSON()
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryInternal, "could not encode page data").Build()
	}

	if err := writeOutput(filepath.Join(dir, JSONFile), js); err != nil {
		return "", err
	}
	if err := writeOutput(filepath.Join(dir, HTMLFile), []byte(html)); err != nil {
		return "", err
	}

	htmlPath := joinRel(name, HTMLFile)
	log.Info("Generated page",
		logfields.Path(htmlPath),
		logfields.Permalink(data.Permalink()),
		logfields.Theme(r.engine.ThemeName(data)))
	return htmlPath, nil
}

// isFile reports whether e is a file, following symlinks.
func isFile(dir string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return !e.IsDir()
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && !fi.IsDir()
}

func writeOutput(path string, b []byte) error {
	// #nosec G306 -- generated site files are meant to be world readable
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "could not write output file").
			WithContext("path", path).
			Build()
	}
	return nil
}

// relName is the normalized blocked-dir name of path: slash separated,
// relative to root, "." for root itself.
func relName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return config.NormalizeDirName(filepath.ToSlash(rel))
}

func joinRel(dir, file string) string {
	if dir == "." || dir == "" {
		return file
	}
	return dir + "/" + file
}
