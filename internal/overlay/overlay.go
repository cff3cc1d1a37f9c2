// Package overlay prepares go build -overlay files for packages using throws.
//
// Each Go file of the listed packages is expanded. Changed files are written into the cache directory as shadow
// files named by the hash of their content and overlay.json maps the original paths to them:
//
//	go build -overlay $(throwsgen -overlay ./...) ./...
package overlay

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"github.com/sirkon/throws/internal/expand"
)

// FileName is the name of the overlay file in the cache directory.
const FileName = "overlay.json"

// Options of the builder.
type Options struct {
	Expander *expand.Expander

	// CacheDir keeps shadow files and overlay.json.
	CacheDir string

	// Workers limits concurrent expansions. Zero or less means no limit.
	Workers int

	// MinGo is the lowest go directive of target modules. Lower ones are warned about.
	MinGo string

	// Dir is the directory packages are loaded from. Empty means the working directory.
	Dir string

	// Tests includes test files.
	Tests bool

	Logger *slog.Logger
}

// Builder builds overlays.
type Builder struct {
	opts Options
}

// Result of a build.
type Result struct {
	// Path of overlay.json.
	Path string

	// Replace maps original files to their shadows.
	Replace map[string]string

	// Files is the number of expanded files.
	Files int
}

// New creates a builder.
func New(opts Options) *Builder {
	if opts.Expander == nil {
		opts.Expander = expand.New(expand.Options{Logger: opts.Logger})
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return &Builder{opts: opts}
}

// Build lists packages matching the patterns, expands their files and writes the overlay. Usage errors of all
// files are collected and joined with expand.ErrUsage, the overlay is not written then.
func (b *Builder) Build(ctx context.Context, patterns ...string) (*Result, error) {
	if b.opts.CacheDir == "" {
		return nil, errors.New("cache directory is not set")
	}

	files, err := b.listFiles(ctx, patterns)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(b.opts.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	replace, err := b.expandFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(b.opts.CacheDir, FileName)
	if err := writeOverlay(path, replace); err != nil {
		return nil, err
	}

	b.opts.Logger.Info(
		"overlay written",
		slog.String("path", path),
		slog.Int("files", len(files)),
		slog.Int("replaced", len(replace)),
	)
	return &Result{
		Path:    path,
		Replace: replace,
		Files:   len(files),
	}, nil
}

// listFiles loads packages and returns their Go files.
func (b *Builder) listFiles(ctx context.Context, patterns []string) ([]string, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedModule,
		Dir:     b.opts.Dir,
		Tests:   b.opts.Tests,
		Env:     append(os.Environ(), "GOWORK=off"),
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	var errs []string
	seen := map[string]bool{}
	modules := map[string]bool{}
	var files []string
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e.Error())
		}

		if mod := pkg.Module; mod != nil && !modules[mod.Path] {
			modules[mod.Path] = true
			b.checkModule(mod)
		}

		for _, file := range pkg.GoFiles {
			if seen[file] {
				continue
			}
			seen[file] = true
			files = append(files, file)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("load packages:\n%s", strings.Join(errs, "\n"))
	}

	sort.Strings(files)
	return files, nil
}

func (b *Builder) checkModule(mod *packages.Module) {
	if b.opts.MinGo == "" || mod.GoVersion == "" {
		return
	}

	ok, err := goVersionAtLeast(mod.GoVersion, b.opts.MinGo)
	if err != nil {
		b.opts.Logger.Warn("cannot check go version", slog.String("module", mod.Path), slog.Any("err", err))
		return
	}
	if !ok {
		b.opts.Logger.Warn(
			"module go version is lower than the runtime needs",
			slog.String("module", mod.Path),
			slog.String("go", mod.GoVersion),
			slog.String("min_go", b.opts.MinGo),
		)
	}
}

// expandFiles expands files concurrently and writes shadows of changed ones.
func (b *Builder) expandFiles(ctx context.Context, files []string) (map[string]string, error) {
	var (
		mu      sync.Mutex
		replace = map[string]string{}
		usage   []error
	)

	g, ctx := errgroup.WithContext(ctx)
	if b.opts.Workers > 0 {
		g.SetLimit(b.opts.Workers)
	}

	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			shadow, err := b.expandFile(file)
			if errors.Is(err, expand.ErrUsage) {
				mu.Lock()
				usage = append(usage, err)
				mu.Unlock()
				return nil
			}
			if err != nil {
				return err
			}
			if shadow == "" {
				return nil
			}

			mu.Lock()
			replace[file] = shadow
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(usage) > 0 {
		return nil, errors.Join(usage...)
	}

	return replace, nil
}

// expandFile returns the shadow path of the file. It is empty for files left as is.
func (b *Builder) expandFile(file string) (string, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}

	out, changed, err := b.opts.Expander.Source(file, src)
	if err != nil {
		return "", err
	}
	if !changed {
		return "", nil
	}

	shadow := filepath.Join(b.opts.CacheDir, shadowName(file, out))
	if _, err := os.Stat(shadow); err == nil {
		return shadow, nil
	}

	if err := writeAtomic(shadow, out); err != nil {
		return "", fmt.Errorf("write shadow of %s: %w", file, err)
	}

	b.opts.Logger.Debug("shadow written", slog.String("file", file), slog.String("shadow", shadow))
	return shadow, nil
}

// shadowName is <base>_<hash>.go, the hash prefix is taken from the content.
func shadowName(file string, content []byte) string {
	sum := sha256.Sum256(content)
	base := strings.TrimSuffix(filepath.Base(file), ".go")
	return base + "_" + hex.EncodeToString(sum[:6]) + ".go"
}

// writeOverlay writes an overlay file go build understands.
func writeOverlay(path string, replace map[string]string) error {
	data, err := json.MarshalIndent(struct {
		Replace map[string]string
	}{Replace: replace}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode overlay: %w", err)
	}

	if err := writeAtomic(path, append(data, '\n')); err != nil {
		return fmt.Errorf("write overlay: %w", err)
	}

	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return nil
}

// goVersionAtLeast compares go directive versions. Prerelease suffixes like 1.21rc1 count as their release.
func goVersionAtLeast(version, min string) (bool, error) {
	v, err := semver.NewVersion(goRelease(version))
	if err != nil {
		return false, fmt.Errorf("parse go version %q: %w", version, err)
	}

	c, err := semver.NewConstraint(">= " + goRelease(min))
	if err != nil {
		return false, fmt.Errorf("parse minimal go version %q: %w", min, err)
	}

	return c.Check(v), nil
}

func goRelease(version string) string {
	version = strings.TrimPrefix(version, "go")
	if i := strings.IndexAny(version, "abcdefghijklmnopqrstuvwxyz"); i > 0 {
		version = version[:i]
	}
	return version
}
