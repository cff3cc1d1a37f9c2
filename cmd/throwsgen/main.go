// Command throwsgen expands throws directives and markers.
//
// Usage:
//
//	throwsgen [flags] [path ...]
//
// Without flags rewritten files are printed to stdout, standard input is read when no path is given. Directories
// are walked recursively. With -overlay the arguments are package patterns and the path of the written overlay file
// is printed:
//
//	go build -overlay $(throwsgen -overlay ./...) ./...
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/sirkon/throws/internal/config"
	"github.com/sirkon/throws/internal/diag"
	"github.com/sirkon/throws/internal/expand"
	"github.com/sirkon/throws/internal/overlay"
	"github.com/sirkon/throws/internal/watch"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type flags struct {
	write   bool
	list    bool
	overlay bool
	watch   bool
	tests   bool
	config  string
	verbose bool
}

// run returns the exit code: 1 for usage errors in sources and failures, 2 for invalid command lines.
func run(argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fl := flag.NewFlagSet("throwsgen", flag.ContinueOnError)
	fl.SetOutput(stderr)

	var f flags
	fl.BoolVar(&f.write, "w", false, "write result to the source file instead of stdout")
	fl.BoolVar(&f.list, "l", false, "list files whose expansion differs from the source")
	fl.BoolVar(&f.overlay, "overlay", false, "expand packages matching the patterns and write a go build overlay")
	fl.BoolVar(&f.watch, "watch", false, "rebuild the overlay when sources change")
	fl.BoolVar(&f.tests, "tests", false, "include test files into the overlay")
	fl.StringVar(&f.config, "config", "", "config file, throws.yaml is looked up from the working directory by default")
	fl.BoolVar(&f.verbose, "v", false, "verbose logging")
	fl.Usage = func() {
		fmt.Fprintln(stderr, "usage: throwsgen [flags] [path ...]")
		fl.PrintDefaults()
	}

	if err := fl.Parse(argv); err != nil {
		return 2
	}
	if err := f.validate(fl.NArg()); err != nil {
		fmt.Fprintln(stderr, "throwsgen:", err)
		fl.Usage()
		return 2
	}

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(f.config)
	if err != nil {
		logger.Error("load config", slog.Any("err", err))
		return 1
	}

	a := &app{
		flags:  f,
		cfg:    cfg,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: logger,
		color:  colored(stderr),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch {
	case f.overlay:
		err = a.overlay(ctx, fl.Args())
	case fl.NArg() == 0:
		err = a.standardInput()
	default:
		err = a.paths(fl.Args())
	}

	if err != nil {
		if !errors.Is(err, expand.ErrUsage) {
			logger.Error("throwsgen failed", slog.Any("err", err))
		}
		return 1
	}

	return 0
}

func (f flags) validate(nargs int) error {
	switch {
	case f.write && f.list:
		return errors.New("-w and -l cannot be used together")
	case f.overlay && (f.write || f.list):
		return errors.New("-overlay cannot be used with -w or -l")
	case f.watch && !f.overlay:
		return errors.New("-watch needs -overlay")
	case f.tests && !f.overlay:
		return errors.New("-tests needs -overlay")
	case nargs == 0 && f.write:
		return errors.New("cannot use -w with standard input")
	}

	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfig(path)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	cfg, _, err := config.Load(wd)
	return cfg, err
}

func colored(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type app struct {
	flags flags
	cfg   *config.Config

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
	color  bool
}

// expander creates an expander reporting into rep.
func (a *app) expander(rep *diag.Reporter) *expand.Expander {
	return expand.New(expand.Options{
		Runtime:   a.cfg.Runtime,
		Directive: a.cfg.Directive,
		Abandon:   a.cfg.AbandonFuncs(),
		Reporter:  rep,
		Logger:    a.logger,
	})
}

func (a *app) overlay(ctx context.Context, patterns []string) error {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	build := func(ctx context.Context) error {
		rep := &diag.Reporter{}
		defer rep.PrintSummary(a.stderr, a.color)

		b := overlay.New(overlay.Options{
			Expander: a.expander(rep),
			CacheDir: a.cfg.CacheDir,
			Workers:  a.cfg.Workers,
			MinGo:    a.cfg.MinGo,
			Tests:    a.flags.tests,
			Logger:   a.logger,
		})

		res, err := b.Build(ctx, patterns...)
		if err != nil {
			return err
		}

		fmt.Fprintln(a.stdout, res.Path)
		return nil
	}

	if !a.flags.watch {
		return build(ctx)
	}

	return watch.Run(ctx, watch.Options{
		Dirs:   []string{"."},
		Skip:   []string{a.cfg.CacheDir},
		Logger: a.logger,
	}, build)
}

func (a *app) standardInput() error {
	src, err := io.ReadAll(a.stdin)
	if err != nil {
		return fmt.Errorf("read standard input: %w", err)
	}

	rep := &diag.Reporter{}
	defer rep.PrintSummary(a.stderr, a.color)

	out, changed, err := a.expander(rep).Source("<standard input>", src)
	if err != nil {
		return err
	}

	if a.flags.list {
		if changed {
			fmt.Fprintln(a.stdout, "<standard input>")
		}
		return nil
	}

	_, err = a.stdout.Write(out)
	return err
}

// paths expands files and Go files of directories. Errors of every file are collected.
func (a *app) paths(paths []string) error {
	rep := &diag.Reporter{}
	defer rep.PrintSummary(a.stderr, a.color)
	x := a.expander(rep)

	var errs []error
	for _, path := range paths {
		files, err := goFiles(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		for _, file := range files {
			if err := a.file(x, file); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

func (a *app) file(x *expand.Expander, file string) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	out, changed, err := x.Source(file, src)
	if err != nil {
		return err
	}

	switch {
	case a.flags.list:
		if changed {
			fmt.Fprintln(a.stdout, file)
		}
		return nil

	case a.flags.write:
		if !changed || bytes.Equal(src, out) {
			return nil
		}

		info, err := os.Stat(file)
		if err != nil {
			return fmt.Errorf("stat source: %w", err)
		}
		if err := os.WriteFile(file, out, info.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", file, err)
		}
		a.logger.Debug("rewritten", slog.String("file", file))
		return nil

	default:
		_, err := a.stdout.Write(out)
		return err
	}
}

// goFiles returns the path itself for files and Go files found under directories.
func goFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var res []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if p != path && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata" || name == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(name, ".go") && !strings.HasPrefix(name, ".") {
			res = append(res, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}

	return res, nil
}
