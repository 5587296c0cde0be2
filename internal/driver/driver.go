// # internal/driver/driver.go
package driver

import (
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/uuid"

	"github.com/hanmindev/blastfurnace-workspaces/internal/config"
	"github.com/hanmindev/blastfurnace-workspaces/internal/errors"
	"github.com/hanmindev/blastfurnace-workspaces/internal/history"
	"github.com/hanmindev/blastfurnace-workspaces/internal/lowering"
	"github.com/hanmindev/blastfurnace-workspaces/internal/name"
	"github.com/hanmindev/blastfurnace-workspaces/internal/output"
	"github.com/hanmindev/blastfurnace-workspaces/internal/parser"
	"github.com/hanmindev/blastfurnace-workspaces/internal/resolver"
	"github.com/hanmindev/blastfurnace-workspaces/internal/typecheck"
	"github.com/hanmindev/blastfurnace-workspaces/internal/watcher"
)

const sourceExt = ".bf"

// Driver runs the whole pipeline: scan, parse, resolve, check, lower, emit.
type Driver struct {
	cfg          *config.Config
	store        *history.Store
	sessionID    string
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
}

// Result summarizes one compile of every source file.
type Result struct {
	Files       int
	Functions   int
	Written     []string
	Diagnostics []*errors.CompileError
	Duration    time.Duration
}

func (r *Result) Failed() bool {
	return len(r.Diagnostics) > 0
}

// New builds a driver. The history store may be nil to disable build records.
func New(cfg *config.Config, store *history.Store) (*Driver, error) {
	d := &Driver{
		cfg:       cfg,
		store:     store,
		sessionID: uuid.NewString(),
	}

	for _, pattern := range cfg.Exclude.Dirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeConfigError, "invalid exclude dir pattern")
		}
		d.excludeDirs = append(d.excludeDirs, g)
	}
	for _, pattern := range cfg.Exclude.Files {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeConfigError, "invalid exclude file pattern")
		}
		d.excludeFiles = append(d.excludeFiles, g)
	}

	return d, nil
}

// CompileOnce compiles every source file under the configured roots and emits
// the datapack. Diagnostics do not abort the build; they accumulate in the
// result and suppress output for the failing file only.
func (d *Driver) CompileOnce(trigger string) (*Result, error) {
	start := time.Now()
	result := &Result{}

	sources, err := d.scanSources()
	if err != nil {
		return nil, err
	}

	writer := output.NewWriter(d.cfg.Output.Dir, d.cfg.Pack.Namespace,
		d.cfg.Pack.Description, d.cfg.Pack.Format)
	if err := writer.WritePackMeta(); err != nil {
		return nil, err
	}

	for _, source := range sources {
		d.compileFile(source, writer, result)
	}

	result.Duration = time.Since(start)

	slog.Info("build finished",
		"session", d.sessionID,
		"trigger", trigger,
		"files", result.Files,
		"functions", result.Functions,
		"errors", len(result.Diagnostics),
		"duration", result.Duration)

	if d.store != nil {
		record := history.Build{
			SessionID:     d.sessionID,
			Timestamp:     start.UTC(),
			FileCount:     result.Files,
			FunctionCount: result.Functions,
			ErrorCount:    len(result.Diagnostics),
			Duration:      result.Duration,
			Trigger:       trigger,
		}
		if err := d.store.SaveBuild(record); err != nil {
			slog.Warn("failed to record build", "error", err)
		}
	}

	return result, nil
}

// Watch compiles once, then recompiles whenever sources change. It blocks
// until the watcher fails or the process exits.
func (d *Driver) Watch() error {
	if _, err := d.CompileOnce("watch"); err != nil {
		return err
	}

	w, err := watcher.NewWatcher(
		d.cfg.Watch.Debounce,
		d.cfg.Watch.RebuildsPerSecond,
		d.cfg.Watch.RebuildBurst,
		d.cfg.Exclude.Dirs,
		d.cfg.Exclude.Files,
		func(paths []string) {
			slog.Info("sources changed", "count", len(paths))
			if _, err := d.CompileOnce("watch"); err != nil {
				slog.Error("rebuild failed", "error", err)
			}
		})
	if err != nil {
		return errors.Wrap(err, errors.CodeIOError, "cannot start watcher")
	}
	defer w.Close()

	if err := w.Watch(d.cfg.SourceRoots); err != nil {
		return errors.Wrap(err, errors.CodeIOError, "cannot watch source roots")
	}

	select {}
}

type sourceFile struct {
	path       string
	modulePath *name.ModulePath
}

func (d *Driver) scanSources() ([]sourceFile, error) {
	var sources []sourceFile
	for _, root := range d.cfg.SourceRoots {
		err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)
			if entry.IsDir() {
				for _, g := range d.excludeDirs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !strings.HasSuffix(base, sourceExt) {
				return nil
			}
			for _, g := range d.excludeFiles {
				if g.Match(base) {
					return nil
				}
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			sources = append(sources, sourceFile{
				path:       path,
				modulePath: modulePathFor(rel),
			})
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeIOError, "cannot scan source root").
				WithContext(errors.CtxFile, root)
		}
	}
	return sources, nil
}

// modulePathFor maps src/a/b.bf (relative to its root) to root::a::b.
func modulePathFor(rel string) *name.ModulePath {
	rel = strings.TrimSuffix(rel, sourceExt)
	segments := []string{"root"}
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		if seg == "." || seg == "" {
			continue
		}
		segments = append(segments, seg)
	}
	return name.NewPath(segments...)
}

func (d *Driver) compileFile(source sourceFile, writer *output.Writer, result *Result) {
	src, err := os.ReadFile(source.path)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics,
			errors.Wrap(err, errors.CodeIOError, "cannot read source file").
				WithContext(errors.CtxFile, source.path))
		return
	}

	result.Files++

	file, err := parser.ParseFile(source.path, string(src))
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, asCompileError(err))
		return
	}

	ids := name.NewIDSource()
	res := resolver.New(source.modulePath, ids)
	resolved, err := res.Run(file)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, asCompileError(err))
		return
	}
	if diags := res.Diagnostics(); len(diags) > 0 {
		result.Diagnostics = append(result.Diagnostics, diags...)
		return
	}

	checker := typecheck.New(resolved)
	if err := checker.Run(file); err != nil {
		result.Diagnostics = append(result.Diagnostics, asCompileError(err))
		return
	}
	if diags := checker.Diagnostics(); len(diags) > 0 {
		result.Diagnostics = append(result.Diagnostics, diags...)
		return
	}

	lowerer := lowering.New(d.cfg.Pack.Namespace, source.modulePath, resolved)
	compiled, err := lowerer.Run(file)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, asCompileError(err))
		return
	}

	result.Functions += len(compiled.Functions)

	written, err := writer.WriteFile(compiled)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, asCompileError(err))
		return
	}
	result.Written = append(result.Written, written...)

	slog.Debug("compiled file",
		"path", source.path,
		"module", source.modulePath.String(),
		"functions", len(compiled.Functions))
}

func asCompileError(err error) *errors.CompileError {
	var ce *errors.CompileError
	if stderrors.As(err, &ce) {
		return ce
	}
	return errors.Wrap(err, errors.CodeInternal, err.Error())
}
