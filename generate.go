package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/phobologic/repodigest/internal/filter"
	"github.com/phobologic/repodigest/internal/model"
	"github.com/phobologic/repodigest/internal/render"
	"github.com/phobologic/repodigest/internal/sink"
	"github.com/phobologic/repodigest/internal/source"
	"github.com/phobologic/repodigest/internal/strip"
	"github.com/phobologic/repodigest/internal/watch"
)

const watchDebounce = 300 * time.Millisecond

type generateOptions struct {
	precision       string
	framework       string
	excludeOutliers bool
	method          string
	stripComments   bool
	output          string
	list            bool
	ref             string
	token           string
	watch           bool
	maxFileSize     int64
}

func (o *generateOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.precision, "precision", "p", "", "core, standard or full (default from config, standard)")
	f.StringVarP(&o.framework, "framework", "f", "", "force a framework instead of detecting it ("+frameworkList()+")")
	f.BoolVar(&o.excludeOutliers, "exclude-outliers", false, "drop files whose size is far above the rest")
	f.StringVar(&o.method, "outlier-method", "", "mean, median or iqr (default from config, median)")
	f.BoolVar(&o.stripComments, "strip-comments", false, "remove comments from supported source files")
	f.StringVarP(&o.output, "output", "o", "", `write to a file, "auto" for a generated name, or s3://bucket/key (default stdout)`)
	f.BoolVar(&o.list, "list", false, "print the selected paths instead of the artifact")
	f.StringVar(&o.ref, "ref", "", "branch, tag or commit for GitHub sources")
	f.StringVar(&o.token, "token", "", "GitHub token (default $GITHUB_TOKEN)")
	f.BoolVar(&o.watch, "watch", false, "regenerate when a local directory changes")
	f.Int64Var(&o.maxFileSize, "max-file-size", 0, "skip selected files larger than this many bytes (0 disables)")
}

func frameworkList() string {
	s := ""
	for i, id := range model.Frameworks {
		if i > 0 {
			s += ", "
		}
		s += string(id)
	}
	return s
}

// settings is the resolved selection configuration: flags over config.
type settings struct {
	precision model.Precision
	override  model.FrameworkID
	outliers  bool
	method    model.OutlierMethod
	strip     bool
}

func (a *app) resolve(cmd *cobra.Command, o *generateOptions) (settings, error) {
	s := settings{
		precision: a.cfg.PrecisionValue(),
		outliers:  a.cfg.ExcludeOutliers,
		method:    a.cfg.Method(),
		strip:     a.cfg.StripComments,
	}
	f := cmd.Flags()
	if f.Changed("precision") {
		p, err := model.ParsePrecision(o.precision)
		if err != nil {
			return s, err
		}
		s.precision = p
	}
	if f.Changed("framework") {
		id, err := model.ParseFramework(o.framework)
		if err != nil {
			return s, err
		}
		s.override = id
	}
	if f.Changed("outlier-method") {
		m, err := model.ParseOutlierMethod(o.method)
		if err != nil {
			return s, err
		}
		s.method = m
	}
	if f.Changed("exclude-outliers") {
		s.outliers = o.excludeOutliers
	}
	if f.Changed("strip-comments") {
		s.strip = o.stripComments
	}
	return s, nil
}

// session loads a listing and applies the settings in controller order.
func (s settings) session(files []model.FileRecord) filter.Session {
	sess := filter.NewSession().Apply(filter.Loaded{Files: files})
	if s.override != "" {
		sess = sess.Apply(filter.OverrideFramework{ID: s.override})
	}
	sess = sess.Apply(filter.SetPrecision{Precision: s.precision})
	return sess.Apply(filter.SetOutliers{Enabled: s.outliers, Method: s.method})
}

func (a *app) generate(cmd *cobra.Command, target string, o *generateOptions) error {
	s, err := a.resolve(cmd, o)
	if err != nil {
		return err
	}

	src, closeSrc, err := a.openSource(target, a.sourceOptions(o.ref, o.token))
	if err != nil {
		return err
	}
	defer closeSrc()

	ctx := cmd.Context()
	where, err := a.generateOnce(ctx, target, src, s, o)
	if err != nil {
		return err
	}
	if !o.watch {
		return nil
	}

	local, ok := src.(*source.Local)
	if !ok {
		return errors.New("--watch needs a local directory source")
	}
	if o.output == "" || o.output == "-" {
		slog.Default().Warn("watching with stdout output appends a new artifact per change", "component", "cli")
	}
	w, err := watch.New(local.Root())
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()
	skipOutput(w, where)

	slog.Default().Info("watching for changes", "component", "cli", "root", local.Root())
	return w.Run(ctx, watchDebounce, func(paths []string) error {
		slog.Default().Debug("regenerating", "component", "cli", "changed", paths)
		where, err := a.generateOnce(ctx, target, src, s, o)
		skipOutput(w, where)
		return err
	})
}

// skipOutput keeps the watcher from reacting to the artifact it just wrote.
func skipOutput(w *watch.Watcher, where string) {
	if where == "" || where == "stdout" || strings.HasPrefix(where, "s3://") {
		return
	}
	w.Skip(where)
}

// generateOnce renders one artifact and returns where it was written, or ""
// when only the selection was listed.
func (a *app) generateOnce(ctx context.Context, target string, src source.Source, s settings, o *generateOptions) (string, error) {
	log := slog.Default().With("component", "cli")

	files, err := src.List(ctx)
	if err != nil {
		return "", err
	}
	sess := s.session(files)
	sel := sess.Selection()
	selected := dropOversized(sess.Selected(), o.maxFileSize)

	log.Debug("selected",
		"framework", sess.Framework(),
		"precision", sess.Precision,
		"listed", len(files),
		"selected", len(selected))

	if o.list {
		paths := make([]string, len(selected))
		for i, f := range selected {
			paths[i] = f.Path
		}
		render.SortPaths(paths)
		for _, p := range paths {
			_, _ = fmt.Fprintln(a.stdout, p)
		}
		return "", nil
	}

	contents, err := src.Fetch(ctx, selected)
	if err != nil {
		return "", err
	}
	if s.strip {
		contents = strip.All(contents, a.cfg.Concurrency)
	}
	art := render.Render(contents)

	dest := o.output
	if dest == "auto" {
		dest = sink.SmartFilename(target, "txt", time.Now())
	}
	where, err := sink.Write(ctx, dest, art.Text, sink.Options{Stdout: a.stdout, S3: a.cfg.S3})
	if err != nil {
		return "", err
	}
	sess = sess.Apply(filter.Generated{})
	log.Debug("rendered", "phase", sess.Phase)

	if !a.quiet {
		writeSummary(a.stderr, summary{
			Framework: sess.Framework(),
			Precision: sess.Precision,
			Files:     len(art.Files),
			Outliers:  sel.Dropped,
			Bytes:     len(art.Text),
			Tokens:    art.Tokens,
			Dest:      where,
		})
	}
	return where, nil
}

// dropOversized removes files above limit bytes. Files of unknown size are
// kept.
func dropOversized(files []model.FileRecord, limit int64) []model.FileRecord {
	if limit <= 0 {
		return files
	}
	kept := make([]model.FileRecord, 0, len(files))
	for _, f := range files {
		if f.SizeKnown && f.Size > limit {
			slog.Default().Warn("skipped large file", "component", "cli", "path", f.Path, "size", f.Size, "limit", limit)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}
