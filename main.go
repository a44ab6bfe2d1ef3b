// repodigest packs the relevant files of a repository into one text
// artifact sized for a language model's context window.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/phobologic/repodigest/internal/config"
	"github.com/phobologic/repodigest/internal/source"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(&app{stdout: stdout, stderr: stderr})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// app carries state shared by every command.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfgFile string
	verbose bool
	quiet   bool

	cfg *config.Config
}

func newRootCmd(a *app) *cobra.Command {
	var showVersion bool
	gen := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "repodigest [flags] [source]",
		Short: "Pack a repository into a single LLM-ready text file",
		Long: `repodigest selects the files of a repository that matter for understanding
it, then renders a directory diagram followed by every selected file.

The source is a local directory (default "."), a .zip archive, or a GitHub
URL such as https://github.com/owner/repo/tree/main/src.

The framework is detected from root marker files (package.json, go.mod,
Cargo.toml, ...) and picks the include and exclude rules. Precision narrows
or widens the selection: core keeps source files without tests, standard adds
manifests, build config and the README, full keeps everything not globally
excluded.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.setupLogging()
			if cmd.Name() == "init" {
				return nil
			}
			return a.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				_, _ = fmt.Fprintf(a.stdout, "repodigest %s\n", version)
				return nil
			}
			return a.generate(cmd, sourceArg(args), gen)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "only log errors and skip the summary")
	cmd.Flags().BoolVarP(&showVersion, "version", "V", false, "show version and exit")
	gen.register(cmd)

	cmd.AddCommand(
		newDetectCmd(a),
		newStatsCmd(a),
		newRefsCmd(a),
		newInitCmd(a),
	)
	return cmd
}

func sourceArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func (a *app) setupLogging() {
	level := slog.LevelInfo
	switch {
	case a.quiet:
		level = slog.LevelError
	case a.verbose:
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level})))
}

func (a *app) loadConfig() error {
	if err := config.LoadDotEnv("."); err != nil {
		slog.Default().Warn("ignoring .env", "component", "cli", "err", err)
	}
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// sourceOptions maps configuration to source options. ref and token
// override the configured values when set.
func (a *app) sourceOptions(ref, token string) source.Options {
	opts := source.Options{
		Ref:         ref,
		Token:       a.cfg.GitHub.Token,
		APIURL:      a.cfg.GitHub.APIURL,
		CacheSize:   a.cfg.GitHub.CacheSize,
		Concurrency: a.cfg.Concurrency,
	}
	if token != "" {
		opts.Token = token
	}
	return opts
}

// openSource opens target. The returned close func is never nil.
func (a *app) openSource(target string, opts source.Options) (source.Source, func(), error) {
	src, err := source.Open(target, opts)
	if err != nil {
		return nil, func() {}, err
	}
	closer := func() {}
	if c, ok := src.(io.Closer); ok {
		closer = func() { _ = c.Close() }
	}
	return src, closer, nil
}
