package main

import (
	"github.com/spf13/cobra"

	"github.com/phobologic/repodigest/internal/model"
	"github.com/phobologic/repodigest/internal/report"
	"github.com/phobologic/repodigest/internal/source"
	"github.com/phobologic/repodigest/internal/stats"
	"github.com/phobologic/repodigest/internal/toon"
)

func newDetectCmd(a *app) *cobra.Command {
	var ref, token, format string
	cmd := &cobra.Command{
		Use:   "detect [source]",
		Short: "Show framework scores and the detected framework",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := sourceArg(args)
			src, closeSrc, err := a.openSource(target, a.sourceOptions(ref, token))
			if err != nil {
				return err
			}
			defer closeSrc()

			files, err := src.List(cmd.Context())
			if err != nil {
				return err
			}
			return report.Encode(a.stdout, report.NewDetection(target, files), format)
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "branch, tag or commit for GitHub sources")
	cmd.Flags().StringVar(&token, "token", "", "GitHub token (default $GITHUB_TOKEN)")
	cmd.Flags().StringVar(&format, "format", report.YAML, "yaml, json or toon")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var ref, token, format, method string
	cmd := &cobra.Command{
		Use:   "stats [source]",
		Short: "Report file size statistics and outliers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.cfg.Method()
			if cmd.Flags().Changed("method") {
				var err error
				if m, err = model.ParseOutlierMethod(method); err != nil {
					return err
				}
			}

			target := sourceArg(args)
			src, closeSrc, err := a.openSource(target, a.sourceOptions(ref, token))
			if err != nil {
				return err
			}
			defer closeSrc()

			files, err := src.List(cmd.Context())
			if err != nil {
				return err
			}
			rep := stats.Detect(files, m)
			return report.Encode(a.stdout, report.NewOutliers(target, rep, files), format)
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "branch, tag or commit for GitHub sources")
	cmd.Flags().StringVar(&token, "token", "", "GitHub token (default $GITHUB_TOKEN)")
	cmd.Flags().StringVar(&format, "format", report.YAML, "yaml, json or toon")
	cmd.Flags().StringVar(&method, "method", "", "mean, median or iqr (default from config)")
	return cmd
}

type refList struct {
	Repo     string   `yaml:"repo" json:"repo"`
	Branches []string `yaml:"branches" json:"branches"`
	Tags     []string `yaml:"tags" json:"tags"`
}

func (r refList) MarshalTOON() string {
	var doc toon.Doc
	doc.Field("repo", r.Repo)
	doc.List("branches", r.Branches)
	doc.List("tags", r.Tags)
	return doc.String()
}

func newRefsCmd(a *app) *cobra.Command {
	var token, format string
	cmd := &cobra.Command{
		Use:   "refs <github-url>",
		Short: "List the branches and tags of a GitHub repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gh, err := source.NewGitHub(args[0], a.sourceOptions("", token))
			if err != nil {
				return err
			}
			branches, tags, err := gh.ListRefs(cmd.Context())
			if err != nil {
				return err
			}
			return report.Encode(a.stdout, refList{Repo: gh.Name(), Branches: branches, Tags: tags}, format)
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "GitHub token (default $GITHUB_TOKEN)")
	cmd.Flags().StringVar(&format, "format", report.YAML, "yaml, json or toon")
	return cmd
}
