package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/rollctx/rollctx/backup"
	"github.com/rollctx/rollctx/config"
	"github.com/rollctx/rollctx/project"
	"github.com/rollctx/rollctx/summary"
	"github.com/rollctx/rollctx/trim"
)

// trimCmd represents the trim command
var trimCmd = &cobra.Command{
	Use:   "trim",
	Short: "Trim a project's transcript",
	Long: `Trim the oldest records from a project's live transcript.

The cut point is adjusted so no tool-invocation/tool-result pair is
split and a configured number of recent records always survives. The
removed portion is replaced with a single generated summary record, and
the original file is snapshotted before any change. Use --dry-run to see
the plan without touching the file.`,
	RunE: runTrim,
}

// trimFlags holds the flags for the trim command
type trimFlags struct {
	project      string
	all          bool
	dryRun       bool
	file         string
	maxMessages  int
	trimFraction float64
	noSummary    bool
}

var trimOpts trimFlags

func init() {
	rootCmd.AddCommand(trimCmd)

	trimCmd.Flags().StringVarP(&trimOpts.project, "project", "p", "", "Project to process (must be defined in config)")
	trimCmd.Flags().BoolVarP(&trimOpts.all, "all", "a", false, "Process all projects from config")
	trimCmd.Flags().BoolVarP(&trimOpts.dryRun, "dry-run", "n", false, "Show what would happen without making changes")
	trimCmd.Flags().StringVar(&trimOpts.file, "file", "", "Specific transcript file to process (overrides auto-detection)")
	trimCmd.Flags().IntVarP(&trimOpts.maxMessages, "max-messages", "m", 0, "Trim when exceeding this count (overrides config)")
	trimCmd.Flags().Float64VarP(&trimOpts.trimFraction, "trim-fraction", "f", 0, "Trim this fraction of records instead of trimming to the threshold")
	trimCmd.Flags().BoolVar(&trimOpts.noSummary, "no-summary", false, "Skip remote summary generation")
}

func runTrim(cmd *cobra.Command, args []string) error {
	if !trimOpts.all && trimOpts.project == "" && trimOpts.file == "" {
		return errors.New("specify --project, --all, or --file")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyTrimOverrides(cfg)

	logger := newLogger()

	summariesEnabled := cfg.SummariesEnabled() && !trimOpts.noSummary
	var provider summary.Provider
	if summariesEnabled {
		var clientOpts []option.RequestOption
		if cfg.Summary.APIKey != "" {
			clientOpts = append(clientOpts, option.WithAPIKey(cfg.Summary.APIKey))
		}
		client := anthropic.NewClient(clientOpts...)
		provider = summary.NewAnthropicProvider(&client, summary.RemoteOptions{
			Model:          cfg.Summary.Model,
			MaxTokens:      cfg.Summary.MaxTokens,
			Timeout:        cfg.Summary.Timeout,
			PromptTemplate: cfg.Summary.Prompt,
		})
	}

	engine := trim.NewEngine(provider, backup.NewManager(cfg.BackupKeep), logger)

	targets, err := trimTargets(cfg)
	if err != nil {
		return err
	}

	var failed bool
	for _, target := range targets {
		opts := engineOptions(cfg, target.name, summariesEnabled)
		result, err := engine.Trim(cmd.Context(), target.path, opts)
		if err != nil {
			failed = true
			logger.Error("trim failed", "project", target.name, "path", target.path, "error", err)
			continue
		}
		printResult(target.name, result)
	}
	if failed {
		return errors.New("one or more trims failed")
	}
	return nil
}

// trimTarget is one transcript file to process.
type trimTarget struct {
	name string
	path string
}

// trimTargets resolves the transcripts named by the flags.
func trimTargets(cfg *config.Config) ([]trimTarget, error) {
	if trimOpts.file != "" && !trimOpts.all {
		name := trimOpts.project
		if name == "" {
			name = filepath.Base(trimOpts.file)
		}
		return []trimTarget{{name: name, path: trimOpts.file}}, nil
	}

	var names []string
	if trimOpts.all {
		for name := range cfg.Projects {
			names = append(names, name)
		}
	} else {
		names = []string{trimOpts.project}
	}

	var targets []trimTarget
	for _, name := range names {
		dir, err := project.Dir(cfg, name)
		if err != nil {
			return nil, err
		}
		path, err := project.FindTranscript(dir)
		if err != nil {
			return nil, err
		}
		targets = append(targets, trimTarget{name: name, path: path})
	}
	return targets, nil
}

// applyTrimOverrides applies command-line overrides onto the loaded config.
func applyTrimOverrides(cfg *config.Config) {
	if trimOpts.maxMessages > 0 {
		cfg.MaxMessages = trimOpts.maxMessages
	}
	if trimOpts.trimFraction > 0 {
		cfg.TrimFraction = trimOpts.trimFraction
	}
}

// engineOptions maps the resolved config onto one engine invocation.
// Passing --trim-fraction selects the fraction policy; otherwise the
// threshold policy applies.
func engineOptions(cfg *config.Config, projectName string, summariesEnabled bool) trim.Options {
	opts := trim.Options{
		ProjectName:      projectName,
		Policy:           trim.PolicyThreshold,
		MaxMessages:      cfg.MaxMessages,
		MinRetention:     cfg.MinRetention,
		SummariesEnabled: summariesEnabled,
		DryRun:           trimOpts.dryRun,
		LockTimeout:      cfg.LockTimeout,
	}
	if trimOpts.trimFraction > 0 {
		opts.Policy = trim.PolicyFraction
		opts.TrimFraction = cfg.TrimFraction
	}
	return opts
}

func printResult(name string, result *trim.Result) {
	plan := result.Plan
	switch {
	case plan.NoOp:
		fmt.Printf("%s: %d records, under threshold, nothing to trim\n", name, plan.Loaded)
	case result.State == trim.StateSpliced:
		fmt.Printf("%s: would trim %d of %d records (%s to %s), %d would remain\n",
			name, plan.Removed, plan.Loaded, plan.RemovedFrom, plan.RemovedTo, plan.FinalCount)
	default:
		fmt.Printf("%s: trimmed %d of %d records (%s to %s), %d written, backup %s\n",
			name, plan.Removed, plan.Loaded, plan.RemovedFrom, plan.RemovedTo, plan.FinalCount, result.BackupPath)
		if result.SummaryDegraded {
			fmt.Printf("%s: remote summary unavailable, used offline summary\n", name)
		}
	}
}
