package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/casefold/slackpack/internal/config"
	"github.com/casefold/slackpack/internal/logger"
	"github.com/casefold/slackpack/pkg/packager"
)

// version is stamped at release time via -ldflags.
var version = "0.4.1"

// Exit codes reported to the shell.
const (
	ExitOK            = 0
	ExitFailure       = 1 // usage or unexpected error
	ExitInputNotFound = 2 // input directory missing or not a directory
	ExitEmptyInput    = 3 // nothing valid to package
	ExitWriteFailure  = 4 // archive or report could not be written
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "slackpack: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a run failure to its shell exit code.
func exitCode(err error) int {
	switch {
	case errors.Is(err, packager.ErrInputNotFound):
		return ExitInputNotFound
	case errors.Is(err, packager.ErrEmptyInput):
		return ExitEmptyInput
	case errors.Is(err, packager.ErrArchiveWrite):
		return ExitWriteFailure
	default:
		return ExitFailure
	}
}

type options struct {
	allowEmpty bool
	channel    string
	dryRun     bool
	format     string
	noReport   bool
	redact     bool
	reportFile string
	verbose    bool
}

func newRootCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "slackpack INPUT_DIR [OUTPUT_ZIP]",
		Short: "Package loose Slack export JSON files for RelativityOne import",
		Long: `slackpack collects the *.json files of a Slack export directory, checks each
one is well-formed JSON, and packages the valid ones into a ZIP archive laid
out for RelativityOne's Slack-to-RSMF importer (entries under a single channel
directory, search_results by default).

The packaging report listing every included and skipped file goes to stdout;
diagnostics go to stderr. Without OUTPUT_ZIP the archive is written to
./<input-dir-name>.zip.`,
		Args:         cobra.RangeArgs(1, 2),
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, &opts)
		},
	}

	fl := cmd.Flags()
	fl.BoolVar(&opts.allowEmpty, "allow-empty", false, "write an empty archive instead of failing when nothing validates")
	fl.StringVar(&opts.channel, "channel", "", "channel directory inside the archive (default from config)")
	fl.BoolVar(&opts.dryRun, "dry-run", false, "validate and report without writing the archive")
	fl.StringVar(&opts.format, "format", "", "report format: text, json or yaml (default from config)")
	fl.BoolVar(&opts.noReport, "no-report", false, "do not persist the report file next to the archive")
	fl.BoolVar(&opts.redact, "redact", false, "scrub Slack tokens and webhook URLs from packaged files")
	fl.StringVar(&opts.reportFile, "report-file", "", "explicit path for the persisted report")
	fl.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flags override file and environment configuration.
	if cmd.Flags().Changed("channel") {
		cfg.Packaging.Channel = opts.channel
	}
	if cmd.Flags().Changed("format") {
		cfg.Report.Format = opts.format
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, err := packager.ParseReportFormat(cfg.Report.Format)
	if err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	buildOpts := []packager.Option{
		packager.WithChannel(cfg.Packaging.Channel),
		packager.WithCompression(cfg.Packaging.Compression),
		packager.WithLogger(log),
		packager.WithToolVersion(version),
	}
	if len(args) == 2 {
		buildOpts = append(buildOpts, packager.WithOutputPath(args[1]))
	}
	if cfg.Limits.MaxFileSizeMB > 0 {
		buildOpts = append(buildOpts, packager.WithMaxFileSize(cfg.Limits.MaxFileSizeBytes()))
	}
	if opts.redact {
		buildOpts = append(buildOpts, packager.WithRedaction())
	}
	if opts.allowEmpty {
		buildOpts = append(buildOpts, packager.WithAllowEmpty())
	}
	if opts.dryRun {
		buildOpts = append(buildOpts, packager.WithDryRun())
	}

	start := time.Now()
	result, err := packager.Build(cmd.Context(), args[0], buildOpts...)
	if err != nil {
		return err
	}

	rendered, err := packager.RenderReport(result.Report, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), rendered)

	if !opts.noReport && !opts.dryRun {
		reportPath := opts.reportFile
		if reportPath == "" {
			reportPath = packager.ReportPath(result.ArchivePath, format)
		}
		if err := os.WriteFile(reportPath, []byte(rendered+"\n"), 0o644); err != nil {
			return fmt.Errorf("%w: persist report: %v", packager.ErrArchiveWrite, err)
		}
		log.Debug("report persisted", zap.String("path", reportPath))
	}

	log.Info("packaging finished",
		zap.String("archive", result.ArchivePath),
		zap.Int("files", result.FileCount),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
