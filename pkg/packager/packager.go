package packager

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/casefold/slackpack/pkg/types"
)

// Option configures the packaging process.
type Option func(*config)

type config struct {
	outputPath  string
	channel     string
	compression string
	redact      bool
	allowEmpty  bool
	dryRun      bool
	maxBytes    int64
	timestamp   time.Time
	logger      *zap.Logger
	toolVersion string
}

// WithOutputPath sets the archive destination. When empty, the archive is
// named after the input directory and written to the current directory.
func WithOutputPath(path string) Option {
	return func(c *config) {
		c.outputPath = path
	}
}

// WithChannel overrides the channel directory entries are placed under
// inside the archive.
func WithChannel(name string) Option {
	return func(c *config) {
		c.channel = name
	}
}

// WithCompression selects the ZIP method, "deflate" or "store".
func WithCompression(method string) Option {
	return func(c *config) {
		c.compression = method
	}
}

// WithRedaction enables token and webhook scrubbing on packaged content.
func WithRedaction() Option {
	return func(c *config) {
		c.redact = true
	}
}

// WithAllowEmpty writes an archive even when no file survives validation.
func WithAllowEmpty() Option {
	return func(c *config) {
		c.allowEmpty = true
	}
}

// WithDryRun validates and reports without writing the archive.
func WithDryRun() Option {
	return func(c *config) {
		c.dryRun = true
	}
}

// WithMaxFileSize skips source files larger than maxBytes. Zero means no
// limit.
func WithMaxFileSize(maxBytes int64) Option {
	return func(c *config) {
		c.maxBytes = maxBytes
	}
}

// WithTimestamp pins entry modification times and the report clock to t,
// making the output byte-identical across runs. When unset, entries keep
// their source modification times.
func WithTimestamp(t time.Time) Option {
	return func(c *config) {
		c.timestamp = t
	}
}

// WithLogger sets the logger for progress output. Defaults to a no-op
// logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithToolVersion stamps the report with the running tool's version.
func WithToolVersion(v string) Option {
	return func(c *config) {
		c.toolVersion = v
	}
}

// Build packages the JSON files of inputDir into a ZIP archive and returns
// the result together with its packaging report. Files that fail validation
// are recorded in the report and left out of the archive; the run only fails
// when the input directory is unusable, nothing valid remains, or the
// archive cannot be written.
func Build(ctx context.Context, inputDir string, opts ...Option) (*types.Result, error) {
	// 1. Configure
	cfg := &config{
		channel:     DefaultChannel,
		compression: CompressionDeflate,
		logger:      zap.NewNop(),
		toolVersion: "dev",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.logger

	generatedAt := time.Now().UTC()
	if !cfg.timestamp.IsZero() {
		generatedAt = cfg.timestamp.UTC()
	}

	// 2. Discover candidates
	files, err := Discover(inputDir)
	if err != nil {
		return nil, err
	}
	log.Debug("discovered candidate files",
		zap.String("dir", inputDir),
		zap.Int("count", len(files)))

	// 3. Initialize components
	builder := newReportBuilder(reportMeta{
		toolVersion: cfg.toolVersion,
		inputDir:    inputDir,
		channel:     cfg.channel,
		compression: cfg.compression,
		redact:      cfg.redact,
		dryRun:      cfg.dryRun,
		generatedAt: generatedAt,
	})
	writer := NewArchiveWriter(cfg.channel, cfg.compression)

	var redactor Redactor
	if cfg.redact {
		redactor = newRedactor()
	}

	// 4. Validate and stage each candidate
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("packaging canceled: %w", err)
		}

		if cfg.maxBytes > 0 && f.Size > cfg.maxBytes {
			reason := fmt.Sprintf("exceeds size limit of %s", formatSize(cfg.maxBytes))
			builder.addSkipped(f.Name, reason)
			log.Warn("skipping file",
				zap.String("file", f.Name),
				zap.String("reason", reason))
			continue
		}

		v := Validate(f)
		if !v.OK {
			builder.addSkipped(f.Name, v.Reason)
			log.Warn("skipping file",
				zap.String("file", f.Name),
				zap.String("reason", v.Reason))
			continue
		}

		content := v.Content
		redacted := false
		if redactor != nil {
			content, redacted = redactor.Redact(content)
		}

		entryPath := EntryPath(cfg.channel, f.Name)
		modTime := f.ModTime
		if !cfg.timestamp.IsZero() {
			modTime = cfg.timestamp
		}

		builder.addIncluded(f.Name, entryPath, content, v.Records, redacted)
		writer.AddFile(f.Name, content, modTime)
		log.Debug("staged file",
			zap.String("file", f.Name),
			zap.Int("bytes", len(content)),
			zap.Bool("redacted", redacted))
	}

	// 5. Refuse to package nothing unless asked to
	if builder.includedCount() == 0 {
		if !cfg.allowEmpty {
			if len(files) == 0 {
				return nil, fmt.Errorf("%w: no .json files in %s", ErrEmptyInput, inputDir)
			}
			return nil, fmt.Errorf("%w: all %d candidate files failed validation",
				ErrEmptyInput, len(files))
		}
		log.Warn("nothing survived validation, writing an empty archive",
			zap.String("dir", inputDir))
	}

	outputPath := cfg.outputPath
	if outputPath == "" {
		outputPath = DefaultArchivePath(inputDir)
	}

	// 6. Dry run stops before touching the filesystem
	if cfg.dryRun {
		absPath, err := filepath.Abs(outputPath)
		if err != nil {
			return nil, fmt.Errorf("resolve output path: %w", err)
		}
		report := builder.finalize(absPath, 0)
		log.Info("dry run complete",
			zap.String("archive", absPath),
			zap.Int("files", report.TotalIncluded),
			zap.Int("skipped", report.TotalSkipped))
		return &types.Result{
			ArchivePath: absPath,
			FileCount:   report.TotalIncluded,
			Report:      report,
		}, nil
	}

	// 7. Write the archive
	absPath, size, err := writer.WriteTo(outputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveWrite, err)
	}

	// 8. Finalize the report
	report := builder.finalize(absPath, size)
	log.Info("archive written",
		zap.String("archive", absPath),
		zap.Int("files", report.TotalIncluded),
		zap.Int("skipped", report.TotalSkipped),
		zap.Int64("bytes", size))

	return &types.Result{
		ArchivePath: absPath,
		FileCount:   report.TotalIncluded,
		SizeBytes:   size,
		Report:      report,
	}, nil
}

// formatSize renders a byte count as whole megabytes when it divides evenly,
// raw bytes otherwise.
func formatSize(n int64) string {
	const mb = 1 << 20
	if n >= mb && n%mb == 0 {
		return fmt.Sprintf("%d MB", n/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}
