package packager

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	yaml "gopkg.in/yaml.v2"

	"github.com/casefold/slackpack/pkg/types"
)

// reportSchema is the layout version of the emitted report.
const reportSchema = "v1"

// ReportFormat selects how a PackagingReport is rendered.
type ReportFormat string

const (
	FormatText ReportFormat = "text"
	FormatJSON ReportFormat = "json"
	FormatYAML ReportFormat = "yaml"
)

// ParseReportFormat maps a user-supplied format name to a ReportFormat.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch f := ReportFormat(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, json or yaml)", s)
	}
}

// Ext returns the file extension used when a report of this format is
// persisted next to the archive.
func (f ReportFormat) Ext() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "txt"
	}
}

type reportMeta struct {
	toolVersion string
	inputDir    string
	channel     string
	compression string
	redact      bool
	dryRun      bool
	generatedAt time.Time
}

// reportBuilder accumulates per-file outcomes during a run and produces the
// final PackagingReport. Entries keep their insertion order, which matches
// the archive entry order.
type reportBuilder struct {
	report types.PackagingReport
}

func newReportBuilder(meta reportMeta) *reportBuilder {
	return &reportBuilder{
		report: types.PackagingReport{
			Schema:      reportSchema,
			ToolVersion: meta.toolVersion,
			RunID:       uuid.NewString(),
			GeneratedAt: meta.generatedAt,
			InputDir:    meta.inputDir,
			Channel:     meta.channel,
			Compression: meta.compression,
			Redact:      meta.redact,
			DryRun:      meta.dryRun,
			Included:    []types.IncludedFile{},
			Skipped:     []types.SkippedFile{},
		},
	}
}

func (b *reportBuilder) addIncluded(name, archivePath string, content []byte, records *int, redacted bool) {
	sum := sha256.Sum256(content)
	b.report.Included = append(b.report.Included, types.IncludedFile{
		Name:        name,
		ArchivePath: archivePath,
		Size:        int64(len(content)),
		SHA256:      hex.EncodeToString(sum[:]),
		Records:     records,
		Redacted:    redacted,
	})
	b.report.TotalIncluded++
	if records != nil {
		b.report.TotalRecords += *records
	}
}

func (b *reportBuilder) addSkipped(name, reason string) {
	b.report.Skipped = append(b.report.Skipped, types.SkippedFile{Name: name, Reason: reason})
	b.report.TotalSkipped++
}

func (b *reportBuilder) includedCount() int {
	return b.report.TotalIncluded
}

// finalize computes the aggregate content hash over the included entries and
// stamps the archive location. The returned report is complete.
func (b *reportBuilder) finalize(archivePath string, archiveBytes int64) types.PackagingReport {
	hasher := sha256.New()
	for _, f := range b.report.Included {
		hasher.Write([]byte(f.SHA256))
	}
	b.report.ContentHash = hex.EncodeToString(hasher.Sum(nil))
	b.report.ArchivePath = archivePath
	b.report.ArchiveBytes = archiveBytes
	b.report.TotalDiscovered = b.report.TotalIncluded + b.report.TotalSkipped
	return b.report
}

// RenderReport renders a report in the given format. The result carries no
// trailing newline.
func RenderReport(r types.PackagingReport, format ReportFormat) (string, error) {
	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("render JSON report: %w", err)
		}
		return string(out), nil
	case FormatYAML:
		out, err := yaml.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("render YAML report: %w", err)
		}
		return strings.TrimRight(string(out), "\n"), nil
	case FormatText:
		return renderText(r), nil
	default:
		return "", fmt.Errorf("unknown report format %q", format)
	}
}

// renderText lays out the human-readable report: header, paths, per-file
// lines with record counts, totals, and a closing summary or warning line.
func renderText(r types.PackagingReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Slack Export Packaging Report\n")
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Run ID: %s (slackpack %s)\n\n", r.RunID, r.ToolVersion)

	fmt.Fprintf(&b, "Input Directory: %s\n", r.InputDir)
	if r.DryRun {
		fmt.Fprintf(&b, "Output ZIP: %s (dry run, not written)\n", r.ArchivePath)
	} else {
		fmt.Fprintf(&b, "Output ZIP: %s\n", r.ArchivePath)
	}
	fmt.Fprintf(&b, "Channel Directory: %s\n\n", r.Channel)

	fmt.Fprintf(&b, "JSON Files Discovered: %d\n", r.TotalDiscovered)
	fmt.Fprintf(&b, "Files Included: %d\n", r.TotalIncluded)
	fmt.Fprintf(&b, "Files Skipped: %d\n", r.TotalSkipped)

	if len(r.Included) > 0 {
		fmt.Fprintf(&b, "\nIncluded Files:\n")
		for _, f := range r.Included {
			line := "  " + f.Name
			if f.Records != nil {
				line += fmt.Sprintf(": %d records", *f.Records)
			}
			if f.Redacted {
				line += " [redacted]"
			}
			fmt.Fprintf(&b, "%s\n", line)
		}
	}
	if len(r.Skipped) > 0 {
		fmt.Fprintf(&b, "\nSkipped Files:\n")
		for _, f := range r.Skipped {
			fmt.Fprintf(&b, "  %s: %s\n", f.Name, f.Reason)
		}
	}

	fmt.Fprintf(&b, "\nTotal Records: %d\n", r.TotalRecords)
	if !r.DryRun {
		fmt.Fprintf(&b, "Archive Size: %d bytes\n", r.ArchiveBytes)
	}
	fmt.Fprintf(&b, "Content Hash: %s\n\n", r.ContentHash)

	switch {
	case r.TotalDiscovered == 0:
		fmt.Fprintf(&b, "No JSON files were found in the input directory.")
	case r.TotalSkipped == 0:
		fmt.Fprintf(&b, "All discovered JSON files were packaged.")
	default:
		fmt.Fprintf(&b, "Warning: %d file(s) were skipped; see details above.", r.TotalSkipped)
	}
	return b.String()
}
