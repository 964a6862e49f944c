package packager

import (
	"bytes"
	"regexp"
)

// Redactor scrubs credential material from file contents before they are
// packaged. The returned flag reports whether anything was replaced.
type Redactor interface {
	Redact(input []byte) ([]byte, bool)
}

type redactRule struct {
	pattern     *regexp.Regexp
	replacement []byte
}

type regexRedactor struct {
	rules []redactRule
}

// newRedactor builds the default redactor. Slack search exports can embed
// live credentials in file URLs (url_private carries an xox* token as a query
// parameter) and in webhook references; both are masked with replacements
// that keep the surrounding JSON string valid.
func newRedactor() Redactor {
	return &regexRedactor{
		rules: []redactRule{
			{
				// API and session token families: xoxa-, xoxb-, xoxc-, ...
				pattern:     regexp.MustCompile(`xox[a-z]-[A-Za-z0-9-]+`),
				replacement: []byte("xox-REDACTED"),
			},
			{
				pattern:     regexp.MustCompile(`hooks\.slack\.com/services/[A-Za-z0-9/]+`),
				replacement: []byte("hooks.slack.com/services/REDACTED"),
			},
		},
	}
}

func (r *regexRedactor) Redact(input []byte) ([]byte, bool) {
	out := input
	for _, rule := range r.rules {
		out = rule.pattern.ReplaceAll(out, rule.replacement)
	}
	return out, !bytes.Equal(out, input)
}
