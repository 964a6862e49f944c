package packager

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/casefold/slackpack/pkg/types"
)

// Verdict is the outcome of validating one candidate file. A failed verdict
// carries the reason recorded in the report; it never aborts the run.
type Verdict struct {
	OK      bool
	Content []byte // raw file bytes, only set when OK
	Records *int   // element count of a top-level JSON array, nil otherwise
	Reason  string // human-readable skip reason, only set when !OK
}

// Validate reads one candidate and checks it is syntactically well-formed
// JSON. The document structure is otherwise unexamined: any valid JSON text
// passes, and the Slack message schema is never interpreted. For documents
// whose top-level value is an array, the element count is captured for the
// report's per-file record lines.
func Validate(file types.SourceFile) Verdict {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return Verdict{Reason: fmt.Sprintf("read failed: %v", err)}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Verdict{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	v := Verdict{OK: true, Content: data}
	if arr, ok := doc.([]any); ok {
		n := len(arr)
		v.Records = &n
	}
	return v
}
