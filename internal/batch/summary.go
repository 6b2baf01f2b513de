package batch

import "time"

// FailureReason classifies why a single file could not be transformed.
type FailureReason string

const (
	// ReasonFileNotFound: the file vanished between discovery and processing.
	ReasonFileNotFound FailureReason = "file_not_found"
	// ReasonExternalTool: the encoder exited non-zero or produced no output.
	ReasonExternalTool FailureReason = "external_tool_error"
	// ReasonIO: the backup or replace step failed.
	ReasonIO FailureReason = "io_error"
)

// Result is the outcome for one file. Path is relative to the run root.
type Result struct {
	Path   string
	Reason FailureReason
	Err    error
}

// Succeeded reports whether the file was transformed.
func (r Result) Succeeded() bool {
	return r.Reason == ""
}

// Summary aggregates one run. No failure here is fatal to the batch; the
// caller decides how to render it.
type Summary struct {
	Root       string
	Recursive  bool
	DryRun     bool
	Found      int
	Succeeded  int
	Failed     int
	Results    []Result
	StartedAt  time.Time
	FinishedAt time.Time
}

func (s *Summary) record(result Result) {
	s.Results = append(s.Results, result)
	if result.Succeeded() {
		s.Succeeded++
	} else {
		s.Failed++
	}
}
