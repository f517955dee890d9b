package lang

import "fmt"

// Scan stages referenced by diagnostics.
const (
	StageGrammar = "grammar"
	StageParse   = "parse"
	StageExtract = "extract"
)

// Diagnostic records a non-fatal per-file failure during a scan. Scans keep
// going past broken files; the caller decides whether diagnostics are worth
// surfacing.
type Diagnostic struct {
	File  string `json:"file"`
	Stage string `json:"stage"`
	Err   string `json:"error"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.File, d.Stage, d.Err)
}
