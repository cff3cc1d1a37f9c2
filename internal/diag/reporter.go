package diag

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"sort"
	"sync"
)

// Reporter collects diagnostics discovered during the generation. It is safe for concurrent use.
type Reporter struct {
	mu      sync.Mutex
	reports []Report
}

// Report represents a single diagnostic entry.
type Report struct {
	Phase   ReportPhase
	Code    Code
	Pos     token.Position
	Message string
}

func (r Report) Error() string {
	return fmt.Sprintf("%s: %s: %s", r.Pos, r.Code, r.Message)
}

// ReportPhase marks the stage where a report was generated.
type ReportPhase int

const (
	reportPhaseInvalid ReportPhase = iota
	PhaseArgs                      // argument interpretation
	PhaseShape                     // entry shape dispatch
	PhaseRewrite                   // body rewrite
	PhaseExpand                    // directive and marker collection
	PhaseLint                      // static checks of the source
)

func (p ReportPhase) String() string {
	switch p {
	case PhaseArgs:
		return "args"
	case PhaseShape:
		return "shape"
	case PhaseRewrite:
		return "rewrite"
	case PhaseExpand:
		return "expand"
	case PhaseLint:
		return "lint"
	default:
		return fmt.Sprintf("unknown-phase(%d)", p)
	}
}

// ReporterPhase binds a Reporter to a fixed phase.
type ReporterPhase struct {
	parent *Reporter
	phase  ReportPhase
}

// Phase returns a pointer to a phase-bound reporter that automatically
// sets the given phase for all reports produced through it.
func (r *Reporter) Phase(p ReportPhase) *ReporterPhase {
	return &ReporterPhase{parent: r, phase: p}
}

// Report adds a new record to the reporter.
func (r *Reporter) Report(rep Report) {
	r.mu.Lock()
	r.reports = append(r.reports, rep)
	r.mu.Unlock()
}

// Report records a new diagnostic under the bound phase. An empty message means the code description.
func (rp *ReporterPhase) Report(code Code, message string, pos token.Position) {
	if message == "" {
		message = code.Description()
	}

	rp.parent.Report(Report{
		Phase:   rp.phase,
		Code:    code,
		Message: message,
		Pos:     pos,
	})
}

// Reports returns a snapshot of all collected records.
func (r *Reporter) Reports() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	return out
}

// HasErrors checks if any error severity diagnostic was reported.
func (r *Reporter) HasErrors() bool {
	for _, rep := range r.Reports() {
		if rep.Code.Severity() == SeverityError {
			return true
		}
	}

	return false
}

// Err joins all error severity diagnostics. It is nil when there are none.
func (r *Reporter) Err() error {
	var errs []error
	for _, rep := range r.Reports() {
		if rep.Code.Severity() == SeverityError {
			errs = append(errs, rep)
		}
	}

	return errors.Join(errs...)
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

// PrintSummary prints all collected reports ordered by position in a compact, human-readable form.
func (r *Reporter) PrintSummary(w io.Writer, color bool) {
	reps := r.Reports()
	sort.SliceStable(reps, func(i, j int) bool {
		a, b := reps[i].Pos, reps[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})

	for _, rep := range reps {
		code := rep.Code.String()
		pos := rep.Pos.String()
		if color {
			c := colorRed
			if rep.Code.Severity() == SeverityWarning {
				c = colorYellow
			}
			code = c + code + colorReset
			pos = colorDim + pos + colorReset
		}

		fmt.Fprintf(w, "[%s] %s: %s (%s)\n", rep.Phase, code, rep.Message, pos)
	}
}

// Error is a usage error found at the given position.
type Error struct {
	Code Code
	Pos  token.Pos
	Msg  string
}

// Errorf creates a usage error. An empty format means the code description.
func Errorf(code Code, pos token.Pos, format string, a ...any) *Error {
	msg := code.Description()
	if format != "" {
		msg = fmt.Sprintf(format, a...)
	}

	return &Error{Code: code, Pos: pos, Msg: msg}
}

func (e *Error) Error() string {
	return e.Code.String() + ": " + e.Msg
}
