package rename

import "fmt"

// Status is the result of one attempted rename.
type Status uint8

const (
	// StatusRenamed means the file was moved.
	StatusRenamed Status = iota
	// StatusSkipped means the rename was not attempted; Err says why.
	StatusSkipped
	// StatusFailed means the filesystem refused the rename; Err is the cause.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRenamed:
		return "renamed"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Outcome records what happened to one file. From and To are names relative
// to the engine's directory.
type Outcome struct {
	From   string
	To     string
	Status Status
	Err    error
}

func (o Outcome) String() string {
	if o.Err == nil {
		return fmt.Sprintf("%s: %s -> %s", o.Status, o.From, o.To)
	}

	return fmt.Sprintf("%s: %s -> %s: %v", o.Status, o.From, o.To, o.Err)
}

// Report collects the outcomes of one operation in processing order.
type Report struct {
	Outcomes []Outcome
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Count returns how many outcomes have status s.
func (r Report) Count(s Status) int {
	n := 0

	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}

	return n
}

// Failures returns the outcomes with [StatusFailed].
func (r Report) Failures() []Outcome {
	var failed []Outcome

	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			failed = append(failed, o)
		}
	}

	return failed
}

// Merge returns r followed by other.
func (r Report) Merge(other Report) Report {
	out := Report{Outcomes: make([]Outcome, 0, len(r.Outcomes)+len(other.Outcomes))}
	out.Outcomes = append(out.Outcomes, r.Outcomes...)
	out.Outcomes = append(out.Outcomes, other.Outcomes...)

	return out
}
