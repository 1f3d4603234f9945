package domain

import "time"

// StepStatus classifies how a pipeline step ended.
type StepStatus int

const (
	// StepOK means the step produced a real value.
	StepOK StepStatus = iota
	// StepDefaulted means the source was unavailable and the documented
	// default was substituted.
	StepDefaulted
	// StepFailed means the step could not complete and nothing was
	// substituted. Only delivery ends this way.
	StepFailed
)

// String returns a human-readable representation of the status.
func (s StepStatus) String() string {
	switch s {
	case StepOK:
		return "ok"
	case StepDefaulted:
		return "defaulted"
	case StepFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StepResult is the result of one pipeline step.
type StepResult[T any] struct {
	Step    string
	Value   T
	Status  StepStatus
	Err     error
	Elapsed time.Duration
}

// Succeeded records a step that produced v.
func Succeeded[T any](step string, v T, elapsed time.Duration) StepResult[T] {
	return StepResult[T]{Step: step, Value: v, Status: StepOK, Elapsed: elapsed}
}

// Defaulted records a step whose source failed with err; def was substituted.
func Defaulted[T any](step string, def T, err error, elapsed time.Duration) StepResult[T] {
	return StepResult[T]{Step: step, Value: def, Status: StepDefaulted, Err: err, Elapsed: elapsed}
}

// Failed records a step that could not complete.
func Failed[T any](step string, v T, err error, elapsed time.Duration) StepResult[T] {
	return StepResult[T]{Step: step, Value: v, Status: StepFailed, Err: err, Elapsed: elapsed}
}

// Outcome aggregates the step results of one pipeline run.
type Outcome struct {
	ReportID   string
	CapturedAt time.Time

	IP       StepResult[string]
	Geo      StepResult[GeoReport]
	Hints    StepResult[map[string]string]
	Device   StepResult[DeviceProfile]
	Fields   []Field
	Delivery StepResult[int]
}

// Delivered reports whether the webhook accepted the report.
func (o Outcome) Delivered() bool {
	return o.Delivery.Status == StepOK
}
