package harness

// Trace event types.
const (
	EventBuild  = "build"
	EventLookup = "lookup"
	EventIndex  = "index"
)

// TraceEvent records one step of a scenario run.
type TraceEvent struct {
	Seq  int    `json:"seq"`
	Type string `json:"type"`

	// Target is the lookup's names joined with "|", or the argument index.
	Target string `json:"target,omitempty"`

	// Matched names the record entry that answered a lookup; empty when the
	// default was used.
	Matched string `json:"matched,omitempty"`

	As     string `json:"as,omitempty"`
	Source string `json:"source,omitempty"` // originating type name
	Value  string `json:"value,omitempty"`  // converted value, rendered with %v
	Error  string `json:"error,omitempty"`  // kwerr code
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every check met its expectation.
	Pass bool `json:"pass"`

	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addEvent appends ev with the next sequence number.
func (r *Result) addEvent(ev TraceEvent) {
	ev.Seq = len(r.Trace) + 1
	r.Trace = append(r.Trace, ev)
}
