package harness

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strconv"
	"strings"

	"github.com/roach88/kwargs/internal/arglist"
	"github.com/roach88/kwargs/internal/kwerr"
	"github.com/roach88/kwargs/internal/record"
	"github.com/roach88/kwargs/internal/source"
	"github.com/roach88/kwargs/internal/value"
)

// Harness executes one scenario.
type Harness struct {
	scenario *Scenario
	logger   *slog.Logger
	rec      *record.Record
	args     *arglist.ArgList
}

// Run executes a scenario with logging suppressed.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger executes a scenario and returns the result.
//
// Execution flow:
// 1. Build the record or argument list from the scenario input
// 2. Compare a construction failure with build_error
// 3. Evaluate each check in order
//
// The returned error covers failures outside the scenario's expectations,
// such as an input document that cannot be parsed at all.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	h := &Harness{scenario: scenario, logger: logger}
	defer h.release()

	result := NewResult()
	if err := h.build(result); err != nil {
		return nil, err
	}
	if h.rec == nil && h.args == nil {
		return result, nil
	}

	for i := range scenario.Checks {
		h.check(i, &scenario.Checks[i], result)
	}
	logger.Debug("scenario finished", "name", scenario.Name, "pass", result.Pass, "checks", len(scenario.Checks))
	return result, nil
}

func (h *Harness) release() {
	if h.rec != nil {
		h.rec.Release()
	}
	if h.args != nil {
		h.args.Release()
	}
}

func (h *Harness) build(result *Result) error {
	s := h.scenario
	opts := source.Options{Fold: s.Fold, Logger: h.logger}
	if len(s.Allowed) > 0 {
		if s.Fold {
			opts.Shape = record.NewFoldShape(s.Allowed...)
		} else {
			opts.Shape = record.NewShape(s.Allowed...)
		}
	}

	var err error
	if s.HasRecord() {
		h.rec, err = source.FromNode(&s.Record, opts)
	} else {
		h.args, err = source.ArgsFromNode(&s.Args, opts)
	}

	code := string(kwerr.CodeOf(err))
	if err != nil && code == "" {
		return fmt.Errorf("failed to build scenario input: %w", err)
	}
	if s.BuildError == "" && code == "" {
		return nil
	}

	result.addEvent(TraceEvent{Type: EventBuild, Error: code})
	switch {
	case s.BuildError == "":
		result.AddError(fmt.Sprintf("build: unexpected error: %v", err))
	case code == "":
		result.AddError(fmt.Sprintf("build: expected %s, got success", s.BuildError))
	case code != s.BuildError:
		result.AddError(fmt.Sprintf("build: expected %s, got %v", s.BuildError, err))
	}
	h.release()
	h.rec, h.args = nil, nil
	return nil
}

func (h *Harness) check(i int, c *Check, result *Result) {
	t := value.MustTypeByName(c.As)
	ev := TraceEvent{As: c.As}

	var got reflect.Value
	var err error
	if h.rec != nil {
		ev.Type = EventLookup
		ev.Target = strings.Join(c.Lookup, "|")
		item := h.rec.LookupName(c.Lookup...)
		if item.HasValue() {
			ev.Matched = item.Name()
			ev.Source = item.Slot().TypeName()
		}
		got, err = item.ConvertOr(t, c.Default...)
	} else {
		ev.Type = EventIndex
		ev.Target = strconv.Itoa(*c.Index)
		var s *value.Slot
		if s, err = h.args.At(*c.Index); err == nil {
			ev.Source = s.TypeName()
			got, err = s.ConvertTo(t)
		}
	}

	if err != nil {
		ev.Error = string(kwerr.CodeOf(err))
		if ev.Error == "" {
			ev.Error = err.Error()
		}
	} else {
		ev.Value = render(got)
	}
	result.addEvent(ev)

	if msg := h.verify(c, t, got, err); msg != "" {
		result.AddError(fmt.Sprintf("checks[%d] %s %s as %s: %s", i, ev.Type, ev.Target, c.As, msg))
	}
}

// verify compares a check's outcome with its expectation and returns a
// failure message, or "" when the outcome matches.
func (h *Harness) verify(c *Check, t reflect.Type, got reflect.Value, err error) string {
	if c.Error != "" {
		if err == nil {
			return fmt.Sprintf("expected %s, got %s", c.Error, render(got))
		}
		if code := string(kwerr.CodeOf(err)); code != c.Error {
			return fmt.Sprintf("expected %s, got %v", c.Error, err)
		}
		return ""
	}

	if err != nil {
		return fmt.Sprintf("unexpected error: %v", err)
	}
	if c.Expect == nil {
		return ""
	}

	want, werr := value.New(c.Expect).ConvertTo(t)
	if werr != nil {
		return fmt.Sprintf("expect value: %v", werr)
	}
	if !reflect.DeepEqual(got.Interface(), want.Interface()) {
		return fmt.Sprintf("expected %s, got %s", render(want), render(got))
	}
	return ""
}

// render formats a converted value for the trace.
func render(v reflect.Value) string {
	if !v.IsValid() || !v.CanInterface() {
		return "<invalid>"
	}
	return fmt.Sprintf("%v", v.Interface())
}
