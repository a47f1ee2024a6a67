package sync

import (
	"fmt"
	"strings"
)

// Action records what happened to a single planned emote.
type Action string

const (
	// ActionAdded indicates the emote was added to the target set.
	ActionAdded Action = "added"

	// ActionSkipped indicates the emote was skipped (missing remotely,
	// or rejected as conflicting) and the session moved on.
	ActionSkipped Action = "skipped"

	// ActionFailed indicates the emote caused the session to abort.
	ActionFailed Action = "failed"
)

// Outcome is the terminal state of a copy session.
type Outcome string

const (
	// OutcomeCompleted means every planned emote reached a terminal
	// non-fatal state.
	OutcomeCompleted Outcome = "completed"

	// OutcomeAbortedGraceful means the target ran out of room; the
	// session stopped early but counts as a non-failing run.
	OutcomeAbortedGraceful Outcome = "aborted-graceful"

	// OutcomeAbortedFatal means an authorization failure or retry
	// exhaustion stopped the session with a failing outcome.
	OutcomeAbortedFatal Outcome = "aborted-fatal"
)

// ItemResult is the outcome of one planned emote.
type ItemResult struct {
	// Item is the plan entry that was processed.
	Item Item

	// Action is the terminal state the emote reached.
	Action Action

	// Attempts is how many remove-then-add attempts were made.
	Attempts int

	// Message provides additional context about the action.
	Message string

	// Err holds the error that ended processing, for failed items.
	Err error
}

// Result is the aggregate outcome of a copy session.
type Result struct {
	// OriginID and TargetID identify the sets involved.
	OriginID string
	TargetID string

	// Outcome is the session's terminal state.
	Outcome Outcome

	// Items holds one entry per processed plan item. Aborts leave the
	// unprocessed suffix of the plan unrepresented.
	Items []ItemResult

	// Planned is the plan length the session started with.
	Planned int

	// Err carries the error behind an aborted outcome.
	Err error
}

// Added returns the emotes that were added.
func (r *Result) Added() []ItemResult {
	return r.filterByAction(ActionAdded)
}

// Skipped returns the emotes that were skipped.
func (r *Result) Skipped() []ItemResult {
	return r.filterByAction(ActionSkipped)
}

// Failed returns the emotes that ended the session.
func (r *Result) Failed() []ItemResult {
	return r.filterByAction(ActionFailed)
}

// filterByAction returns items with the given action.
func (r *Result) filterByAction(action Action) []ItemResult {
	var filtered []ItemResult
	for _, ir := range r.Items {
		if ir.Action == action {
			filtered = append(filtered, ir)
		}
	}
	return filtered
}

// Success reports whether the session counts as a non-failing run.
// A graceful abort (full target set) is still a success.
func (r *Result) Success() bool {
	return r.Outcome != OutcomeAbortedFatal
}

// Summary returns a human-readable summary of the session.
func (r *Result) Summary() string {
	var sb strings.Builder

	switch r.Outcome {
	case OutcomeCompleted:
		sb.WriteString("Copy completed\n")
	case OutcomeAbortedGraceful:
		sb.WriteString("Copy stopped early: the target emote set is full\n")
	case OutcomeAbortedFatal:
		sb.WriteString("Copy aborted\n")
	}

	sb.WriteString(fmt.Sprintf("  Planned: %d\n", r.Planned))
	sb.WriteString(fmt.Sprintf("  Added:   %d\n", len(r.Added())))
	sb.WriteString(fmt.Sprintf("  Skipped: %d\n", len(r.Skipped())))

	if skipped := r.Skipped(); len(skipped) > 0 {
		sb.WriteString("\nSkipped emotes:\n")
		for _, ir := range skipped {
			sb.WriteString(fmt.Sprintf("  - %s: %s\n", ir.Item.Emote.Alias, ir.Message))
		}
	}

	if r.Err != nil {
		sb.WriteString(fmt.Sprintf("\nError: %v\n", r.Err))
	}

	return sb.String()
}
