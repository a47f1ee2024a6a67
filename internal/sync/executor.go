package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emote-tools/emotesync/internal/logging"
	"github.com/emote-tools/emotesync/internal/seventv"
)

// Client is the slice of the 7TV API the executor mutates through.
// Satisfied by *seventv.Client.
type Client interface {
	AddEmote(ctx context.Context, token, setID, emoteID, alias string) error
	RemoveEmote(ctx context.Context, token, setID, emoteID string) error
}

// Reporter receives plan-level progress. Satisfied by
// *progress.Reporter.
type Reporter interface {
	Start(total int)
	Advance(n int)
	Finish()
}

// Sleeper abstracts the retry backoff wait so tests can observe delays
// without real waiting.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// timerSleeper blocks on a timer, honoring context cancellation.
type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// nopReporter is used when the caller supplies no Reporter.
type nopReporter struct{}

func (nopReporter) Start(int)   {}
func (nopReporter) Advance(int) {}
func (nopReporter) Finish()     {}

// ExecutorConfig configures an Executor. Client is required; the rest
// default to production values.
type ExecutorConfig struct {
	Client   Client
	Reporter Reporter
	Sleeper  Sleeper

	// MaxAttempts is the total number of remove-then-add attempts per
	// plan item before the session aborts. Defaults to 5.
	MaxAttempts int

	// FirstDelay is the wait before the first retry; LaterDelay before
	// every subsequent one. Default to 30s and 45s.
	FirstDelay time.Duration
	LaterDelay time.Duration
}

// Executor drives a transfer plan against the target set, strictly
// sequentially and in plan order. Remote calls block; retry backoff
// blocks the session too.
type Executor struct {
	client      Client
	reporter    Reporter
	sleeper     Sleeper
	maxAttempts int
	firstDelay  time.Duration
	laterDelay  time.Duration
}

// NewExecutor creates an Executor from the given config.
func NewExecutor(cfg ExecutorConfig) *Executor {
	e := &Executor{
		client:      cfg.Client,
		reporter:    cfg.Reporter,
		sleeper:     cfg.Sleeper,
		maxAttempts: cfg.MaxAttempts,
		firstDelay:  cfg.FirstDelay,
		laterDelay:  cfg.LaterDelay,
	}
	if e.reporter == nil {
		e.reporter = nopReporter{}
	}
	if e.sleeper == nil {
		e.sleeper = timerSleeper{}
	}
	if e.maxAttempts <= 0 {
		e.maxAttempts = 5
	}
	if e.firstDelay <= 0 {
		e.firstDelay = 30 * time.Second
	}
	if e.laterDelay <= 0 {
		e.laterDelay = 45 * time.Second
	}
	return e
}

// Run executes the plan against the target set. The returned error is
// non-nil only when the context was canceled mid-session; every other
// failure mode is folded into the Result's outcome. Already-applied
// remote mutations are never rolled back.
func (e *Executor) Run(ctx context.Context, token string, plan Plan, targetID string) (*Result, error) {
	result := &Result{
		TargetID: targetID,
		Outcome:  OutcomeCompleted,
		Planned:  len(plan.Items),
		Items:    make([]ItemResult, 0, len(plan.Items)),
	}

	logging.Info("executing transfer plan",
		logging.Set(targetID),
		logging.Operation("copy"),
		logging.Count(len(plan.Items)),
	)

	e.reporter.Start(len(plan.Items))
	defer e.reporter.Finish()

	for _, item := range plan.Items {
		ir, err := e.processItem(ctx, token, targetID, item)
		if err != nil {
			return result, err
		}
		result.Items = append(result.Items, ir)

		switch ir.Action {
		case ActionAdded, ActionSkipped:
			e.reporter.Advance(1)
		case ActionFailed:
			result.Err = ir.Err
			if errors.Is(ir.Err, seventv.ErrCapacity) {
				result.Outcome = OutcomeAbortedGraceful
			} else {
				result.Outcome = OutcomeAbortedFatal
			}
			logging.Warn("session aborted",
				logging.Set(targetID),
				logging.Alias(ir.Item.Emote.Alias),
				logging.Err(ir.Err),
			)
			return result, nil
		}
	}

	logging.Info("transfer plan completed",
		logging.Set(targetID),
		logging.Count(len(result.Added())),
	)
	return result, nil
}

// processItem runs the remove-then-add sequence for one plan item,
// retrying the whole sequence on transient errors. The skip-removal
// flag is deliberately scoped to this item and reset for the next one:
// a removal that 404s is never retried for this emote, but the next
// conflicting emote starts fresh.
func (e *Executor) processItem(ctx context.Context, token, targetID string, item Item) (ItemResult, error) {
	ir := ItemResult{Item: item}
	skipRemoval := false

	for {
		if err := ctx.Err(); err != nil {
			return ir, err
		}
		ir.Attempts++

		err := e.attempt(ctx, token, targetID, item, &skipRemoval)
		switch {
		case err == nil:
			ir.Action = ActionAdded
			return ir, nil

		case errors.Is(err, seventv.ErrEmoteNotFound):
			// The emote no longer exists upstream.
			ir.Action = ActionSkipped
			ir.Message = "emote no longer exists"
			logging.Warn("emote not found, skipping",
				logging.Emote(item.Emote.ID),
				logging.Alias(item.Emote.Alias),
			)
			return ir, nil

		case errors.Is(err, seventv.ErrConflict):
			// The API still sees a conflict despite local resolution.
			ir.Action = ActionSkipped
			ir.Message = "rejected as conflicting by the API"
			logging.Warn("unexpected conflict, skipping",
				logging.Alias(item.Emote.Alias),
			)
			return ir, nil

		case errors.Is(err, seventv.ErrUnauthorized), errors.Is(err, seventv.ErrCapacity):
			ir.Action = ActionFailed
			ir.Err = err
			return ir, nil

		default:
			// Transport or unclassified: retry with backoff.
			if ir.Attempts >= e.maxAttempts {
				ir.Action = ActionFailed
				ir.Err = fmt.Errorf("giving up on %q after %d attempts: %w",
					item.Emote.Alias, ir.Attempts, err)
				return ir, nil
			}
			delay := e.laterDelay
			if ir.Attempts == 1 {
				delay = e.firstDelay
			}
			logging.Warn("transfer attempt failed, retrying",
				logging.Alias(item.Emote.Alias),
				logging.Attempt(ir.Attempts),
				logging.Err(err),
			)
			if err := e.sleeper.Sleep(ctx, delay); err != nil {
				return ir, err
			}
		}
	}
}

// attempt performs one remove-then-add sequence. A removal that 404s
// marks skipRemoval and still proceeds to the add; any other removal
// error aborts the attempt and is classified by the caller.
func (e *Executor) attempt(ctx context.Context, token, targetID string, item Item, skipRemoval *bool) error {
	if item.Replaces != nil && !*skipRemoval {
		err := e.client.RemoveEmote(ctx, token, targetID, item.Replaces.ID)
		if errors.Is(err, seventv.ErrEmoteNotFound) {
			logging.Warn("conflicting emote already gone, skipping removal",
				logging.Alias(item.Replaces.Alias),
				logging.Set(targetID),
			)
			*skipRemoval = true
		} else if err != nil {
			return err
		}
	}

	return e.client.AddEmote(ctx, token, targetID, item.Emote.ID, item.Emote.Alias)
}
