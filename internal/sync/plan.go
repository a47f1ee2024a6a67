package sync

import (
	"github.com/emote-tools/emotesync/internal/model"
)

// Options holds the two session-wide policy decisions that steer
// planning. They are answered once per session, never per emote.
type Options struct {
	// ReplaceConflicts keeps emotes whose alias is taken in the target
	// and schedules the conflicting target emote for removal first.
	// When false, conflicting emotes are dropped from the plan.
	ReplaceConflicts bool

	// TrimToCapacity cuts the plan down to the target's available
	// space. When false, the plan may exceed capacity and the API
	// decides (typically rejecting the overflow with a capacity error).
	TrimToCapacity bool
}

// Item is one planned transfer: an origin emote to add, plus the
// conflicting target emote to remove beforehand, if any.
type Item struct {
	Emote model.SetEmote

	// Replaces is the target emote holding the same alias, scheduled
	// for removal before the add. Nil when the alias is free.
	Replaces *model.SetEmote
}

// Plan is the ordered output of BuildPlan. Counts record how many
// origin emotes each pipeline stage dropped or flagged, so the CLI can
// narrate the filtering the way the session output expects.
type Plan struct {
	Items []Item

	// Private is the number of origin emotes dropped for being private.
	Private int
	// Duplicates is the number dropped as exact duplicates (same emote
	// id and alias already in the target).
	Duplicates int
	// Conflicts is the number of candidates whose alias is already
	// taken in the target, whether or not they were kept.
	Conflicts int
	// Trimmed is the number cut by the capacity stage.
	Trimmed int
	// AvailableSpace is the target's remaining capacity at planning
	// time. Negative when the target is over capacity.
	AvailableSpace int
}

// Empty reports whether there is nothing to transfer. An empty plan is
// a successful no-op, not an error.
func (p Plan) Empty() bool {
	return len(p.Items) == 0
}

// BuildPlan computes the ordered transfer plan for copying origin's
// emotes into target. It is pure and deterministic: identical inputs
// always yield identical plans, and the plan is an order-preserving
// subsequence of origin's emote list.
func BuildPlan(origin, target *model.EmoteSet, opts Options) Plan {
	plan := Plan{AvailableSpace: target.AvailableSpace()}

	// Stage 1: drop private emotes.
	visible := make([]model.SetEmote, 0, len(origin.Emotes.Items))
	for _, e := range origin.Emotes.Items {
		if e.Private() {
			plan.Private++
			continue
		}
		visible = append(visible, e)
	}

	// Stage 2: drop exact duplicates. Two emotes are exactly duplicate
	// iff both emote id and alias match.
	type pair struct{ id, alias string }
	existing := make(map[pair]bool, len(target.Emotes.Items))
	for _, e := range target.Emotes.Items {
		existing[pair{e.ID, e.Alias}] = true
	}

	fresh := make([]model.SetEmote, 0, len(visible))
	for _, e := range visible {
		if existing[pair{e.ID, e.Alias}] {
			plan.Duplicates++
			continue
		}
		fresh = append(fresh, e)
	}

	// Stage 3: resolve alias conflicts. The first target emote holding
	// the alias is the one scheduled for removal.
	byAlias := make(map[string]*model.SetEmote, len(target.Emotes.Items))
	for i := range target.Emotes.Items {
		e := &target.Emotes.Items[i]
		if _, taken := byAlias[e.Alias]; !taken {
			byAlias[e.Alias] = e
		}
	}

	items := make([]Item, 0, len(fresh))
	for _, e := range fresh {
		conflicting := byAlias[e.Alias]
		if conflicting == nil {
			items = append(items, Item{Emote: e})
			continue
		}
		plan.Conflicts++
		if opts.ReplaceConflicts {
			items = append(items, Item{Emote: e, Replaces: conflicting})
		}
	}

	// Stage 4: trim to capacity.
	if opts.TrimToCapacity {
		space := plan.AvailableSpace
		if space < 0 {
			space = 0
		}
		if len(items) > space {
			plan.Trimmed = len(items) - space
			items = items[:space]
		}
	}

	plan.Items = items
	return plan
}
