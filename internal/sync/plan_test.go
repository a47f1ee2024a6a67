package sync

import (
	"reflect"
	"testing"

	"github.com/emote-tools/emotesync/internal/model"
)

// emote builds an origin/target entry for plan tests.
func emote(id, alias string, private bool) model.SetEmote {
	return model.SetEmote{
		ID:    id,
		Alias: alias,
		Emote: model.Emote{
			ID:          id,
			DefaultName: alias,
			Flags:       model.EmoteFlags{Private: private},
		},
	}
}

// set builds a snapshot with TotalCount derived from its items.
func set(capacity int, emotes ...model.SetEmote) *model.EmoteSet {
	return &model.EmoteSet{
		ID:       "set",
		Capacity: capacity,
		Emotes: model.EmoteList{
			Items:      emotes,
			TotalCount: len(emotes),
		},
	}
}

func aliases(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Emote.Alias
	}
	return out
}

func TestBuildPlan(t *testing.T) {
	tests := []struct {
		name        string
		origin      *model.EmoteSet
		target      *model.EmoteSet
		opts        Options
		wantAliases []string
	}{
		{
			name:        "fresh emote into empty set",
			origin:      set(10, emote("A", "foo", false)),
			target:      set(10),
			wantAliases: []string{"foo"},
		},
		{
			name:        "private emote is filtered",
			origin:      set(10, emote("A", "foo", true)),
			target:      set(10),
			wantAliases: []string{},
		},
		{
			name:        "exact duplicate is filtered",
			origin:      set(10, emote("A", "foo", false)),
			target:      set(10, emote("A", "foo", false)),
			wantAliases: []string{},
		},
		{
			name:        "conflict dropped without replace",
			origin:      set(10, emote("B", "foo", false)),
			target:      set(10, emote("A", "foo", false)),
			opts:        Options{ReplaceConflicts: false},
			wantAliases: []string{},
		},
		{
			name:        "conflict kept with replace",
			origin:      set(10, emote("B", "foo", false)),
			target:      set(10, emote("A", "foo", false)),
			opts:        Options{ReplaceConflicts: true},
			wantAliases: []string{"foo"},
		},
		{
			name: "mixed pipeline preserves order",
			origin: set(10,
				emote("A", "keep1", false),
				emote("B", "secret", true),
				emote("C", "dupe", false),
				emote("D", "taken", false),
				emote("E", "keep2", false),
			),
			target: set(10,
				emote("C", "dupe", false),
				emote("X", "taken", false),
			),
			opts:        Options{ReplaceConflicts: false},
			wantAliases: []string{"keep1", "keep2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := BuildPlan(tt.origin, tt.target, tt.opts)
			got := aliases(plan.Items)
			if len(got) == 0 && len(tt.wantAliases) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.wantAliases) {
				t.Errorf("plan aliases = %v, want %v", got, tt.wantAliases)
			}
		})
	}
}

func TestBuildPlanSchedulesRemoval(t *testing.T) {
	origin := set(10, emote("B", "foo", false))
	target := set(10, emote("A", "foo", false))

	plan := BuildPlan(origin, target, Options{ReplaceConflicts: true})

	if len(plan.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(plan.Items))
	}
	item := plan.Items[0]
	if item.Emote.ID != "B" {
		t.Errorf("planned emote = %s, want B", item.Emote.ID)
	}
	if item.Replaces == nil {
		t.Fatal("expected a scheduled removal")
	}
	if item.Replaces.ID != "A" {
		t.Errorf("scheduled removal = %s, want A", item.Replaces.ID)
	}
}

func TestBuildPlanNoRemovalWithoutConflict(t *testing.T) {
	plan := BuildPlan(set(10, emote("A", "foo", false)), set(10), Options{ReplaceConflicts: true})

	if len(plan.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(plan.Items))
	}
	if plan.Items[0].Replaces != nil {
		t.Errorf("unexpected scheduled removal: %+v", plan.Items[0].Replaces)
	}
}

func TestBuildPlanCapacityTrim(t *testing.T) {
	origin := set(10,
		emote("A", "one", false),
		emote("B", "two", false),
		emote("C", "three", false),
		emote("D", "four", false),
		emote("E", "five", false),
	)

	t.Run("trims to first fitting emotes in order", func(t *testing.T) {
		target := set(5, emote("X", "x1", false), emote("Y", "x2", false), emote("Z", "x3", false))

		plan := BuildPlan(origin, target, Options{TrimToCapacity: true})

		want := []string{"one", "two"}
		if !reflect.DeepEqual(aliases(plan.Items), want) {
			t.Errorf("plan aliases = %v, want %v", aliases(plan.Items), want)
		}
		if plan.Trimmed != 3 {
			t.Errorf("Trimmed = %d, want 3", plan.Trimmed)
		}
	})

	t.Run("keeps everything when trim is off", func(t *testing.T) {
		target := set(5, emote("X", "x1", false), emote("Y", "x2", false), emote("Z", "x3", false))

		plan := BuildPlan(origin, target, Options{TrimToCapacity: false})

		if len(plan.Items) != 5 {
			t.Errorf("len(Items) = %d, want 5", len(plan.Items))
		}
	})

	t.Run("full target yields empty plan", func(t *testing.T) {
		target := set(1, emote("X", "x1", false))

		plan := BuildPlan(origin, target, Options{TrimToCapacity: true})

		if !plan.Empty() {
			t.Errorf("expected empty plan, got %v", aliases(plan.Items))
		}
	})

	t.Run("over-capacity target clamps to zero", func(t *testing.T) {
		target := set(1, emote("X", "x1", false), emote("Y", "x2", false))

		plan := BuildPlan(origin, target, Options{TrimToCapacity: true})

		if plan.AvailableSpace != -1 {
			t.Errorf("AvailableSpace = %d, want -1", plan.AvailableSpace)
		}
		if !plan.Empty() {
			t.Errorf("expected empty plan, got %v", aliases(plan.Items))
		}
	})
}

func TestBuildPlanCounts(t *testing.T) {
	origin := set(10,
		emote("A", "private1", true),
		emote("B", "private2", true),
		emote("C", "dupe", false),
		emote("D", "taken", false),
		emote("E", "fresh", false),
	)
	target := set(10,
		emote("C", "dupe", false),
		emote("X", "taken", false),
	)

	plan := BuildPlan(origin, target, Options{ReplaceConflicts: true})

	if plan.Private != 2 {
		t.Errorf("Private = %d, want 2", plan.Private)
	}
	if plan.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", plan.Duplicates)
	}
	if plan.Conflicts != 1 {
		t.Errorf("Conflicts = %d, want 1", plan.Conflicts)
	}
	if plan.AvailableSpace != 8 {
		t.Errorf("AvailableSpace = %d, want 8", plan.AvailableSpace)
	}
}

func TestBuildPlanProperties(t *testing.T) {
	origin := set(20,
		emote("A", "a", false),
		emote("B", "b", true),
		emote("C", "c", false),
		emote("D", "d", false),
		emote("E", "taken", false),
	)
	target := set(3,
		emote("Z", "taken", false),
		emote("D", "d", false),
	)

	t.Run("no private emote survives", func(t *testing.T) {
		for _, opts := range []Options{{}, {ReplaceConflicts: true}, {TrimToCapacity: true}} {
			plan := BuildPlan(origin, target, opts)
			for _, item := range plan.Items {
				if item.Emote.Private() {
					t.Errorf("private emote %s in plan with opts %+v", item.Emote.ID, opts)
				}
			}
		}
	})

	t.Run("no alias overlap without replace", func(t *testing.T) {
		plan := BuildPlan(origin, target, Options{ReplaceConflicts: false})
		for _, item := range plan.Items {
			for _, te := range target.Emotes.Items {
				if item.Emote.Alias == te.Alias {
					t.Errorf("alias %q overlaps target", item.Emote.Alias)
				}
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		opts := Options{ReplaceConflicts: true, TrimToCapacity: true}
		first := BuildPlan(origin, target, opts)
		for i := 0; i < 5; i++ {
			if again := BuildPlan(origin, target, opts); !reflect.DeepEqual(first, again) {
				t.Fatalf("plan differs between identical runs: %+v vs %+v", first, again)
			}
		}
	})
}
