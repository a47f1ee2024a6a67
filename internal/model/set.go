// Package model defines the emote set data model shared across emotesync.
package model

import "encoding/json"

// EmoteFlags carries per-emote visibility flags.
type EmoteFlags struct {
	Private bool `json:"private"`
}

// Emote is the underlying shared emote an entry references.
type Emote struct {
	ID          string     `json:"id"`
	DefaultName string     `json:"defaultName"`
	Flags       EmoteFlags `json:"flags"`
}

// SetEmote is a single entry of an emote set: an emote bound to an
// alias within that set.
type SetEmote struct {
	ID    string `json:"id"`
	Alias string `json:"alias"`
	Emote Emote  `json:"emote"`
}

// Private reports whether the referenced emote is private.
func (e SetEmote) Private() bool {
	return e.Emote.Flags.Private
}

// EmoteList holds the entries of a set together with the server-side
// total. TotalCount may legitimately exceed len(Items) capacity-wise;
// the API allows transient overflow.
type EmoteList struct {
	Items      []SetEmote `json:"items"`
	TotalCount int        `json:"totalCount"`
}

// Owner identifies the user owning a set and the users allowed to edit it.
type Owner struct {
	ID      string
	Editors []string
}

// ownerWire matches the GraphQL shape, where editors come as objects.
type ownerWire struct {
	ID      string `json:"id"`
	Editors []struct {
		EditorID string `json:"editorId"`
	} `json:"editors"`
}

// UnmarshalJSON flattens the editors list to plain ids.
func (o *Owner) UnmarshalJSON(data []byte) error {
	var w ownerWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	o.ID = w.ID
	o.Editors = make([]string, 0, len(w.Editors))
	for _, e := range w.Editors {
		o.Editors = append(o.Editors, e.EditorID)
	}
	return nil
}

// EmoteSet is an immutable snapshot of a remote emote set. Snapshots are
// fetched once per session and never refreshed; plans and conflict
// lookups run against the snapshot even after remote mutations.
type EmoteSet struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Capacity int       `json:"capacity"`
	Emotes   EmoteList `json:"emotes"`
	Owner    Owner     `json:"owner"`
}

// AvailableSpace returns the remaining capacity of the set. The result
// may be negative when the set is over capacity.
func (s *EmoteSet) AvailableSpace() int {
	return s.Capacity - s.Emotes.TotalCount
}

// EditableBy reports whether the given user owns the set or is listed
// as an editor.
func (s *EmoteSet) EditableBy(userID string) bool {
	if s.Owner.ID == userID {
		return true
	}
	for _, e := range s.Owner.Editors {
		if e == userID {
			return true
		}
	}
	return false
}
