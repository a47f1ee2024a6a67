package model

import "testing"

func TestValidID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "legacy object id", id: "60ae958e259ac5a73d6c06f0", want: true},
		{name: "legacy object id uppercase hex", id: "60AE958E259AC5A73D6C06F0", want: true},
		{name: "ulid", id: "01H3VQWFXH0006VFAJBZ5EXVFV", want: true},
		{name: "global literal", id: "global", want: true},
		{name: "empty", id: "", want: false},
		{name: "too short hex", id: "60ae958e259ac5a73d6c06f", want: false},
		{name: "too long hex", id: "60ae958e259ac5a73d6c06f00", want: false},
		{name: "hex with invalid char", id: "60ae958e259ac5a73d6c06fg", want: false},
		{name: "ulid with excluded letter I", id: "01H3VQWFXH0006VFAJBZ5EXVFI", want: false},
		{name: "ulid with excluded letter L", id: "01H3VQWFXH0006VFAJBZ5EXVFL", want: false},
		{name: "ulid starting past 7", id: "81H3VQWFXH0006VFAJBZ5EXVFV", want: false},
		{name: "ulid lowercase", id: "01h3vqwfxh0006vfajbz5exvfv", want: false},
		{name: "arbitrary word", id: "notaset", want: false},
		{name: "global with whitespace", id: " global", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidID(tt.id); got != tt.want {
				t.Errorf("ValidID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
