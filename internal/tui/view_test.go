package tui

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{
			name:  "short string untouched",
			input: "Go 1.24 released",
			max:   40,
			want:  "Go 1.24 released",
		},
		{
			name:  "exact length untouched",
			input: "abcd",
			max:   4,
			want:  "abcd",
		},
		{
			name:  "long string gets ellipsis",
			input: "A very long article title",
			max:   10,
			want:  "A very lo…",
		},
		{
			name:  "cut inside a multi-byte rune",
			input: "Go générics 🚀 deep dive into type parameters",
			max:   6,
			want:  "Go gé…",
		},
		{
			name:  "emoji counted as one character",
			input: "🚀🚀🚀🚀🚀🚀🚀🚀",
			max:   5,
			want:  "🚀🚀🚀🚀…",
		},
		{
			name:  "tiny limit clamped",
			input: "No newlines here",
			max:   0,
			want:  "No …",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got), "truncate must never emit invalid UTF-8")
		})
	}
}

func TestListView_HandlesMultiByteTitles(t *testing.T) {
	app := testApp(&stubFeed{})
	app.width = 28 // narrow enough to force truncation of the title below
	app.Update(snapshotLoadedMsg{snapshot: threePosts()})
	app.snapshot.Posts[0].Title = "Écrire du Go idiomatique 🚀 sans se fatiguer"

	view := app.View()
	assert.True(t, utf8.ValidString(view))
}
