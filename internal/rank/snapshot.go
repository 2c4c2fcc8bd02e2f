package rank

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// Post is a single upstream article as it appeared at fetch time. Posts are
// value types and never mutated after parsing; a later fetch that reports a
// different upvote count produces a new Post with the same ID.
type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Upvotes     int       `json:"upvotes"`
	PublishedAt time.Time `json:"published_at"`
	Author      string    `json:"author"`
}

// Snapshot is one fully ranked result of a refresh cycle. It is immutable
// once published; readers share it freely without locking.
type Snapshot struct {
	FetchedAt time.Time `json:"fetched_at"`
	Posts     []Post    `json:"posts"`
}

// Find returns the post with the given id, if present.
func (s *Snapshot) Find(id int64) (Post, bool) {
	return lo.Find(s.Posts, func(p Post) bool { return p.ID == id })
}

// PostDetail is the detail-endpoint shape: a ranked post plus its full
// markdown body.
type PostDetail struct {
	Post
	Content string `json:"content"`
}

// Merge flattens fetched pages into one slice de-duplicated by post ID.
// When the same ID shows up on more than one page the last occurrence wins,
// so upvote counts reflect the most recent page that mentioned the post.
func Merge(pages [][]Post) []Post {
	byID := make(map[int64]Post)
	order := make([]int64, 0)
	for _, page := range pages {
		for _, p := range page {
			if _, seen := byID[p.ID]; !seen {
				order = append(order, p.ID)
			}
			byID[p.ID] = p
		}
	}
	return lo.Map(order, func(id int64, _ int) Post { return byID[id] })
}

// Rank sorts posts by upvotes descending, published_at descending on ties,
// and ID ascending as a final tie-break so the order is total. The result is
// truncated to max entries when max > 0.
func Rank(posts []Post, max int) []Post {
	ranked := make([]Post, len(posts))
	copy(ranked, posts)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Upvotes != b.Upvotes {
			return a.Upvotes > b.Upvotes
		}
		if !a.PublishedAt.Equal(b.PublishedAt) {
			return a.PublishedAt.After(b.PublishedAt)
		}
		return a.ID < b.ID
	})

	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}

// WindowFunc reports the half-open interval [from, to) a refresh should keep
// posts from. Injectable so tests can pin the window.
type WindowFunc func() (from, to time.Time)

// PreviousUTCDay keeps yesterday's posts, midnight to midnight UTC.
func PreviousUTCDay() (time.Time, time.Time) {
	now := time.Now().UTC()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return to.AddDate(0, 0, -1), to
}

// FilterWindow drops posts published outside [from, to). A zero window keeps
// everything.
func FilterWindow(posts []Post, from, to time.Time) []Post {
	if from.IsZero() && to.IsZero() {
		return posts
	}
	return lo.Filter(posts, func(p Post, _ int) bool {
		return !p.PublishedAt.Before(from) && p.PublishedAt.Before(to)
	})
}
