package agg

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/huangsam/newslog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrefix = "/article/"

var (
	testAuthors = []schema.Author{
		{ID: 1, Name: "Ann"},
		{ID: 2, Name: "Bob"},
		{ID: 3, Name: "Cid"},
	}
	testArticles = []schema.Article{
		{Slug: "alpha", Title: "Alpha", AuthorID: 1},
		{Slug: "beta", Title: "Beta", AuthorID: 1},
		{Slug: "gamma", Title: "Gamma", AuthorID: 2},
		{Slug: "orphan", Title: "Orphan", AuthorID: 99},
	}
)

func hits(path, status string, n int, at time.Time) []schema.LogEntry {
	out := make([]schema.LogEntry, n)
	for i := range out {
		out[i] = schema.LogEntry{Time: at, Path: path, Status: status}
	}
	return out
}

func byViews[T any](views []T, key func(T) string, count func(T) int) map[string]int {
	out := make(map[string]int, len(views))
	for _, v := range views {
		out[key(v)] = count(v)
	}
	return out
}

func articleMap(views []schema.ArticleViewCount) map[string]int {
	return byViews(views, func(v schema.ArticleViewCount) string { return v.Article.Slug },
		func(v schema.ArticleViewCount) int { return v.Views })
}

func authorMap(views []schema.AuthorViewCount) map[string]int {
	return byViews(views, func(v schema.AuthorViewCount) string { return v.Author.Name },
		func(v schema.AuthorViewCount) int { return v.Views })
}

func TestSlugFromPath(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		slug   string
		wantOK bool
	}{
		{"article path", "/article/candidate-is-jerk", "candidate-is-jerk", true},
		{"prefix only", "/article/", "", false},
		{"shorter than prefix", "/", "", false},
		{"empty", "", "", false},
		{"other prefix same length", "/xxxxxxx/foo", "foo", true},
		{"trailing slash kept", "/article/foo/", "foo/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, ok := SlugFromPath(tt.path, testPrefix)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.slug, slug)
		})
	}
}

func TestResolver(t *testing.T) {
	r := NewResolver(append(slices.Clone(testArticles), schema.Article{Slug: "", Title: "Empty"}), testPrefix)

	a, ok := r.Resolve("/article/alpha")
	require.True(t, ok)
	assert.Equal(t, "Alpha", a.Title)

	_, ok = r.Resolve("/article/alpha-extra")
	assert.False(t, ok, "matching is exact")

	_, ok = r.Resolve("/article/")
	assert.False(t, ok, "empty slug never resolves")

	_, ok = r.Resolve("/")
	assert.False(t, ok)
}

func TestCountArticleViews(t *testing.T) {
	day := time.Date(2016, 7, 1, 12, 0, 0, 0, time.UTC)
	var entries []schema.LogEntry
	entries = append(entries, hits("/article/alpha", "200 OK", 3, day)...)
	entries = append(entries, hits("/article/beta", "200 OK", 2, day)...)
	entries = append(entries, hits("/article/unknown", "404 NOT FOUND", 4, day)...)
	entries = append(entries, hits("/", "200 OK", 10, day)...)

	r := NewResolver(testArticles, testPrefix)
	got := articleMap(CountArticleViews(entries, r))

	assert.Equal(t, map[string]int{"alpha": 3, "beta": 2}, got)
}

func TestCountArticleViewsStatusAgnostic(t *testing.T) {
	day := time.Date(2016, 7, 1, 12, 0, 0, 0, time.UTC)
	entries := append(hits("/article/alpha", "200 OK", 1, day), hits("/article/alpha", "404 NOT FOUND", 1, day)...)

	got := articleMap(CountArticleViews(entries, NewResolver(testArticles, testPrefix)))
	assert.Equal(t, 2, got["alpha"])
}

func TestCountArticleViewsParallel(t *testing.T) {
	day := time.Date(2016, 7, 1, 12, 0, 0, 0, time.UTC)
	var entries []schema.LogEntry
	for i := range 50_000 {
		slug := testArticles[i%len(testArticles)].Slug
		if i%7 == 0 {
			slug = fmt.Sprintf("missing-%d", i)
		}
		entries = append(entries, schema.LogEntry{Time: day, Path: testPrefix + slug, Status: "200 OK"})
	}
	r := NewResolver(testArticles, testPrefix)

	serial := articleMap(CountArticleViews(entries, r))
	for _, workers := range []int{0, 1, 2, 3, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			assert.Equal(t, serial, articleMap(CountArticleViewsParallel(entries, r, workers)))
		})
	}
}

func TestCountAuthorViews(t *testing.T) {
	views := []schema.ArticleViewCount{
		{Article: testArticles[0], Views: 10},
		{Article: testArticles[1], Views: 5},
		{Article: testArticles[2], Views: 7},
		{Article: testArticles[3], Views: 100},
	}

	got := authorMap(CountAuthorViews(views, testAuthors))

	assert.Equal(t, map[string]int{"Ann": 15, "Bob": 7}, got, "unknown author dropped, zero-view author absent")
}

func TestViewConservation(t *testing.T) {
	day := time.Date(2016, 7, 1, 12, 0, 0, 0, time.UTC)
	var entries []schema.LogEntry
	entries = append(entries, hits("/article/alpha", "200 OK", 4, day)...)
	entries = append(entries, hits("/article/beta", "200 OK", 6, day)...)
	entries = append(entries, hits("/article/gamma", "200 OK", 1, day)...)

	articleViews := CountArticleViews(entries, NewResolver(testArticles[:3], testPrefix))
	authorViews := CountAuthorViews(articleViews, testAuthors)

	var articleTotal, authorTotal int
	for _, v := range articleViews {
		articleTotal += v.Views
	}
	for _, v := range authorViews {
		authorTotal += v.Views
	}
	assert.Equal(t, articleTotal, authorTotal)
	assert.Equal(t, 11, authorTotal)
}

func TestStatusClassifier(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		status   string
		want     bool
	}{
		{"default 404", []string{"404"}, "404 NOT FOUND", true},
		{"ok is not error", []string{"404"}, "200 OK", false},
		{"500 not in default", []string{"404"}, "500 INTERNAL SERVER ERROR", false},
		{"class match", []string{"5xx"}, "503 SERVICE UNAVAILABLE", true},
		{"class upper case", []string{"4XX"}, "410 GONE", true},
		{"bare code", []string{"404"}, "404", true},
		{"four digits rejected", []string{"404"}, "4040 X", false},
		{"garbage", []string{"404"}, "NOT FOUND", false},
		{"empty", []string{"404"}, "", false},
		{"leading space trimmed", []string{"404"}, " 404 NOT FOUND", true},
		{"mixed set", []string{"404", "5xx"}, "500 ERROR", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewStatusClassifier(tt.patterns).IsError(tt.status))
		})
	}
}

func TestDailyErrorStats(t *testing.T) {
	d1 := time.Date(2016, 7, 1, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2016, 7, 2, 23, 59, 59, 0, time.UTC)

	var entries []schema.LogEntry
	entries = append(entries, hits("/article/alpha", "200 OK", 99, d2)...)
	entries = append(entries, hits("/article/alpha", "404 NOT FOUND", 1, d2)...)
	entries = append(entries, hits("/article/beta", "200 OK", 98, d1)...)
	entries = append(entries, hits("/article/beta", "404 NOT FOUND", 2, d1)...)
	entries = append(entries, schema.LogEntry{Path: "/", Status: "404 NOT FOUND"})

	stats := DailyErrorStats(entries, NewStatusClassifier([]string{"404"}), nil)
	require.Len(t, stats, 2)

	assert.Equal(t, time.Date(2016, 7, 1, 0, 0, 0, 0, time.UTC), stats[0].Day)
	assert.Equal(t, 100, stats[0].TotalRequests)
	assert.Equal(t, 2, stats[0].ErrorRequests)
	assert.Equal(t, 2.0, stats[0].ErrorRate)

	assert.Equal(t, time.Date(2016, 7, 2, 0, 0, 0, 0, time.UTC), stats[1].Day)
	assert.Equal(t, 1.0, stats[1].ErrorRate)
}

func TestDailyErrorStatsTimezone(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	at := time.Date(2016, 7, 2, 2, 0, 0, 0, time.UTC)

	stats := DailyErrorStats(hits("/", "404 NOT FOUND", 1, at), NewStatusClassifier([]string{"404"}), loc)
	require.Len(t, stats, 1)

	y, m, d := stats[0].Day.Date()
	assert.Equal(t, 2016, y)
	assert.Equal(t, time.July, m)
	assert.Equal(t, 1, d)
}

func TestErrorRate(t *testing.T) {
	tests := []struct {
		errors, total int
		want          float64
	}{
		{1, 100, 1.0},
		{2, 100, 2.0},
		{0, 100, 0},
		{0, 0, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{1, 96, 1.0},
		{1, 93, 1.1},
		{5, 5, 100},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.errors, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorRate(tt.errors, tt.total))
		})
	}
}
