package agg

import (
	"sync"

	"github.com/huangsam/newslog/schema"
)

// minEntriesPerWorker keeps small inputs on a single goroutine.
const minEntriesPerWorker = 10_000

// CountArticleViews counts resolved log entries per article slug.
// Articles without views are absent from the result.
func CountArticleViews(entries []schema.LogEntry, r *Resolver) []schema.ArticleViewCount {
	return buildArticleViews(countSlugs(entries, r), r)
}

// CountArticleViewsParallel is CountArticleViews with the entries partitioned
// across workers. Partial counts are merged, so the result is identical.
func CountArticleViewsParallel(entries []schema.LogEntry, r *Resolver, workers int) []schema.ArticleViewCount {
	workers = min(workers, len(entries)/minEntriesPerWorker)
	if workers <= 1 {
		return CountArticleViews(entries, r)
	}

	partials := make([]map[string]int, workers)
	chunk := (len(entries) + workers - 1) / workers
	var wg sync.WaitGroup
	for i := range workers {
		lo := i * chunk
		hi := min(lo+chunk, len(entries))
		wg.Go(func() {
			partials[i] = countSlugs(entries[lo:hi], r)
		})
	}
	wg.Wait()

	merged := make(map[string]int)
	for _, p := range partials {
		for slug, n := range p {
			merged[slug] += n
		}
	}
	return buildArticleViews(merged, r)
}

// countSlugs returns views keyed by article slug.
func countSlugs(entries []schema.LogEntry, r *Resolver) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		if a, ok := r.Resolve(e.Path); ok {
			counts[a.Slug]++
		}
	}
	return counts
}

func buildArticleViews(counts map[string]int, r *Resolver) []schema.ArticleViewCount {
	views := make([]schema.ArticleViewCount, 0, len(counts))
	for slug, n := range counts {
		views = append(views, schema.ArticleViewCount{Article: r.bySlug[slug], Views: n})
	}
	return views
}

// CountAuthorViews sums article views per author. Articles whose author is
// not in authors are dropped, as are authors without views.
func CountAuthorViews(articleViews []schema.ArticleViewCount, authors []schema.Author) []schema.AuthorViewCount {
	byID := make(map[int64]schema.Author, len(authors))
	for _, a := range authors {
		byID[a.ID] = a
	}

	totals := make(map[int64]int)
	for _, av := range articleViews {
		if _, ok := byID[av.Article.AuthorID]; !ok {
			continue
		}
		totals[av.Article.AuthorID] += av.Views
	}

	views := make([]schema.AuthorViewCount, 0, len(totals))
	for id, n := range totals {
		if n == 0 {
			continue
		}
		views = append(views, schema.AuthorViewCount{Author: byID[id], Views: n})
	}
	return views
}
