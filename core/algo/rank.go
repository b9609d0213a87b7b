// Package algo has ranking and filtering logic for aggregated counts.
package algo

import (
	"cmp"
	"slices"
	"strings"

	"github.com/huangsam/newslog/schema"
)

// RankArticles sorts articles by views in descending order and returns the
// top 'limit' entries. Ties are broken by title, then slug, both ascending,
// so the order is total. A limit <= 0 returns every article.
func RankArticles(views []schema.ArticleViewCount, limit int) []schema.ArticleViewCount {
	ranked := slices.Clone(views)
	slices.SortFunc(ranked, func(a, b schema.ArticleViewCount) int {
		return cmp.Or(
			cmp.Compare(b.Views, a.Views),
			strings.Compare(a.Article.Title, b.Article.Title),
			strings.Compare(a.Article.Slug, b.Article.Slug),
		)
	})
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}

// RankAuthors sorts authors by views in descending order. Ties are broken by
// name, then id, both ascending. Nothing is truncated.
func RankAuthors(views []schema.AuthorViewCount) []schema.AuthorViewCount {
	ranked := slices.Clone(views)
	slices.SortFunc(ranked, func(a, b schema.AuthorViewCount) int {
		return cmp.Or(
			cmp.Compare(b.Views, a.Views),
			strings.Compare(a.Author.Name, b.Author.Name),
			cmp.Compare(a.Author.ID, b.Author.ID),
		)
	})
	return ranked
}

// FilterErrorDays keeps days whose error rate strictly exceeds threshold,
// preserving the input order.
func FilterErrorDays(stats []schema.DailyErrorStat, threshold float64) []schema.DailyErrorStat {
	kept := make([]schema.DailyErrorStat, 0, len(stats))
	for _, s := range stats {
		if s.TotalRequests > 0 && s.ErrorRate > threshold {
			kept = append(kept, s)
		}
	}
	return kept
}
