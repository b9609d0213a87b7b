// Package agg has aggregation logic for access log data.
package agg

import "github.com/huangsam/newslog/schema"

// SlugFromPath returns everything after the first len(prefix) bytes of path.
// Only the prefix length matters, so "/article/foo" and "/xxxxxxx/foo" both
// yield "foo". Paths no longer than the prefix have no slug.
func SlugFromPath(path, prefix string) (string, bool) {
	if len(path) <= len(prefix) {
		return "", false
	}
	return path[len(prefix):], true
}

// Resolver maps request paths to articles by exact slug match.
type Resolver struct {
	prefix string
	bySlug map[string]schema.Article
}

// NewResolver indexes articles by slug. Empty slugs are not indexed.
func NewResolver(articles []schema.Article, prefix string) *Resolver {
	bySlug := make(map[string]schema.Article, len(articles))
	for _, a := range articles {
		if a.Slug == "" {
			continue
		}
		bySlug[a.Slug] = a
	}
	return &Resolver{prefix: prefix, bySlug: bySlug}
}

// Resolve returns the article a request path refers to, if any.
func (r *Resolver) Resolve(path string) (schema.Article, bool) {
	slug, ok := SlugFromPath(path, r.prefix)
	if !ok {
		return schema.Article{}, false
	}
	a, ok := r.bySlug[slug]
	return a, ok
}
