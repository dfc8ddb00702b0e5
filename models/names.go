package models

import (
	"regexp"
	"strings"
)

var underscoreRun = regexp.MustCompile(`_+`)

// CollapseUnderscores turns every run of underscores into a single one.
func CollapseUnderscores(s string) string {
	return underscoreRun.ReplaceAllString(s, "_")
}

// MatchesName reports whether value matches a URL-friendly query. The query is collapsed first;
// each underscore in it then stands for exactly one space or underscore in value.
func MatchesName(value, query string) bool {
	q := []rune(CollapseUnderscores(query))
	v := []rune(value)
	if len(q) != len(v) {
		return false
	}
	for i := range q {
		if q[i] == '_' {
			if v[i] != '_' && v[i] != ' ' {
				return false
			}
			continue
		}
		if q[i] != v[i] {
			return false
		}
	}
	return true
}

// LikePattern builds a SQL LIKE pattern (escape character '\') that selects a superset of the
// values MatchesName accepts for query.
func LikePattern(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`)
	return r.Replace(CollapseUnderscores(query))
}

// UniqueNames trims names and drops blanks and duplicates, keeping first-seen order.
func UniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
