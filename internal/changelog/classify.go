package changelog

import "strings"

// rule pairs a predicate with the category it selects. Rules are
// evaluated in order and the first match wins, so priority lives in the
// table rather than in control flow.
type rule struct {
	category Category
	match    func(text string) bool
}

// classifyRules is the ordered rule table. Earlier categories take
// priority when keywords overlap: security and removal signals are
// higher-severity and must not be masked by generic "fix"/"add" hits
// (e.g. "fix vulnerability" classifies as Security, not Fixed).
var classifyRules = []rule{
	{Security, containsAny("security", "vulnerability")},
	{Deprecated, containsAny("deprecate")},
	{Removed, containsAny("remove", "delete")},
	{Fixed, anyOf(hasPrefix("fix:"), containsAny("fix", "bug", "issue"))},
	{Added, anyOf(hasPrefix("feat:"), containsAny("add", "new", "create"))},
	{Changed, hasPrefix("docs:", "style:", "refactor:")},
}

// Classify maps free change-description text (a commit message or a
// manual entry) to a change category. The input is lowercased and tested
// against the ordered rule table; text matching no rule is treated as a
// general change and classified as Changed.
//
// Classify is pure: identical input always yields identical output.
func Classify(text string) Category {
	normalized := strings.ToLower(text)

	for _, r := range classifyRules {
		if r.match(normalized) {
			return r.category
		}
	}

	return Changed
}

// containsAny returns a predicate matching text that contains any of
// the given keywords.
func containsAny(keywords ...string) func(string) bool {
	return func(text string) bool {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}
}

// hasPrefix returns a predicate matching text that starts with any of
// the given conventional-commit prefixes.
func hasPrefix(prefixes ...string) func(string) bool {
	return func(text string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(text, p) {
				return true
			}
		}
		return false
	}
}

// anyOf returns a predicate matching text that satisfies any of the
// given predicates.
func anyOf(preds ...func(string) bool) func(string) bool {
	return func(text string) bool {
		for _, p := range preds {
			if p(text) {
				return true
			}
		}
		return false
	}
}
