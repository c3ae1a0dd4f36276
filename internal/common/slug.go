package common

import "strings"

// CompanySlug normalizes a company name into the identifier used as the
// persistence key for its report: lower-cased with spaces replaced by
// underscores. Independent writers and readers must agree on this rule.
func CompanySlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// CompanyFromSlug reverses CompanySlug for display purposes. The original
// casing is lost, so each word is title-cased.
func CompanyFromSlug(slug string) string {
	words := strings.Split(strings.ReplaceAll(slug, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
