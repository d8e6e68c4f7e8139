package expand

import "strings"

// DefaultMaxVariants bounds downstream search fan-out.
const DefaultMaxVariants = 3

// ExpandedQuery is the Expander output: the normalized original query, a
// bounded set of alternative phrasings, and the tokens that triggered them.
type ExpandedQuery struct {
	Original     string   `json:"original"`
	Variants     []string `json:"variants"`
	MatchedTerms []string `json:"matchedTerms"`
}

// Expander produces alternative phrasings from a domain synonym table.
// It holds no mutable state and never fails: a query with no matches
// yields an empty variant set.
type Expander struct {
	maxVariants int
}

// New creates an expander. maxVariants <= 0 falls back to DefaultMaxVariants.
func New(maxVariants int) *Expander {
	if maxVariants <= 0 {
		maxVariants = DefaultMaxVariants
	}
	return &Expander{maxVariants: maxVariants}
}

// Expand lower-cases and tokenizes the query, substitutes one synonym at a
// time for every matched token, appends category-hint variants for detected
// keyword families, deduplicates, and caps the variant count.
func (e *Expander) Expand(query string) ExpandedQuery {
	normalized := strings.ToLower(strings.TrimSpace(query))
	tokens := strings.Fields(normalized)

	var variants []string
	var matched []string
	seen := map[string]bool{normalized: true}

	for i, tok := range tokens {
		syns, ok := synonyms[tok]
		if !ok {
			continue
		}
		matched = append(matched, tok)
		for _, syn := range syns {
			alt := make([]string, len(tokens))
			copy(alt, tokens)
			alt[i] = syn
			variant := strings.Join(alt, " ")
			if !seen[variant] {
				seen[variant] = true
				variants = append(variants, variant)
			}
		}
	}

	for _, tok := range tokens {
		hint, ok := categoryHints[tok]
		if !ok {
			continue
		}
		if !containsTerm(matched, tok) {
			matched = append(matched, tok)
		}
		variant := normalized + " " + hint
		if !seen[variant] {
			seen[variant] = true
			variants = append(variants, variant)
		}
	}

	if len(variants) > e.maxVariants {
		variants = variants[:e.maxVariants]
	}

	return ExpandedQuery{
		Original:     normalized,
		Variants:     variants,
		MatchedTerms: matched,
	}
}

func containsTerm(terms []string, t string) bool {
	for _, x := range terms {
		if x == t {
			return true
		}
	}
	return false
}
