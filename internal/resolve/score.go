package resolve

import "strings"

// Similarity tiers. A match in a higher tier always outranks any match in a
// lower tier, whatever the finer score inside the band.
const (
	tierPrefix    = 0.75
	tierSubstring = 0.50
	tierTokens    = 0.25
	tierChars     = 0.0
	bandWidth     = 0.25
)

// Score rates how well a candidate display name matches a free-text query.
// Scores fall in [0,1): prefix matches land in [0.75,1), substring matches
// in [0.5,0.75), token-set overlap in [0.25,0.5) and character-set overlap
// in [0,0.25). Case is ignored throughout.
func Score(query, candidate string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	c := strings.ToLower(strings.TrimSpace(candidate))
	if q == "" || c == "" {
		return 0
	}

	if strings.HasPrefix(c, q) {
		return tierPrefix + bandWidth*(float64(len(q))/float64(len(c)))
	}
	if strings.Contains(c, q) {
		return tierSubstring + bandWidth*(float64(len(q))/float64(len(c)))
	}
	if overlap := jaccard(tokenSet(q), tokenSet(c)); overlap > 0 {
		return tierTokens + bandWidth*overlap
	}
	return tierChars + bandWidth*jaccard(charSet(q), charSet(c))
}

// Tier returns which band a score falls into, highest first. Used to assert
// ordering without caring about fine scores.
func Tier(score float64) int {
	switch {
	case score >= tierPrefix:
		return 3
	case score >= tierSubstring:
		return 2
	case score >= tierTokens:
		return 1
	default:
		return 0
	}
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

func charSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, r := range s {
		if r == ' ' {
			continue
		}
		set[string(r)] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
