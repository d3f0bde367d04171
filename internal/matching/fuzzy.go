package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"hot100/internal/normalize"
)

// Score returns a 0-100 similarity between a and b after folding case,
// accents and punctuation. Token order and extra tokens on one side are
// tolerated with a small penalty; a short string inside a much longer one is
// scored on its best-aligned window.
func Score(a, b string) int {
	a, b = normalize.Fold(a), normalize.Fold(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	best := float64(ratio(a, b))
	best = math.Max(best, float64(tokenSortRatio(a, b))*0.95)
	best = math.Max(best, float64(tokenSetRatio(a, b))*0.95)

	la, lb := len([]rune(a)), len([]rune(b))
	if float64(max(la, lb))/float64(min(la, lb)) >= 1.5 {
		best = math.Max(best, float64(partialRatio(a, b))*0.9)
	}

	return int(math.Round(best))
}

// BestScore scores target against every non-empty choice and returns the highest
func BestScore(target string, choices ...string) int {
	best := 0
	for _, choice := range choices {
		if strings.TrimSpace(choice) == "" {
			continue
		}
		if s := Score(target, choice); s > best {
			best = s
		}
	}
	return best
}

// ratio is 100 minus the edit distance as a share of the longer string
func ratio(a, b string) int {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * float64(longest-dist) / float64(longest)))
}

func tokenSortRatio(a, b string) int {
	return ratio(sortedTokens(strings.Fields(a)), sortedTokens(strings.Fields(b)))
}

// tokenSetRatio compares the shared tokens against each side's full token set
func tokenSetRatio(a, b string) int {
	setA, setB := tokenSet(a), tokenSet(b)

	var shared, onlyA, onlyB []string
	for tok := range setA {
		if setB[tok] {
			shared = append(shared, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range setB {
		if !setA[tok] {
			onlyB = append(onlyB, tok)
		}
	}

	base := sortedTokens(shared)
	withA := strings.TrimSpace(base + " " + sortedTokens(onlyA))
	withB := strings.TrimSpace(base + " " + sortedTokens(onlyB))

	best := ratio(withA, withB)
	if base != "" {
		best = max(best, ratio(base, withA), ratio(base, withB))
	}
	return best
}

// partialRatio slides the shorter string over the longer one
func partialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}

	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		if r := ratio(string(short), string(long[i:i+len(short)])); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

func sortedTokens(tokens []string) string {
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}
