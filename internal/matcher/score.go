package matcher

import (
	"strings"
	"unicode"
)

// TokenLCS scores how well needle (the captured log message) matches
// haystack (one candidate source line), per spec.md §4.1: both sides
// are stripped of non-ASCII runes, tokenized on non-alphanumeric
// boundaries, and scored as the sum of character lengths of the
// tokens in their longest common subsequence. Grounded on
// original_source/src/log_search.rs's token_lcs.
func TokenLCS(haystack, needle string) int {
	return lcsScore(tokenize(haystack), tokenize(needle))
}

func tokenize(s string) []string {
	return strings.FieldsFunc(stripNonASCII(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
}

func stripNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// lcsScore is the classic O(n*m) longest-common-subsequence DP,
// weighted so that a match contributes the matched token's length
// instead of 1. The weighting doesn't break the recurrence: the
// optimal-substructure argument for LCS only needs that the value of
// matching a[i-1] with b[j-1] is fixed regardless of path, which
// holds here since the weight depends only on the matched token.
func lcsScore(a, b []string) int {
	n, m := len(a), len(b)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			switch {
			case a[i-1] == b[j-1]:
				dp[i][j] = dp[i-1][j-1] + len(a[i-1])
			case dp[i-1][j] >= dp[i][j-1]:
				dp[i][j] = dp[i-1][j]
			default:
				dp[i][j] = dp[i][j-1]
			}
		}
	}
	return dp[n][m]
}
