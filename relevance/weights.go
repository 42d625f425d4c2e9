package relevance

// Weight maps a 1-based rank position within a ranking of
// size n to its weight. The linear form n-rank+1 is deliberately simple:
// any strictly decreasing non-negative transform would do, but scores
// produced with different transforms are not comparable, so this one is
// fixed for the whole tool.
func Weight(rank, n int) float64 {
	return float64(n - rank + 1)
}

// Weights returns the weight vector for all rank
// positions 1..n of a non-empty ranking.
func Weights(n int) ([]float64, error) {
	if n < 1 {
		return nil, ErrEmptyRanking
	}
	ans := make([]float64, n)
	for i := range ans {
		ans[i] = Weight(i+1, n)
	}
	return ans, nil
}
