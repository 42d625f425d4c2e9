package relevance

import (
	"math/rand/v2"
)

// NullDistribution is a sequence of relevance scores obtained from
// randomly reshuffled rankings. The order of values is the generation
// order; it carries no meaning beyond reproducibility of a seeded run.
type NullDistribution []float64

// CompRand estimates the null distribution of EvalRelevance for a given
// relevance ranking and candidate universe. Each iteration draws an
// independent uniformly random permutation of the candidates, treats it
// as a gene set ranking and scores it. The caller provides the random
// source; concurrent callers must not share one (see the benchmark
// executor which seeds one source per dataset).
func CompRand(rel Ranking, candidateIDs []string, permutations int, rng *rand.Rand) (NullDistribution, error) {
	if permutations < 1 {
		return nil, ErrInvalidPermutationCount
	}
	if len(candidateIDs) == 0 {
		return nil, ErrEmptyRanking
	}
	shuffled := make([]string, len(candidateIDs))
	copy(shuffled, candidateIDs)
	ans := make(NullDistribution, 0, permutations)
	for i := 0; i < permutations; i++ {
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		score, err := EvalRelevance(RankingFromIDs(shuffled), rel)
		if err != nil {
			return nil, err
		}
		ans = append(ans, score)
	}
	return ans, nil
}

// PValue derives the empirical p-value of an observed score against the
// null distribution: (count(null >= observed) + 1) / (m + 1). The +1 in
// numerator and denominator is a deliberate conservative correction - it
// keeps the p-value strictly positive even when no random score reaches
// the observed one, which is the proper behavior for a permutation test
// with finitely many permutations.
func (nd NullDistribution) PValue(observed float64) float64 {
	var count int
	for _, v := range nd {
		if v >= observed {
			count++
		}
	}
	return float64(count+1) / float64(len(nd)+1)
}

// Mean returns the average of the null scores.
func (nd NullDistribution) Mean() float64 {
	if len(nd) == 0 {
		return 0
	}
	var total float64
	for _, v := range nd {
		total += v
	}
	return total / float64(len(nd))
}
