package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRanking(t *testing.T, scores map[string]float64) Ranking {
	rr, err := NewRanking("C50", scores)
	require.NoError(t, err)
	return rr
}

func TestEvalRelevanceLinearWeights(t *testing.T) {
	rel := testRanking(t, map[string]float64{"GS1": 10, "GS2": 2})
	ranking := GeneSetRanking{
		Entries: []RankedSet{{ID: "GS1", Stat: 0.01}, {ID: "GS2", Stat: 0.5}},
		Kind:    StatPValue,
	}
	score, err := EvalRelevance(ranking, rel)
	require.NoError(t, err)
	// weight(1)=2, weight(2)=1 for n=2
	assert.Equal(t, 22.0, score)
}

func TestEvalRelevanceUncoveredSetsSkipped(t *testing.T) {
	rel := testRanking(t, map[string]float64{"GS1": 10})
	ranking := RankingFromIDs([]string{"GS3"})
	score, err := EvalRelevance(ranking, rel)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestEvalRelevanceEmptyRanking(t *testing.T) {
	rel := testRanking(t, map[string]float64{"GS1": 10})
	_, err := EvalRelevance(GeneSetRanking{}, rel)
	assert.ErrorIs(t, err, ErrEmptyRanking)
}

func TestEvalRelevanceIsPure(t *testing.T) {
	rel := testRanking(t, map[string]float64{"GS1": 3, "GS2": 7, "GS4": 0.5})
	ranking := RankingFromIDs([]string{"GS2", "GS4", "GS1", "GS9"})
	s1, err := EvalRelevance(ranking, rel)
	require.NoError(t, err)
	s2, err := EvalRelevance(ranking, rel)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

func TestEvalRelevanceMonotoneUnderImprovingSwap(t *testing.T) {
	rel := testRanking(t, map[string]float64{"GS1": 10, "GS2": 2, "GS3": 5})
	worse := RankingFromIDs([]string{"GS2", "GS3", "GS1"})
	better := RankingFromIDs([]string{"GS1", "GS3", "GS2"})
	sWorse, err := EvalRelevance(worse, rel)
	require.NoError(t, err)
	sBetter, err := EvalRelevance(better, rel)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sBetter, sWorse)
}

func TestCompOptMatchesAlreadyOptimalRanking(t *testing.T) {
	rel := testRanking(t, map[string]float64{"GS1": 10, "GS2": 2})
	opt, err := CompOpt(rel, []string{"GS1", "GS2"})
	require.NoError(t, err)
	assert.Equal(t, 22.0, opt)

	observed, err := EvalRelevance(
		RankingFromIDs([]string{"GS1", "GS2"}), rel)
	require.NoError(t, err)
	assert.Equal(t, 1.0, observed/opt)
}

func TestCompOptIsUpperBound(t *testing.T) {
	rel := testRanking(t, map[string]float64{"GS1": 4, "GS2": 9, "GS3": 1})
	candidates := []string{"GS1", "GS2", "GS3", "GS4", "GS5"}
	opt, err := CompOpt(rel, candidates)
	require.NoError(t, err)

	permutations := [][]string{
		{"GS1", "GS2", "GS3", "GS4", "GS5"},
		{"GS5", "GS4", "GS3", "GS2", "GS1"},
		{"GS3", "GS1", "GS5", "GS2", "GS4"},
		{"GS2", "GS1", "GS3", "GS5", "GS4"},
	}
	for _, perm := range permutations {
		score, err := EvalRelevance(RankingFromIDs(perm), rel)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, opt, score)
		assert.GreaterOrEqual(t, score, 0.0)
	}
}

func TestCompOptUncoveredCandidatesTakeWorstPositions(t *testing.T) {
	rel := testRanking(t, map[string]float64{"GS2": 5})
	// GS1 and GS3 carry no evidence; optimum puts GS2 first (weight 3)
	opt, err := CompOpt(rel, []string{"GS1", "GS2", "GS3"})
	require.NoError(t, err)
	assert.Equal(t, 15.0, opt)
}

func TestCompOptEmptyCandidates(t *testing.T) {
	rel := testRanking(t, map[string]float64{"GS1": 1})
	_, err := CompOpt(rel, []string{})
	assert.ErrorIs(t, err, ErrEmptyRanking)
}
