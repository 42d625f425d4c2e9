package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRankingRejectsNegativeScores(t *testing.T) {
	_, err := NewRanking("C50", map[string]float64{"GS1": -0.5})
	assert.ErrorIs(t, err, ErrNegativeRelevance)
}

func TestRankingOrderedIDs(t *testing.T) {
	rr, err := NewRanking("C50", map[string]float64{
		"GS1": 2, "GS2": 10, "GS3": 2, "GS4": 7,
	})
	require.NoError(t, err)
	// descending score, identifier order on ties
	assert.Equal(t, []string{"GS2", "GS4", "GS1", "GS3"}, rr.OrderedIDs())
}

func TestCatalogByDisease(t *testing.T) {
	cat := NewCatalog()
	rr, err := NewRanking("C50", map[string]float64{"GS1": 1})
	require.NoError(t, err)
	cat.Add(rr)

	found, err := cat.ByDisease("C50")
	require.NoError(t, err)
	assert.Equal(t, "C50", found.DiseaseCode)

	_, err = cat.ByDisease("C51")
	assert.ErrorIs(t, err, ErrUnknownDiseaseCode)
	// the closest known code is part of the message
	assert.Contains(t, err.Error(), "C50")
}

func TestCatalogByDataset(t *testing.T) {
	cat := NewCatalog()
	rr, err := NewRanking("ALL", map[string]float64{"GS1": 1})
	require.NoError(t, err)
	cat.Add(rr)
	dm := DiseaseMap{"GSE1297": "ALL"}

	found, err := cat.ByDataset("GSE1297", dm)
	require.NoError(t, err)
	assert.Equal(t, "ALL", found.DiseaseCode)

	_, err = cat.ByDataset("GSE9999", dm)
	assert.ErrorIs(t, err, ErrUnknownDataset)
}

func TestWeightsStrictlyDecreasing(t *testing.T) {
	w, err := Weights(5)
	require.NoError(t, err)
	assert.Equal(t, 5, len(w))
	assert.Equal(t, 5.0, w[0])
	for i := 1; i < len(w); i++ {
		assert.Less(t, w[i], w[i-1])
		assert.GreaterOrEqual(t, w[i], 0.0)
	}
}

func TestWeightsEmpty(t *testing.T) {
	_, err := Weights(0)
	assert.ErrorIs(t, err, ErrEmptyRanking)
}

func TestRankingSorted(t *testing.T) {
	pvals := GeneSetRanking{
		Entries: []RankedSet{
			{ID: "GS1", Stat: 0.2},
			{ID: "GS2", Stat: 0.01},
			{ID: "GS3", Stat: 0.2},
		},
		Kind: StatPValue,
	}
	assert.Equal(t, []string{"GS2", "GS1", "GS3"}, pvals.Sorted().IDs())

	scores := GeneSetRanking{
		Entries: []RankedSet{
			{ID: "GS1", Stat: 1.4},
			{ID: "GS2", Stat: 9.1},
		},
		Kind: StatScore,
	}
	assert.Equal(t, []string{"GS2", "GS1"}, scores.Sorted().IDs())
}
