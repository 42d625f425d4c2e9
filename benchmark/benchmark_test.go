package benchmark

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/czcorpus/gsbench/cache"
	"github.com/czcorpus/gsbench/cnf"
	"github.com/czcorpus/gsbench/relevance"
	"github.com/czcorpus/gsbench/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExecutor(t *testing.T, conf *cnf.Conf) (*Executor, *stats.Database) {
	statsDB, err := stats.NewDatabase(filepath.Join(t.TempDir(), "results.sqlite"))
	require.NoError(t, err)
	require.NoError(t, statsDB.Init())

	cacheDB, err := cache.OpenDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { cacheDB.Close() })

	cat := relevance.NewCatalog()
	rr, err := relevance.NewRanking("C50", map[string]float64{"GS1": 10, "GS2": 2})
	require.NoError(t, err)
	cat.Add(rr)

	dm := relevance.DiseaseMap{"GSE100": "C50"}
	return NewExecutor(conf, statsDB, cacheDB, cat, dm), statsDB
}

func writeRankingTable(t *testing.T, dir, dataset, content string) {
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, dataset+".tsv"), []byte(content), 0644))
}

func TestRunFullWithPrecomputedMethod(t *testing.T) {
	rankingsDir := t.TempDir()
	writeRankingTable(t, rankingsDir, "GSE100", "GS1\t0.01\nGS2\t0.5\n")

	conf := &cnf.Conf{
		Methods: []cnf.MethodConf{
			{Name: "ora", Type: "precomputed", Dir: rankingsDir},
		},
		Datasets:              []cnf.DatasetConf{{ID: "GSE100"}},
		Permutations:          100,
		RandomSeed:            42,
		SignificanceThreshold: 0.05,
		MaxNumConcurrentJobs:  2,
	}
	exe, statsDB := testExecutor(t, conf)

	res, err := exe.RunFull(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"GSE100"}, res.Datasets)

	v, ok := res.Value("ora", "GSE100")
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 1e-9)

	stored, err := statsDB.GetResults(stats.ListFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, len(stored))
	rec := stored[0]
	assert.Equal(t, "C50", rec.DiseaseCode)
	assert.InDelta(t, 22.0, rec.Relevance, 1e-9)
	assert.InDelta(t, 22.0, rec.OptRelevance, 1e-9)
	assert.InDelta(t, 1.0, rec.Normalized, 1e-9)
	// GS1 with p=0.01 is the only significant set of the two
	assert.InDelta(t, 0.5, rec.SigFraction, 1e-9)
	assert.Greater(t, rec.PValue, 0.0)
	assert.LessOrEqual(t, rec.PValue, 1.0)
	assert.Equal(t, 100, rec.Permutations)
}

func TestRunFullRecordsExclusions(t *testing.T) {
	rankingsDir := t.TempDir()
	writeRankingTable(t, rankingsDir, "GSE100", "GS1\t0.01\n")
	// GSE777 has no disease mapping, GSE888 has no ranking table

	conf := &cnf.Conf{
		Methods: []cnf.MethodConf{
			{Name: "ora", Type: "precomputed", Dir: rankingsDir},
		},
		Datasets: []cnf.DatasetConf{
			{ID: "GSE100"}, {ID: "GSE777"}, {ID: "GSE888"},
		},
		Permutations:          50,
		RandomSeed:            7,
		SignificanceThreshold: 0.05,
		MaxNumConcurrentJobs:  2,
	}
	exe, statsDB := testExecutor(t, conf)
	exe.diseaseMap["GSE888"] = "C50"

	_, err := exe.RunFull(context.Background(), false)
	require.NoError(t, err)

	stored, err := statsDB.GetResults(stats.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, len(stored))

	excl, err := statsDB.GetExclusions()
	require.NoError(t, err)
	require.Equal(t, 2, len(excl))
	assert.Equal(t, "GSE777", excl[0].Dataset)
	assert.Contains(t, excl[0].Reason, "no mapped disease code")
	assert.Equal(t, "GSE888", excl[1].Dataset)
}

func TestRunFullReproducibleWithSeed(t *testing.T) {
	rankingsDir := t.TempDir()
	writeRankingTable(t, rankingsDir, "GSE100", "GS2\t0.01\nGS1\t0.5\n")

	newConf := func() *cnf.Conf {
		return &cnf.Conf{
			Methods: []cnf.MethodConf{
				{Name: "ora", Type: "precomputed", Dir: rankingsDir},
			},
			Datasets:              []cnf.DatasetConf{{ID: "GSE100"}},
			Permutations:          200,
			RandomSeed:            13,
			SignificanceThreshold: 0.05,
			MaxNumConcurrentJobs:  1,
		}
	}
	exe1, db1 := testExecutor(t, newConf())
	exe2, db2 := testExecutor(t, newConf())

	_, err := exe1.RunFull(context.Background(), false)
	require.NoError(t, err)
	_, err = exe2.RunFull(context.Background(), false)
	require.NoError(t, err)

	res1, err := db1.GetResults(stats.ListFilter{})
	require.NoError(t, err)
	res2, err := db2.GetResults(stats.ListFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, len(res1))
	require.Equal(t, 1, len(res2))
	assert.Equal(t, res1[0].PValue, res2[0].PValue)
}

func TestSigFraction(t *testing.T) {
	ranking := relevance.GeneSetRanking{
		Entries: []relevance.RankedSet{
			{ID: "GS1", Stat: 0.001},
			{ID: "GS2", Stat: 0.04},
			{ID: "GS3", Stat: 0.2},
			{ID: "GS4", Stat: 0.9},
		},
		Kind: relevance.StatPValue,
	}
	assert.InDelta(t, 0.5, sigFraction(ranking, 0.05), 1e-9)

	scoreRanking := relevance.GeneSetRanking{
		Entries: []relevance.RankedSet{{ID: "GS1", Stat: 3.0}},
		Kind:    relevance.StatScore,
	}
	assert.Equal(t, 0.0, sigFraction(scoreRanking, 0.05))
}
