package dataimport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/czcorpus/gsbench/relevance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDiseaseMap(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "dsmap.tsv")
	err := os.WriteFile(path, []byte(
		"# dataset\tdisease\n"+
			"GSE1297\tALL\n"+
			"GSE6891;AML\n"+
			"\n"+
			"GSE14924\tC50\n",
	), 0644)
	require.NoError(t, err)

	dm, err := ReadDiseaseMap(path)
	require.NoError(t, err)
	assert.Equal(t, 3, len(dm))
	assert.Equal(t, "ALL", dm["GSE1297"])
	assert.Equal(t, "AML", dm["GSE6891"])
	assert.Equal(t, "C50", dm["GSE14924"])
}

func TestReadDiseaseMapInvalidLine(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "dsmap.tsv")
	err := os.WriteFile(path, []byte("GSE1297\n"), 0644)
	require.NoError(t, err)
	_, err = ReadDiseaseMap(path)
	assert.Error(t, err)
}

func TestReadRelevanceRanking(t *testing.T) {
	src := strings.NewReader("GS1\t10\nGS2\t2.5\n")
	rr, err := ReadRelevanceRanking("C50", src)
	require.NoError(t, err)
	assert.Equal(t, "C50", rr.DiseaseCode)
	assert.Equal(t, 2, rr.Size())
	v, ok := rr.Score("GS2")
	require.True(t, ok)
	assert.Equal(t, 2.5, v)
}

func TestReadRelevanceRankingNegativeScore(t *testing.T) {
	src := strings.NewReader("GS1\t-1\n")
	_, err := ReadRelevanceRanking("C50", src)
	assert.ErrorIs(t, err, relevance.ErrNegativeRelevance)
}

func TestReadRelevanceCatalog(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpDir, "C50.tsv"), []byte("GS1\t10\n"), 0644))
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpDir, "ALL.tsv"), []byte("GS1\t3\nGS2\t1\n"), 0644))
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpDir, "README.md"), []byte("ignored"), 0644))

	cat, err := ReadRelevanceCatalog(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Size())
	assert.Equal(t, []string{"ALL", "C50"}, cat.DiseaseCodes())
}

func TestInstallRelevanceRanking(t *testing.T) {
	tmpDir := t.TempDir()
	srcPath := filepath.Join(tmpDir, "upload.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte("GS1\t10\nGS2\t2\n"), 0644))
	catDir := filepath.Join(tmpDir, "relevance")

	rr, err := InstallRelevanceRanking(srcPath, catDir, "C50")
	require.NoError(t, err)
	assert.Equal(t, 2, rr.Size())

	cat, err := ReadRelevanceCatalog(catDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"C50"}, cat.DiseaseCodes())
}

func TestInstallRelevanceRankingInvalidTable(t *testing.T) {
	tmpDir := t.TempDir()
	srcPath := filepath.Join(tmpDir, "upload.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte("GS1\tnot-a-number\n"), 0644))
	catDir := filepath.Join(tmpDir, "relevance")

	_, err := InstallRelevanceRanking(srcPath, catDir, "C50")
	assert.Error(t, err)
	_, err = os.Stat(filepath.Join(catDir, "C50.tsv"))
	assert.True(t, os.IsNotExist(err))
}

func TestInstallDiseaseMap(t *testing.T) {
	tmpDir := t.TempDir()
	srcPath := filepath.Join(tmpDir, "upload.tsv")
	require.NoError(t, os.WriteFile(srcPath, []byte("GSE1297\tALL\n"), 0644))
	dstPath := filepath.Join(tmpDir, "data", "dsmap.tsv")

	dm, err := InstallDiseaseMap(srcPath, dstPath)
	require.NoError(t, err)
	assert.Equal(t, "ALL", dm["GSE1297"])

	dm2, err := ReadDiseaseMap(dstPath)
	require.NoError(t, err)
	assert.Equal(t, dm, dm2)
}

func TestReadRanking(t *testing.T) {
	src := strings.NewReader("GS2\t0.001\nGS1\t0.04\nGS9\t0.77\n")
	ranking, err := ReadRanking(src, relevance.StatPValue)
	require.NoError(t, err)
	assert.Equal(t, []string{"GS2", "GS1", "GS9"}, ranking.IDs())
	assert.Equal(t, relevance.StatPValue, ranking.Kind)
}

func TestReadRankingEmpty(t *testing.T) {
	_, err := ReadRanking(strings.NewReader("# nothing here\n"), relevance.StatPValue)
	assert.ErrorIs(t, err, relevance.ErrEmptyRanking)
}
