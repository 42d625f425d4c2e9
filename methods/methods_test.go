package methods

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/czcorpus/gsbench/cnf"
	"github.com/czcorpus/gsbench/relevance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMethodFactory(t *testing.T) {
	m, err := GetMethod(cnf.MethodConf{Name: "ora", Type: "restapi", URL: "http://localhost"})
	require.NoError(t, err)
	assert.Equal(t, "ora", m.Name())

	m, err = GetMethod(cnf.MethodConf{Name: "gsea", Type: "extcmd", Command: "run-gsea.sh"})
	require.NoError(t, err)
	assert.Equal(t, "gsea", m.Name())

	m, err = GetMethod(cnf.MethodConf{Name: "pgsea", Type: "precomputed", Dir: "/tmp"})
	require.NoError(t, err)
	assert.Equal(t, "pgsea", m.Name())

	_, err = GetMethod(cnf.MethodConf{Name: "x", Type: "telepathy"})
	assert.ErrorIs(t, err, ErrNoSuchMethod)
}

func TestRESTMethodRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/rank/GSE1297", req.URL.Path)
		assert.Equal(t, "/data/gse1297.rds", req.URL.Query().Get("path"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"geneSet":"GS2","stat":0.001},{"geneSet":"GS1","stat":0.04}]`))
	}))
	defer srv.Close()

	m := NewRESTMethod("ora", srv.URL, relevance.StatPValue)
	ranking, err := m.Run(context.Background(), cnf.DatasetConf{
		ID:   "GSE1297",
		Path: "/data/gse1297.rds",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"GS2", "GS1"}, ranking.IDs())
	assert.Equal(t, relevance.StatPValue, ranking.Kind)
}

func TestRESTMethodRunServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := NewRESTMethod("ora", srv.URL, relevance.StatPValue)
	_, err := m.Run(context.Background(), cnf.DatasetConf{ID: "GSE1297"})
	assert.Error(t, err)
}

func TestRESTMethodEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	m := NewRESTMethod("ora", srv.URL, relevance.StatPValue)
	_, err := m.Run(context.Background(), cnf.DatasetConf{ID: "GSE1297"})
	assert.ErrorIs(t, err, relevance.ErrEmptyRanking)
}

func TestPrecomputedMethodRun(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(
		filepath.Join(tmpDir, "GSE1297.tsv"),
		[]byte("GS1\t0.04\nGS2\t0.001\n"),
		0644,
	)
	require.NoError(t, err)

	m := NewPrecomputedMethod("pgsea", tmpDir, relevance.StatPValue)
	ranking, err := m.Run(context.Background(), cnf.DatasetConf{ID: "GSE1297"})
	require.NoError(t, err)
	// adapter re-sorts by the declared statistic
	assert.Equal(t, []string{"GS2", "GS1"}, ranking.IDs())
}

func TestPrecomputedMethodMissingFile(t *testing.T) {
	m := NewPrecomputedMethod("pgsea", t.TempDir(), relevance.StatPValue)
	_, err := m.Run(context.Background(), cnf.DatasetConf{ID: "GSE0000"})
	assert.Error(t, err)
}

func TestExtCmdMethodRun(t *testing.T) {
	tmpDir := t.TempDir()
	script := filepath.Join(tmpDir, "fake-method.sh")
	err := os.WriteFile(script, []byte(
		"#!/bin/sh\nprintf 'GS1\\t0.01\\nGS2\\t0.5\\n'\n"), 0755)
	require.NoError(t, err)

	m := NewExtCmdMethod("camera", script, nil, relevance.StatPValue)
	ranking, err := m.Run(context.Background(), cnf.DatasetConf{ID: "GSE1297", Path: "/dev/null"})
	require.NoError(t, err)
	assert.Equal(t, []string{"GS1", "GS2"}, ranking.IDs())
}

func TestExtCmdMethodFailure(t *testing.T) {
	m := NewExtCmdMethod("camera", "/nonexistent/binary", nil, relevance.StatPValue)
	_, err := m.Run(context.Background(), cnf.DatasetConf{ID: "GSE1297"})
	assert.Error(t, err)
}
