package dataimport

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/czcorpus/gsbench/relevance"
	"github.com/rs/zerolog/log"
)

// ReadRelevanceRanking loads a single curated relevance table
// (gene set identifier, relevance score) for the given disease code.
func ReadRelevanceRanking(diseaseCode string, src io.Reader) (relevance.Ranking, error) {
	scores := make(map[string]float64)
	scnr := bufio.NewScanner(src)
	var lineNum int
	for scnr.Scan() {
		lineNum++
		if skipLine(scnr.Text()) {
			continue
		}
		tmp := splitColumns(scnr.Text())
		if len(tmp) < 2 {
			return relevance.Ranking{}, fmt.Errorf(
				"failed to read relevance table for %s: invalid line %d", diseaseCode, lineNum)
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(tmp[1]), 64)
		if err != nil {
			return relevance.Ranking{}, fmt.Errorf(
				"failed to read relevance table for %s (line %d): %w", diseaseCode, lineNum, err)
		}
		scores[strings.TrimSpace(tmp[0])] = score
	}
	if err := scnr.Err(); err != nil {
		return relevance.Ranking{}, fmt.Errorf(
			"failed to read relevance table for %s: %w", diseaseCode, err)
	}
	return relevance.NewRanking(diseaseCode, scores)
}

// ReadRelevanceCatalog loads all relevance tables found in a directory.
// Each file name (without extension) is taken as the disease code,
// e.g. C50.tsv provides the ranking for code C50.
func ReadRelevanceCatalog(dirPath string) (*relevance.Catalog, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read relevance catalog: %w", err)
	}
	cat := relevance.NewCatalog()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".tsv" && ext != ".csv" && ext != ".txt" {
			continue
		}
		code := entry.Name()[:len(entry.Name())-len(ext)]
		fr, err := os.Open(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read relevance catalog: %w", err)
		}
		rr, err := ReadRelevanceRanking(code, fr)
		fr.Close()
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("diseaseCode", code).
			Int("numGeneSets", rr.Size()).
			Msg("loaded relevance ranking")
		cat.Add(rr)
	}
	if cat.Size() == 0 {
		log.Warn().Str("dir", dirPath).Msg("relevance catalog directory contains no tables")
	}
	return cat, nil
}
