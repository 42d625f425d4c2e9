package dataimport

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/czcorpus/gsbench/relevance"
	"github.com/rs/zerolog/log"
)

// InstallRelevanceRanking validates a curated relevance table and copies
// it into the catalog directory as <diseaseCode>.tsv, where the catalog
// loader picks it up. An existing table for the code is overwritten.
func InstallRelevanceRanking(srcPath, dirPath, diseaseCode string) (relevance.Ranking, error) {
	fr, err := os.Open(srcPath)
	if err != nil {
		return relevance.Ranking{}, fmt.Errorf("failed to import relevance table: %w", err)
	}
	rr, err := ReadRelevanceRanking(diseaseCode, fr)
	fr.Close()
	if err != nil {
		return relevance.Ranking{}, fmt.Errorf("failed to import relevance table: %w", err)
	}
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return relevance.Ranking{}, fmt.Errorf("failed to import relevance table: %w", err)
	}
	rawData, err := os.ReadFile(srcPath)
	if err != nil {
		return relevance.Ranking{}, fmt.Errorf("failed to import relevance table: %w", err)
	}
	dst := filepath.Join(dirPath, diseaseCode+".tsv")
	if err := os.WriteFile(dst, rawData, 0644); err != nil {
		return relevance.Ranking{}, fmt.Errorf("failed to import relevance table: %w", err)
	}
	log.Info().
		Str("diseaseCode", diseaseCode).
		Int("numGeneSets", rr.Size()).
		Str("path", dst).
		Msg("installed relevance ranking")
	return rr, nil
}

// InstallDiseaseMap validates a dataset-to-disease mapping file and
// copies it to the configured disease map path.
func InstallDiseaseMap(srcPath, dstPath string) (relevance.DiseaseMap, error) {
	dm, err := ReadDiseaseMap(srcPath)
	if err != nil {
		return nil, fmt.Errorf("failed to import disease map: %w", err)
	}
	rawData, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("failed to import disease map: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to import disease map: %w", err)
	}
	if err := os.WriteFile(dstPath, rawData, 0644); err != nil {
		return nil, fmt.Errorf("failed to import disease map: %w", err)
	}
	log.Info().
		Int("numDatasets", len(dm)).
		Str("path", dstPath).
		Msg("installed disease map")
	return dm, nil
}
