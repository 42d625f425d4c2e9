// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
// Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stats

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

type Database struct {
	db *sql.DB
	tx *sql.Tx
}

func (database *Database) createBenchmarkResultTable() error {
	_, err := database.db.Exec(
		"CREATE TABLE benchmark_result (" +
			"method TEXT NOT NULL, " +
			"dataset TEXT NOT NULL, " +
			"diseaseCode TEXT NOT NULL, " +
			"datetime INTEGER NOT NULL, " +
			"runtime FLOAT NOT NULL, " +
			"sigFraction FLOAT NOT NULL, " +
			"relevance FLOAT NOT NULL, " +
			"optRelevance FLOAT NOT NULL, " +
			"normalized FLOAT NOT NULL, " +
			"pValue FLOAT NOT NULL, " +
			"permutations INTEGER NOT NULL, " +
			"PRIMARY KEY (method, dataset)" +
			")",
	)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	log.Info().Msg("created table `benchmark_result`")
	return nil
}

func (database *Database) createExclusionTable() error {
	_, err := database.db.Exec(
		"CREATE TABLE exclusion (" +
			"method TEXT NOT NULL, " +
			"dataset TEXT NOT NULL, " +
			"reason TEXT NOT NULL, " +
			"datetime INTEGER NOT NULL, " +
			"PRIMARY KEY (method, dataset)" +
			")",
	)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	log.Info().Msg("created table `exclusion`")
	return nil
}

func (database *Database) tableExists(tn string) (bool, error) {
	ans := database.db.QueryRow(
		fmt.Sprintf("SELECT name FROM sqlite_master WHERE type='table' AND name='%s'", tn))
	var nm sql.NullString
	err := ans.Scan(&nm)
	if err == sql.ErrNoRows {
		return false, nil

	} else if err != nil {
		return false, fmt.Errorf("failed to determine existence of table %s: %w", tn, err)
	}
	return true, nil
}

func (database *Database) Init() error {
	ex, err := database.tableExists("benchmark_result")
	if err != nil {
		return fmt.Errorf("failed to init table benchmark_result: %w", err)
	}
	if ex {
		log.Info().Str("table", "benchmark_result").Msg("table already exists")

	} else {
		if err := database.createBenchmarkResultTable(); err != nil {
			return fmt.Errorf("failed to create table benchmark_result: %w", err)
		}
	}

	ex, err = database.tableExists("exclusion")
	if err != nil {
		return fmt.Errorf("failed to init table exclusion: %w", err)
	}
	if ex {
		log.Info().Str("table", "exclusion").Msg("table already exists")

	} else {
		if err := database.createExclusionTable(); err != nil {
			return fmt.Errorf("failed to create table exclusion: %w", err)
		}
	}

	return nil
}

// AddResult inserts or overwrites the benchmark outcome of
// a (method, dataset) pair. A previous exclusion record of the same
// pair is removed as the pair evidently became scorable.
func (database *Database) AddResult(rec BenchmarkResult) error {
	tx, err := database.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to add benchmark result: %w", err)
	}
	_, err = tx.Exec(
		"INSERT OR REPLACE INTO benchmark_result "+
			"(method, dataset, diseaseCode, datetime, runtime, sigFraction, "+
			"relevance, optRelevance, normalized, pValue, permutations) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		rec.Method,
		rec.Dataset,
		rec.DiseaseCode,
		rec.Datetime,
		rec.Runtime,
		rec.SigFraction,
		rec.Relevance,
		rec.OptRelevance,
		rec.Normalized,
		rec.PValue,
		rec.Permutations,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to add benchmark result: %w", err)
	}
	_, err = tx.Exec(
		"DELETE FROM exclusion WHERE method = ? AND dataset = ?",
		rec.Method, rec.Dataset,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to add benchmark result: %w", err)
	}
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to add benchmark result: %w", err)
	}
	return nil
}

// AddExclusion records a pair which could not be scored.
func (database *Database) AddExclusion(rec ExclusionRecord) error {
	_, err := database.db.Exec(
		"INSERT OR REPLACE INTO exclusion (method, dataset, reason, datetime) "+
			"VALUES (?, ?, ?, ?)",
		rec.Method,
		rec.Dataset,
		rec.Reason,
		rec.Datetime,
	)
	if err != nil {
		return fmt.Errorf("failed to add exclusion: %w", err)
	}
	return nil
}

// GetResults loads stored benchmark outcomes, optionally restricted
// by method and/or dataset.
func (database *Database) GetResults(filter ListFilter) ([]BenchmarkResult, error) {
	query := "SELECT method, dataset, diseaseCode, datetime, runtime, sigFraction, " +
		"relevance, optRelevance, normalized, pValue, permutations " +
		"FROM benchmark_result WHERE %s ORDER BY method, dataset"
	whereChunks := make([]string, 0, 3)
	whereChunks = append(whereChunks, "1 = 1")
	args := make([]any, 0, 2)
	if filter.Method != nil {
		whereChunks = append(whereChunks, "method = ?")
		args = append(args, *filter.Method)
	}
	if filter.Dataset != nil {
		whereChunks = append(whereChunks, "dataset = ?")
		args = append(args, *filter.Dataset)
	}
	rows, err := database.db.Query(
		fmt.Sprintf(query, strings.Join(whereChunks, " AND ")), args...)
	if err != nil {
		return []BenchmarkResult{}, fmt.Errorf("failed to fetch results: %w", err)
	}
	ans := make([]BenchmarkResult, 0, 50)
	for rows.Next() {
		var rec BenchmarkResult
		err := rows.Scan(
			&rec.Method,
			&rec.Dataset,
			&rec.DiseaseCode,
			&rec.Datetime,
			&rec.Runtime,
			&rec.SigFraction,
			&rec.Relevance,
			&rec.OptRelevance,
			&rec.Normalized,
			&rec.PValue,
			&rec.Permutations,
		)
		if err != nil {
			return []BenchmarkResult{}, fmt.Errorf("failed to fetch results: %w", err)
		}
		ans = append(ans, rec)
	}
	return ans, nil
}

func (database *Database) GetExclusions() ([]ExclusionRecord, error) {
	rows, err := database.db.Query(
		"SELECT method, dataset, reason, datetime FROM exclusion ORDER BY method, dataset")
	if err != nil {
		return []ExclusionRecord{}, fmt.Errorf("failed to fetch exclusions: %w", err)
	}
	ans := make([]ExclusionRecord, 0, 10)
	for rows.Next() {
		var rec ExclusionRecord
		err := rows.Scan(&rec.Method, &rec.Dataset, &rec.Reason, &rec.Datetime)
		if err != nil {
			return []ExclusionRecord{}, fmt.Errorf("failed to fetch exclusions: %w", err)
		}
		ans = append(ans, rec)
	}
	return ans, nil
}

// GetMethodAvgRuntime returns the average benchmarked runtime of
// a method across all its datasets (-1 if nothing is stored yet).
func (database *Database) GetMethodAvgRuntime(method string) (float64, error) {
	row := database.db.QueryRow(
		"SELECT AVG(runtime) FROM benchmark_result WHERE method = ?", method)
	var ans sql.NullFloat64
	if err := row.Scan(&ans); err != nil {
		return -1, err
	}
	if ans.Valid {
		return ans.Float64, nil
	}
	return -1, nil
}

func (database *Database) StartTx() error {
	if database.tx != nil {
		panic("a transaction is already running")
	}
	var err error
	database.tx, err = database.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	return nil
}

func (database *Database) CommitTx() error {
	if database.tx == nil {
		panic("no transaction running")
	}
	err := database.tx.Commit()
	database.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (database *Database) RollbackTx() error {
	if database.tx == nil {
		panic("no transaction running")
	}
	err := database.tx.Rollback()
	database.tx = nil
	if err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func NewDatabase(path string) (*Database, error) {
	dbConn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}
	return &Database{db: dbConn}, nil
}

// NowUnix is a shorthand used when creating records.
func NowUnix() int64 {
	return time.Now().Unix()
}
