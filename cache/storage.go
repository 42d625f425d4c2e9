package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/czcorpus/gsbench/relevance"
	"github.com/dgraph-io/badger/v4"
)

// DB is a wrapper around badger.DB storing enrichment method outputs so
// repeated benchmark runs do not have to invoke the (typically slow)
// external methods again. One entry exists per (method, dataset) pair.
type DB struct {
	bdb *badger.DB
}

// Close closes the internal Badger database.
// It is necessary to perform the close especially
// in cases of data writing.
// It is possible to call the method on nil instance
// or on an uninitialized DB object, in which case
// it is a NOP.
func (db *DB) Close() error {
	if db != nil && db.bdb != nil {
		return db.bdb.Close()
	}
	return nil
}

func (db *DB) Flush() error {
	return db.bdb.DropAll()
}

func (db *DB) Size() (int64, int64) {
	return db.bdb.Size()
}

// StoreRanking saves a method's output for a dataset, overwriting any
// previous entry for the same pair.
func (db *DB) StoreRanking(method, dataset string, ranking relevance.GeneSetRanking) error {
	value, err := encodeRanking(ranking)
	if err != nil {
		return fmt.Errorf("failed to store ranking %s/%s: %w", method, dataset, err)
	}
	err = db.bdb.Update(func(txn *badger.Txn) error {
		return txn.Set(encodeRankingKey(method, dataset), value)
	})
	if err != nil {
		return fmt.Errorf("failed to store ranking %s/%s: %w", method, dataset, err)
	}
	return nil
}

// LoadRanking fetches a cached ranking. The second return value tells
// whether the pair was present at all.
func (db *DB) LoadRanking(method, dataset string) (relevance.GeneSetRanking, bool, error) {
	var ans relevance.GeneSetRanking
	var found bool
	err := db.bdb.View(func(txn *badger.Txn) error {
		item, err := txn.Get(encodeRankingKey(method, dataset))
		if err == badger.ErrKeyNotFound {
			return nil

		} else if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			ranking, decodeErr := decodeRanking(val)
			if decodeErr != nil {
				return decodeErr
			}
			ans = ranking
			found = true
			return nil
		})
	})
	if err != nil {
		return relevance.GeneSetRanking{}, false, fmt.Errorf(
			"failed to load ranking %s/%s: %w", method, dataset, err)
	}
	return ans, found, nil
}

// DeleteRanking removes a cached pair (e.g. to force re-running
// a method on a dataset).
func (db *DB) DeleteRanking(method, dataset string) error {
	return db.bdb.Update(func(txn *badger.Txn) error {
		return txn.Delete(encodeRankingKey(method, dataset))
	})
}

// CachedDatasets lists dataset identifiers with a cached ranking
// for the given method.
func (db *DB) CachedDatasets(method string) ([]string, error) {
	ans := make([]string, 0, 16)
	err := db.bdb.View(func(txn *badger.Txn) error {
		prefix := encodeRankingKey(method, "")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			ans = append(ans, strings.TrimPrefix(string(key), string(prefix)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cached datasets: %w", err)
	}
	return ans, nil
}

func (db *DB) StoreTimestamp(key string, value time.Time) error {
	return db.bdb.Update(func(txn *badger.Txn) error {
		return txn.Set(encodeAuxKey(key), encodeTime(value))
	})
}

func (db *DB) ReadTimestamp(key string) (time.Time, error) {
	var result time.Time
	err := db.bdb.View(func(txn *badger.Txn) error {
		item, err := txn.Get(encodeAuxKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			t, decodeErr := decodeTime(val)
			if decodeErr != nil {
				return decodeErr
			}
			result = t
			return nil
		})
	})
	return result, err
}

func OpenDB(path string) (*DB, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open ranking cache: %w", err)
	}
	return &DB{bdb: db}, nil
}
