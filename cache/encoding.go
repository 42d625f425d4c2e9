package cache

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/czcorpus/gsbench/relevance"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	RankingPrefix byte = 0x00 // serialized gene set rankings
	AuxDataPrefix byte = 0x01 // auxiliary data (timestamps etc.)

	keySeparator byte = 0x1f
)

func encodeRankingKey(method, dataset string) []byte {
	key := make([]byte, 0, 2+len(method)+len(dataset))
	key = append(key, RankingPrefix)
	key = append(key, []byte(method)...)
	key = append(key, keySeparator)
	key = append(key, []byte(dataset)...)
	return key
}

func encodeAuxKey(name string) []byte {
	key := make([]byte, 1+len(name))
	key[0] = AuxDataPrefix
	copy(key[1:], []byte(name))
	return key
}

func encodeRanking(ranking relevance.GeneSetRanking) ([]byte, error) {
	data, err := msgpack.Marshal(ranking)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ranking: %w", err)
	}
	return data, nil
}

func decodeRanking(data []byte) (relevance.GeneSetRanking, error) {
	var ans relevance.GeneSetRanking
	if err := msgpack.Unmarshal(data, &ans); err != nil {
		return relevance.GeneSetRanking{}, fmt.Errorf("failed to decode ranking: %w", err)
	}
	return ans, nil
}

func encodeTime(t time.Time) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(t.UTC().Unix()))
	return buf
}

func decodeTime(data []byte) (time.Time, error) {
	if len(data) != 8 {
		return time.Time{}, fmt.Errorf("invalid byte slice length: expected 8, got %d", len(data))
	}
	return time.Unix(int64(binary.BigEndian.Uint64(data)), 0).UTC(), nil
}
