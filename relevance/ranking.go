package relevance

import (
	"slices"
)

// StatKind tells how a ranking's statistic orders gene sets.
// Enrichment tools report either p-values (smaller = more enriched)
// or scores (larger = more enriched) and the two must not be mixed
// within a single ranking.
type StatKind int

const (
	// StatPValue - ascending statistic means better rank
	StatPValue StatKind = iota
	// StatScore - descending statistic means better rank
	StatScore
)

func (sk StatKind) String() string {
	if sk == StatScore {
		return "score"
	}
	return "p-value"
}

// RankedSet is a single entry of a gene set ranking - a gene set
// identifier along with the statistic the producing method assigned to it.
// The identifier format is opaque here; we only ever compare it for
// exact equality.
type RankedSet struct {
	ID   string  `json:"id" msgpack:"id"`
	Stat float64 `json:"stat" msgpack:"stat"`
}

// GeneSetRanking is an ordered result of a single enrichment method run
// on a single dataset. Entries[0] is the top-ranked (most enriched) gene
// set. Once produced, a ranking is treated as read-only.
type GeneSetRanking struct {
	Entries []RankedSet `json:"entries" msgpack:"entries"`
	Kind    StatKind    `json:"kind" msgpack:"kind"`
}

func (gsr GeneSetRanking) Size() int {
	return len(gsr.Entries)
}

// IDs returns gene set identifiers in rank order.
func (gsr GeneSetRanking) IDs() []string {
	ans := make([]string, len(gsr.Entries))
	for i, e := range gsr.Entries {
		ans[i] = e.ID
	}
	return ans
}

// Sorted returns a copy of the ranking with entries ordered by their
// statistic according to Kind. The sort is stable so entries with equal
// statistics keep their original mutual order.
func (gsr GeneSetRanking) Sorted() GeneSetRanking {
	entries := make([]RankedSet, len(gsr.Entries))
	copy(entries, gsr.Entries)
	slices.SortStableFunc(entries, func(e1, e2 RankedSet) int {
		if e1.Stat < e2.Stat {
			if gsr.Kind == StatPValue {
				return -1
			}
			return 1

		} else if e1.Stat > e2.Stat {
			if gsr.Kind == StatPValue {
				return 1
			}
			return -1
		}
		return 0
	})
	return GeneSetRanking{Entries: entries, Kind: gsr.Kind}
}

// RankingFromIDs wraps a plain identifier sequence as a ranking.
// The entries carry no statistic; their order is the ranking.
func RankingFromIDs(ids []string) GeneSetRanking {
	entries := make([]RankedSet, len(ids))
	for i, id := range ids {
		entries[i] = RankedSet{ID: id}
	}
	return GeneSetRanking{Entries: entries}
}
