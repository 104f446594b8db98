// Package blocking groups canonical records into candidate buckets by cheap
// shared keys so pairwise comparison cost is bounded by bucket sizes instead
// of the full cross product.
package blocking

import (
	"sort"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

// Index buckets records by blocking key. Records sharing at least one key
// land in the same bucket; only co-bucketed records are ever compared. Two
// true duplicates sharing no key are never compared — recall is bounded by
// key coverage, which is the retained trade-off of blocking.
type Index struct {
	records []*models.CanonicalRecord
	buckets map[string][]int
}

// Build indexes the given records. Record order is preserved so pair
// iteration is deterministic for identical input.
func Build(records []*models.CanonicalRecord) *Index {
	ix := &Index{
		records: records,
		buckets: make(map[string][]int),
	}
	for i, rec := range records {
		for _, key := range Keys(rec) {
			ix.buckets[key] = append(ix.buckets[key], i)
		}
	}
	return ix
}

// Keys derives the blocking keys for a record. Empty components produce no
// key; many-valued fields contribute one key per value.
func Keys(rec *models.CanonicalRecord) []string {
	var keys []string

	if rec.Phonetic != "" && rec.Phonetic != "0000" && rec.BirthDate != nil {
		keys = append(keys, "ph:"+rec.Phonetic+":"+rec.BirthDate.Format("2006-01-02"))
	}
	if rec.Email != "" {
		keys = append(keys, "em:"+rec.Email)
	}
	if rec.EmailLocal != "" {
		for _, campus := range rec.Campuses {
			keys = append(keys, "emc:"+rec.EmailLocal+":"+campus)
		}
	}
	if rec.Phone != "" {
		keys = append(keys, "tel:"+rec.Phone)
	}
	if rec.TruthID != "" {
		keys = append(keys, "tid:"+rec.TruthID)
	}

	return keys
}

// EachPair invokes fn exactly once for every unordered record pair that
// shares at least one bucket, no matter how many keys the pair shares.
// Iteration order is deterministic: buckets in sorted key order, pairs in
// record order within each bucket.
func (ix *Index) EachPair(fn func(a, b *models.CanonicalRecord)) {
	keys := make([]string, 0, len(ix.buckets))
	for k := range ix.buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[[2]int]struct{})
	for _, key := range keys {
		bucket := ix.buckets[key]
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				a, b := bucket[i], bucket[j]
				if a == b {
					continue
				}
				if b < a {
					a, b = b, a
				}
				pair := [2]int{a, b}
				if _, done := seen[pair]; done {
					continue
				}
				seen[pair] = struct{}{}
				fn(ix.records[a], ix.records[b])
			}
		}
	}
}

// BucketCount reports the number of non-empty buckets, for run logging.
func (ix *Index) BucketCount() int {
	return len(ix.buckets)
}
