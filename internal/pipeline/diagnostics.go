package pipeline

import (
	"sort"

	"awards/internal"
	"awards/internal/table"
	"awards/internal/util"
)

// Unmatched is a primary nominee whose full join key (year, type, name and
// film where both sides carry one) is absent from every ceremony table.
type Unmatched struct {
	Year int
	Type internal.EntityType
	Name string
	Film string
}

// NearMiss pairs an unmatched primary row with a secondary row from the
// same year and type that is probably the same entity spelled differently.
// A Score of 1 with differing films means only the film title disagrees.
type NearMiss struct {
	Unmatched
	Candidate     string
	CandidateFilm string
	Score         float64
}

type Diagnostics struct {
	Joins      []JoinReport
	Unmatched  []Unmatched
	NearMisses []NearMiss
}

func (d Diagnostics) DuplicateKeys() int {
	n := 0
	for _, j := range d.Joins {
		n += j.Stats.DuplicateKeys
	}
	return n
}

type bucketKey struct {
	year int
	typ  internal.EntityType
}

type candidate struct {
	name string
	film string
}

// FindMismatches describes the primary rows listed in leftOnly, the rows the
// primary left join could not match. Names are compared after NormalizeName;
// equal names score 1.
func FindMismatches(primary, secondary *table.Table, leftOnly []int, threshold float64) ([]Unmatched, []NearMiss) {
	buckets := map[bucketKey][]candidate{}
	seen := map[bucketKey]map[candidate]struct{}{}
	for i := 0; i < secondary.Len(); i++ {
		k, ok := rowBucket(secondary, i)
		if !ok {
			continue
		}
		c := candidate{
			name: secondary.Get(i, internal.ColName).Str(),
			film: secondary.Get(i, internal.ColFilm).Str(),
		}
		if seen[k] == nil {
			seen[k] = map[candidate]struct{}{}
		}
		if _, dup := seen[k][c]; dup {
			continue
		}
		seen[k][c] = struct{}{}
		buckets[k] = append(buckets[k], c)
	}
	for _, list := range buckets {
		sort.Slice(list, func(a, b int) bool {
			if list[a].name != list[b].name {
				return list[a].name < list[b].name
			}
			return list[a].film < list[b].film
		})
	}

	var unmatched []Unmatched
	var near []NearMiss
	for _, i := range leftOnly {
		u := Unmatched{
			Name: primary.Get(i, internal.ColName).Str(),
			Film: primary.Get(i, internal.ColFilm).Str(),
			Type: internal.EntityType(primary.Get(i, internal.ColType).Str()),
		}
		k, ok := rowBucket(primary, i)
		if ok {
			u.Year = k.year
		}
		unmatched = append(unmatched, u)
		if !ok {
			continue
		}

		normName := util.NormalizeName(u.Name)
		var best candidate
		bestScore := 0.0
		for _, c := range buckets[k] {
			score := util.DiceCoefficient(normName, util.NormalizeName(c.name))
			if score > bestScore {
				best, bestScore = c, score
			}
		}
		if best.name != "" && bestScore >= threshold {
			near = append(near, NearMiss{Unmatched: u, Candidate: best.name, CandidateFilm: best.film, Score: bestScore})
		}
	}
	return unmatched, near
}

func rowBucket(t *table.Table, i int) (bucketKey, bool) {
	ts, ok := t.Get(i, internal.ColYear).Time()
	if !ok {
		return bucketKey{}, false
	}
	return bucketKey{year: ts.Year(), typ: internal.EntityType(t.Get(i, internal.ColType).Str())}, true
}
