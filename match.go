// Copyright 2024 Namacha411
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

package mosaicify

import (
	"math"
	"sync"
)

// Matcher performs the nearest neighbor search of a block feature map over
// the tile library. It owns the duplicate avoidance state: when
// AvoidDuplicates is enabled every selected tile index is recorded and
// excluded from later searches until all tiles have been used once, then the
// record is cleared.
//
// A matcher is used by a single sequential driver. BestMatch must not be
// called concurrently: the search itself fans out over the library with
// read-only workers, but the used set is updated without synchronization
// after each search.
type Matcher struct {
	Tiles           []Tile
	Metric          VectorMetric
	AvoidDuplicates bool
	NumRoutines     int

	used map[int]struct{}
}

// NewMatcher returns a matcher over the given tile library.
// If metric is nil EuclideanDistance is used, which yields the distance
// score described in FeatureDistance.
func NewMatcher(tiles []Tile, metric VectorMetric, avoidDuplicates bool, numRoutines int) *Matcher {
	if metric == nil {
		metric = EuclideanDistance
	}
	if numRoutines <= 0 {
		numRoutines = 1
	}
	return &Matcher{
		Tiles:           tiles,
		Metric:          metric,
		AvoidDuplicates: avoidDuplicates,
		NumRoutines:     numRoutines,
		used:            make(map[int]struct{}),
	}
}

// NumUsed returns the number of tiles selected since the last reset of the
// duplicate avoidance state. It is always 0 if AvoidDuplicates is disabled.
func (m *Matcher) NumUsed() int {
	return len(m.used)
}

// Used reports whether the tile index has been selected since the last
// reset.
func (m *Matcher) Used(index int) bool {
	_, has := m.used[index]
	return has
}

type matchResult struct {
	index int
	score float64
	err   error
}

// BestMatch returns the index of the library tile with the smallest distance
// score to the block, together with that score.
//
// If duplicate avoidance is enabled and every tile has been used, the used
// set is cleared first; this guarantees at least one eligible candidate.
// Tiles in the used set are not candidates. All candidates are scored
// concurrently against the immutable block feature map; ties are broken
// deterministically in favor of the lowest tile index, so results do not
// depend on scheduling.
//
// Finding no eligible candidate should be unreachable and is reported as an
// InvariantError.
func (m *Matcher) BestMatch(block *FeatureMap) (int, float64, error) {
	if len(m.Tiles) == 0 {
		return -1, -1.0, NewInvariantError("matcher has an empty tile library")
	}
	if m.AvoidDuplicates && len(m.used) == len(m.Tiles) {
		m.used = make(map[int]struct{})
	}

	// every worker scans a contiguous index range and reports its local
	// minimum; the merge below prefers lower ranges on equal scores, which
	// together with the strict < inside a range yields the lowest winning
	// index
	numWorkers := m.NumRoutines
	if numWorkers > len(m.Tiles) {
		numWorkers = len(m.Tiles)
	}
	chunkSize := (len(m.Tiles) + numWorkers - 1) / numWorkers
	results := make([]matchResult, numWorkers)

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func(worker int) {
			defer wg.Done()
			begin := worker * chunkSize
			end := begin + chunkSize
			if end > len(m.Tiles) {
				end = len(m.Tiles)
			}
			local := matchResult{index: -1, score: math.MaxFloat64}
			for i := begin; i < end; i++ {
				if m.AvoidDuplicates {
					if _, skip := m.used[i]; skip {
						continue
					}
				}
				score, scoreErr := FeatureDistance(block, m.Tiles[i].Features, m.Metric)
				if scoreErr != nil {
					local.err = scoreErr
					break
				}
				if score < local.score {
					local.score = score
					local.index = i
				}
			}
			results[worker] = local
		}(w)
	}
	wg.Wait()

	best := matchResult{index: -1, score: math.MaxFloat64}
	for _, local := range results {
		if local.err != nil {
			return -1, -1.0, local.err
		}
		if local.index >= 0 && local.score < best.score {
			best = local
		}
	}
	if best.index < 0 {
		return -1, -1.0, NewInvariantError("no eligible tile candidate for block")
	}
	if m.AvoidDuplicates {
		m.used[best.index] = struct{}{}
	}
	return best.index, best.score, nil
}
