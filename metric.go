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
)

// VectorMetric is a function that takes two vectors of the same length and
// returns a metric value ("distance") of the two.
// The smaller the metric value is the more equal the vectors are considered.
// Metric values should be ≥ 0.
type VectorMetric func(p, q []float64) float64

// Manhattan returns the manhattan distance of two vectors, that is
// |p1 - q1| + ... + |pn - qn|.
func Manhattan(p, q []float64) float64 {
	var result float64
	for i, e1 := range p {
		result += math.Abs(e1 - q[i])
	}
	return result
}

// EuclideanDistance returns the euclidean distance of two
// vectors, that is sqrt( (p1 - q1)² + ... + (pn - qn)² ).
func EuclideanDistance(p, q []float64) float64 {
	var sum float64
	for i, e1 := range p {
		e2 := q[i]
		diff := (e1 - e2)
		sum += (diff * diff)
	}
	return math.Sqrt(sum)
}

// FeatureDistance returns the distance score between two feature maps: the
// sum over all pixel positions of the metric value of the per-pixel feature
// vectors. It is a sum, not an average, so maps of equal content have
// distance 0 and larger maps accumulate larger scores.
//
// Both maps must have identical dimensions and channel arity. By construction
// this always holds (both sides of a comparison use the same color space and
// block geometry), a mismatch is reported as an InvariantError.
func FeatureDistance(a, b *FeatureMap, metric VectorMetric) (float64, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return -1.0, NewInvariantError("feature map dimensions differ: %dx%d != %dx%d",
			a.Width, a.Height, b.Width, b.Height)
	}
	if a.Channels != b.Channels {
		return -1.0, NewInvariantError("feature vector arity differs: %d != %d",
			a.Channels, b.Channels)
	}
	var sum float64
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			sum += metric(a.At(x, y), b.At(x, y))
		}
	}
	return sum, nil
}
