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
	"errors"
	"image/color"
	"testing"
)

func makeTiles(width, height int, space ColorSpace, colors ...color.RGBA) []Tile {
	res := make([]Tile, len(colors))
	for i, c := range colors {
		img := uniformImage(width, height, c)
		res[i] = Tile{Image: img, Features: GenFeatureMap(img, space)}
	}
	return res
}

func TestBestMatchExact(t *testing.T) {
	tiles := makeTiles(4, 4, ColorSpaceRGB,
		color.RGBA{255, 0, 0, 255},
		color.RGBA{0, 255, 0, 255},
		color.RGBA{0, 0, 255, 255},
	)
	m := NewMatcher(tiles, EuclideanDistance, false, 3)
	block := GenFeatureMap(uniformImage(4, 4, color.RGBA{0, 0, 255, 255}), ColorSpaceRGB)
	index, score, err := m.BestMatch(block)
	if err != nil {
		t.Fatalf("BestMatch failed: %v", err)
	}
	if index != 2 {
		t.Errorf("best index = %d, want 2", index)
	}
	if score != 0.0 {
		t.Errorf("score of exact match = %f, want 0", score)
	}
}

func TestBestMatchDeterministicTieBreak(t *testing.T) {
	// three identical tiles: the lowest index must win regardless of how
	// many workers scan the library
	red := color.RGBA{200, 40, 40, 255}
	tiles := makeTiles(4, 4, ColorSpaceRGB, red, red, red)
	block := GenFeatureMap(uniformImage(4, 4, red), ColorSpaceRGB)
	for _, workers := range []int{1, 2, 3, 8} {
		m := NewMatcher(tiles, EuclideanDistance, false, workers)
		for run := 0; run < 20; run++ {
			index, _, err := m.BestMatch(block)
			if err != nil {
				t.Fatalf("workers=%d: BestMatch failed: %v", workers, err)
			}
			if index != 0 {
				t.Fatalf("workers=%d: best index = %d, want 0", workers, index)
			}
		}
	}
}

func TestBestMatchAvoidDuplicates(t *testing.T) {
	// red, green, blue and white are all equidistant from a pure red block
	// in rgb space, so with duplicate avoidance the matcher walks the
	// library in index order and then resets
	tiles := makeTiles(4, 4, ColorSpaceRGB,
		color.RGBA{255, 0, 0, 255},
		color.RGBA{0, 255, 0, 255},
		color.RGBA{0, 0, 255, 255},
		color.RGBA{255, 255, 255, 255},
	)
	m := NewMatcher(tiles, EuclideanDistance, true, 2)
	block := GenFeatureMap(uniformImage(4, 4, color.RGBA{255, 0, 0, 255}), ColorSpaceRGB)

	want := []int{0, 1, 2, 3}
	for i, wantIndex := range want {
		index, _, err := m.BestMatch(block)
		if err != nil {
			t.Fatalf("call %d: BestMatch failed: %v", i, err)
		}
		if index != wantIndex {
			t.Fatalf("call %d: best index = %d, want %d", i, index, wantIndex)
		}
		if m.NumUsed() != i+1 {
			t.Fatalf("call %d: used count = %d, want %d", i, m.NumUsed(), i+1)
		}
		if !m.Used(index) {
			t.Fatalf("call %d: tile %d not marked as used", i, index)
		}
	}

	// all tiles used: the next search resets the bookkeeping and selects the
	// overall best again
	index, _, err := m.BestMatch(block)
	if err != nil {
		t.Fatalf("BestMatch after reset failed: %v", err)
	}
	if index != 0 {
		t.Errorf("best index after reset = %d, want 0", index)
	}
	if m.NumUsed() != 1 {
		t.Errorf("used count after reset = %d, want 1", m.NumUsed())
	}
	if m.Used(1) {
		t.Error("tile 1 still marked as used after the reset")
	}
}

func TestBestMatchSingleTileLibrary(t *testing.T) {
	tiles := makeTiles(4, 4, ColorSpaceRGB, color.RGBA{77, 77, 77, 255})
	m := NewMatcher(tiles, EuclideanDistance, true, 4)
	block := GenFeatureMap(uniformImage(4, 4, color.RGBA{0, 0, 0, 255}), ColorSpaceRGB)
	for i := 0; i < 3; i++ {
		index, _, err := m.BestMatch(block)
		if err != nil {
			t.Fatalf("call %d: BestMatch failed: %v", i, err)
		}
		if index != 0 {
			t.Fatalf("call %d: best index = %d, want 0", i, index)
		}
		if m.NumUsed() != 1 {
			t.Fatalf("call %d: used count = %d, want 1", i, m.NumUsed())
		}
	}
}

func TestBestMatchEmptyLibrary(t *testing.T) {
	m := NewMatcher(nil, EuclideanDistance, false, 2)
	block := GenFeatureMap(uniformImage(4, 4, color.RGBA{}), ColorSpaceRGB)
	_, _, err := m.BestMatch(block)
	var invErr InvariantError
	if !errors.As(err, &invErr) {
		t.Errorf("expected InvariantError, got %v", err)
	}
}

func TestBestMatchNoBookkeepingWhenDisabled(t *testing.T) {
	tiles := makeTiles(4, 4, ColorSpaceRGB,
		color.RGBA{255, 0, 0, 255},
		color.RGBA{0, 255, 0, 255},
	)
	m := NewMatcher(tiles, EuclideanDistance, false, 2)
	block := GenFeatureMap(uniformImage(4, 4, color.RGBA{255, 0, 0, 255}), ColorSpaceRGB)
	for i := 0; i < 3; i++ {
		index, _, err := m.BestMatch(block)
		if err != nil {
			t.Fatalf("BestMatch failed: %v", err)
		}
		if index != 0 {
			t.Errorf("best index = %d, want 0", index)
		}
	}
	if m.NumUsed() != 0 {
		t.Errorf("used count = %d, want 0 with duplicate avoidance disabled", m.NumUsed())
	}
	if m.Used(0) {
		t.Error("tile 0 marked as used with duplicate avoidance disabled")
	}
}
