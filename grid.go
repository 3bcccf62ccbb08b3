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
	"image"
	"math/rand"
)

// Cell identifies one rectangle of the mosaic grid. Row counts cells along
// the vertical axis, Col along the horizontal axis.
type Cell struct {
	Row, Col int
}

// Grid describes the division of the working canvas into a fixed number of
// equally sized, disjoint cells.
//
// RowSize is the number of cells along the horizontal axis and ColSize the
// number along the vertical axis; this follows the command line contract
// where the block width is target width / row size and the block height is
// target height / col size.
//
// Block dimensions are computed by integer division, the working canvas is
// exactly BlockWidth·RowSize × BlockHeight·ColSize: the cells partition it
// without gaps or overlaps.
type Grid struct {
	RowSize, ColSize        int
	BlockWidth, BlockHeight int
}

// NewGrid computes the block geometry for a target of the given dimensions.
// Degenerate geometry (a non-positive cell count or a block dimension that
// rounds to zero) is a ConfigError; it is reported before any processing
// begins.
func NewGrid(targetWidth, targetHeight, rowSize, colSize int) (Grid, error) {
	if rowSize <= 0 || colSize <= 0 {
		return Grid{}, NewConfigError("grid size must be positive, got %dx%d", rowSize, colSize)
	}
	blockWidth := targetWidth / rowSize
	blockHeight := targetHeight / colSize
	if blockWidth <= 0 || blockHeight <= 0 {
		return Grid{}, NewConfigError(
			"degenerate block geometry: target %dx%d divided into %dx%d cells yields %dx%d blocks",
			targetWidth, targetHeight, rowSize, colSize, blockWidth, blockHeight)
	}
	return Grid{
		RowSize:     rowSize,
		ColSize:     colSize,
		BlockWidth:  blockWidth,
		BlockHeight: blockHeight,
	}, nil
}

// CanvasWidth returns the width of the working canvas.
func (g Grid) CanvasWidth() int {
	return g.BlockWidth * g.RowSize
}

// CanvasHeight returns the height of the working canvas.
func (g Grid) CanvasHeight() int {
	return g.BlockHeight * g.ColSize
}

// NumCells returns the total number of cells in the grid.
func (g Grid) NumCells() int {
	return g.RowSize * g.ColSize
}

// CellRect returns the canvas rectangle covered by the given cell.
func (g Grid) CellRect(c Cell) image.Rectangle {
	x0 := c.Col * g.BlockWidth
	y0 := c.Row * g.BlockHeight
	return image.Rect(x0, y0, x0+g.BlockWidth, y0+g.BlockHeight)
}

// Cells enumerates all cells of the grid in row major order.
func (g Grid) Cells() []Cell {
	res := make([]Cell, 0, g.NumCells())
	for row := 0; row < g.ColSize; row++ {
		for col := 0; col < g.RowSize; col++ {
			res = append(res, Cell{Row: row, Col: col})
		}
	}
	return res
}

// ShuffledCells enumerates all cells of the grid in a uniformly random
// order. A deterministic raster sweep would bias which cells get first pick
// of rare tiles under duplicate avoidance, randomizing the visit order
// removes that positional bias. rng must not be nil.
func (g Grid) ShuffledCells(rng *rand.Rand) []Cell {
	res := g.Cells()
	rng.Shuffle(len(res), func(i, j int) {
		res[i], res[j] = res[j], res[i]
	})
	return res
}
