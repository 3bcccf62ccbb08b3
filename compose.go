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
)

// NewCanvas copies img into a freshly allocated RGBA canvas anchored at
// (0, 0). The canvas is the mutable working copy of the resized target: the
// traversal loop reads block content from it and overwrites cells with the
// winning tiles.
func NewCanvas(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	res := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			res.Set(x, y, img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return res
}

// Paste overwrites the canvas pixels of the given area with the pixel data
// of tile. The tile must have at least the dimensions of the area; tiles in
// a library always have exactly block geometry, which equals the cell
// rectangles of the grid.
//
// Cells are disjoint, so pasting one cell never corrupts the block data of
// any not yet visited cell.
func Paste(canvas *image.RGBA, tile image.Image, area image.Rectangle) {
	tileBounds := tile.Bounds()
	for y := 0; y < area.Dy(); y++ {
		for x := 0; x < area.Dx(); x++ {
			// get color from the tile
			c := tile.At(tileBounds.Min.X+x, tileBounds.Min.Y+y)
			// set color
			canvas.Set(area.Min.X+x, area.Min.Y+y, c)
		}
	}
}
