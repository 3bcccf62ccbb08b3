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
	"time"

	log "github.com/sirupsen/logrus"
)

// Options bundles the parameters of a mosaic run. RowSize and ColSize are
// required, everything else has a useful zero value.
type Options struct {
	// RowSize is the number of tiles along the horizontal axis, ColSize the
	// number along the vertical axis.
	RowSize, ColSize int

	// ColorSpace selects the feature transform used for matching. The zero
	// value is ColorSpaceRGB; the command line default is lab.
	ColorSpace ColorSpace

	// AvoidDuplicates prevents reuse of a tile until all tiles have been
	// used once.
	AvoidDuplicates bool

	// NumRoutines controls the concurrency of the library build and of the
	// per-cell library scan. Values <= 0 mean 1.
	NumRoutines int

	// Resizer scales the target and the source images. If nil,
	// DefaultResizer (Lanczos3) is used.
	Resizer ImageResizer

	// Rand is the source for the traversal order shuffle. If nil, a source
	// seeded with the current time is used.
	Rand *rand.Rand

	// LibraryProgress and MosaicProgress are called after each preprocessed
	// source image and after each composed cell. nil means ProgressIgnore.
	LibraryProgress, MosaicProgress ProgressFunc
}

// Generate composes a mosaic of the target image from the images in the
// source storage. The returned image has dimensions
// blockWidth·RowSize × blockHeight·ColSize where the block dimensions are
// the target dimensions divided by the grid size.
//
// The run has three stages: the target is resized to the working canvas,
// the source images are preprocessed into the tile library, and finally
// every grid cell, visited in random order, is replaced by the best matching
// tile. Any error aborts the run and is wrapped with the name of the stage
// it occurred in.
func Generate(target image.Image, sources ImageStorage, opts Options) (image.Image, error) {
	resizer := opts.Resizer
	if resizer == nil {
		resizer = DefaultResizer
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	libProgress := opts.LibraryProgress
	if libProgress == nil {
		libProgress = ProgressIgnore
	}
	mosaicProgress := opts.MosaicProgress
	if mosaicProgress == nil {
		mosaicProgress = ProgressIgnore
	}

	// stage 1: compute the grid geometry and resize the target onto the
	// working canvas
	log.WithField("stage", StagePreprocessTarget).Info("[1/3] Preprocessing the target image")
	targetBounds := target.Bounds()
	grid, gridErr := NewGrid(targetBounds.Dx(), targetBounds.Dy(), opts.RowSize, opts.ColSize)
	if gridErr != nil {
		return nil, stageError(StagePreprocessTarget, gridErr)
	}
	log.WithFields(log.Fields{
		"stage":  StagePreprocessTarget,
		"grid":   grid,
		"canvas": image.Pt(grid.CanvasWidth(), grid.CanvasHeight()),
	}).Debug("Computed block geometry")
	resized := resizer.Resize(uint(grid.CanvasWidth()), uint(grid.CanvasHeight()), target)
	canvas := NewCanvas(resized)

	// stage 2: build the tile library
	log.WithField("stage", StagePreprocessSources).Info("[2/3] Preprocessing the source images")
	tiles, tilesErr := BuildLibrary(sources, grid, resizer, opts.ColorSpace,
		opts.NumRoutines, libProgress)
	if tilesErr != nil {
		return nil, stageError(StagePreprocessSources, tilesErr)
	}
	log.WithFields(log.Fields{
		"stage": StagePreprocessSources,
		"tiles": len(tiles),
	}).Debug("Built tile library")

	// stage 3: sequential traversal over the shuffled cells. Each cell must
	// be matched and pasted before the next one starts: canvas and used set
	// are shared across cells without synchronization.
	log.WithField("stage", StageGenerate).Info("[3/3] Generating the mosaic image")
	matcher := NewMatcher(tiles, EuclideanDistance, opts.AvoidDuplicates, opts.NumRoutines)
	for i, cell := range grid.ShuffledCells(rng) {
		area := grid.CellRect(cell)
		block, blockErr := SubImage(canvas, area)
		if blockErr != nil {
			return nil, stageError(StageGenerate, blockErr)
		}
		index, _, matchErr := matcher.BestMatch(GenFeatureMap(block, opts.ColorSpace))
		if matchErr != nil {
			return nil, stageError(StageGenerate, matchErr)
		}
		Paste(canvas, tiles[index].Image, area)
		mosaicProgress(i)
	}
	return canvas, nil
}
