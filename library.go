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

// Tile is one preprocessed source image: the image resized to exactly the
// block geometry of the grid together with its feature map, computed once
// under the run's color space. Tile images are never mutated after the
// build.
//
// Tiles are identified by their position in the library, which equals the
// ImageID in the source storage. That index is the identity used by
// duplicate avoidance bookkeeping.
type Tile struct {
	Image    image.Image
	Features *FeatureMap
}

// BuildLibrary resizes every image of the storage to the block dimensions of
// the grid and computes its feature map under the given color space. The
// returned list preserves the enumeration order of the storage exactly:
// tile i was built from image id i.
//
// Each source image is an independent task, numRoutines of them run
// concurrently. Any image that fails to load aborts the build, there is no
// partial library. progress is called once per finished image, nil means
// ProgressIgnore.
func BuildLibrary(storage ImageStorage, g Grid, resizer ImageResizer,
	space ColorSpace, numRoutines int, progress ProgressFunc) ([]Tile, error) {
	if numRoutines <= 0 {
		numRoutines = 1
	}
	if progress == nil {
		progress = ProgressIgnore
	}
	numImages := int(storage.NumImages())
	if numImages == 0 {
		return nil, NewConfigError("source library is empty")
	}

	// any error that occurs sets this variable (first error)
	// this is done later
	var err error

	// struct that we use for the channel
	type job struct {
		pos int
		id  ImageID
	}

	res := make([]Tile, numImages)
	jobs := make(chan job, BufferSize)
	errorChan := make(chan error, BufferSize)
	for w := 0; w < numRoutines; w++ {
		go func() {
			for next := range jobs {
				img, imageErr := storage.LoadImage(next.id)
				if imageErr != nil {
					errorChan <- imageErr
					continue
				}
				resized := resizer.Resize(uint(g.BlockWidth), uint(g.BlockHeight), img)
				res[next.pos] = Tile{
					Image:    resized,
					Features: GenFeatureMap(resized, space),
				}
				errorChan <- nil
			}
		}()
	}

	go func() {
		for i, id := range IDList(storage) {
			jobs <- job{pos: i, id: id}
		}
		close(jobs)
	}()

	for i := 0; i < numImages; i++ {
		nextErr := <-errorChan
		if nextErr != nil && err == nil {
			err = nextErr
		}
		progress(i)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}
