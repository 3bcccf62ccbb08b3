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
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
)

// ImageID is used to unambiguously identify an image in a storage.
// The id of an image equals its position in the enumeration order of the
// storage. This order is stable for the lifetime of a run and is never
// re-sorted: tile indices in the generated library and the duplicate
// avoidance bookkeeping depend on it.
type ImageID int

const (
	// NoImageID is an id that is never associated with an image. It and
	// everything below it is rejected by LoadImage.
	NoImageID ImageID = -1
)

// ImageStorage is used to administrate a collection of source images.
// Images are identified by an id and can be loaded into memory when required.
// All ids < NumImages are considered valid.
//
// Implementations must be safe for concurrent use.
type ImageStorage interface {
	// NumImages returns the number of images in the storage as an ImageID.
	NumImages() ImageID

	// LoadImage loads an image into memory.
	LoadImage(id ImageID) (image.Image, error)
}

// IDList returns the list [0, 1, ..., storage.NumImages - 1].
func IDList(storage ImageStorage) []ImageID {
	numImages := storage.NumImages()
	res := make([]ImageID, numImages)
	var i ImageID
	for ; i < numImages; i++ {
		res[i] = i
	}
	return res
}

// FSImageDB implements ImageStorage. It uses images stored on the filesystem
// and opens them on demand. The paths are stored relative to a Root
// directory.
type FSImageDB struct {
	Root  string
	Paths []string
}

// NewFSImageDB returns a database without any image paths registered.
func NewFSImageDB(root string) *FSImageDB {
	return &FSImageDB{Root: root, Paths: nil}
}

// GetPath returns the absolute path of the image with the given id.
func (db *FSImageDB) GetPath(id ImageID) string {
	return filepath.Join(db.Root, db.Paths[id])
}

// NumImages returns the number of registered images.
func (db *FSImageDB) NumImages() ImageID {
	return ImageID(len(db.Paths))
}

// LoadImage opens and decodes the image with the given id. Failures are
// reported as a DecodeError identifying the file.
func (db *FSImageDB) LoadImage(id ImageID) (image.Image, error) {
	if id <= NoImageID || id >= db.NumImages() {
		return nil, fmt.Errorf("invalid image id: not associated with an image: %d", id)
	}
	file := db.GetPath(id)
	r, openErr := os.Open(file)
	if openErr != nil {
		return nil, DecodeError{Path: file, Err: openErr}
	}
	defer r.Close()
	img, _, decodeErr := image.Decode(r)
	if decodeErr != nil {
		return nil, DecodeError{Path: file, Err: decodeErr}
	}
	return img, nil
}

// GenFSDatabase enumerates all supported images under root and returns a
// database for them. If recursive is true subdirectories are scanned as
// well. If filter is nil JPGAndPNG is used.
//
// Entries are listed in lexical directory order, so the resulting ids are
// deterministic for a given directory tree.
func GenFSDatabase(root string, recursive bool, filter SupportedImageFunc) (*FSImageDB, error) {
	root, absErr := filepath.Abs(root)
	if absErr != nil {
		return nil, absErr
	}
	if filter == nil {
		filter = JPGAndPNG
	}
	if recursive {
		return genFSDBRecursive(root, filter)
	}
	return genFSDBNonRecursive(root, filter)
}

func genFSDBRecursive(root string, filter SupportedImageFunc) (*FSImageDB, error) {
	result := NewFSImageDB(root)
	walkFunc := func(path string, entry fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case !entry.IsDir() && filter(filepath.Ext(path)):
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			result.Paths = append(result.Paths, rel)
			return nil
		default:
			return nil
		}
	}
	if err := filepath.WalkDir(root, walkFunc); err != nil {
		return nil, err
	}
	return result, nil
}

func genFSDBNonRecursive(root string, filter SupportedImageFunc) (*FSImageDB, error) {
	result := NewFSImageDB(root)
	files, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if !file.IsDir() && filter(filepath.Ext(file.Name())) {
			result.Paths = append(result.Paths, file.Name())
		}
	}
	return result, nil
}

// MemoryStorage implements ImageStorage for images that are already decoded
// in memory. Ids equal positions in the slice.
type MemoryStorage []image.Image

// NumImages returns the number of images in the slice.
func (storage MemoryStorage) NumImages() ImageID {
	return ImageID(len(storage))
}

// LoadImage returns the image at position id.
func (storage MemoryStorage) LoadImage(id ImageID) (image.Image, error) {
	if id <= NoImageID || int(id) >= len(storage) {
		return nil, fmt.Errorf("invalid image id: not associated with an image: %d", id)
	}
	return storage[id], nil
}
