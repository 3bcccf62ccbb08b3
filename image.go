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
	"image/color"
	"reflect"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// SupportedImageFunc is a function that takes a file extension and decides if
// this file extension is supported. Which extensions make sense depends on
// the image decoders the calling program has registered.
//
// The extension passed to this function could be for example ".txt" or
// ".jpg". JPGAndPNG and AllDecodable are implementations.
type SupportedImageFunc func(ext string) bool

// JPGAndPNG is an implementation of SupportedImageFunc accepting jpg and png
// file extensions. These formats are always registered by the mosaicify
// command.
func JPGAndPNG(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

// AllDecodable is an implementation of SupportedImageFunc accepting all
// formats the mosaicify command registers decoders for: jpg, png, gif and
// the golang.org/x/image formats webp, bmp and tiff.
func AllDecodable(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff":
		return true
	default:
		return false
	}
}

// RGB is a color containing r, g and b components.
type RGB struct {
	R, G, B uint8
}

// ConvertRGB converts a generic color into the internal RGB representation.
func ConvertRGB(c color.Color) RGB {
	// convert to rgba model
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	// convert to internal rgb representation
	return RGB{R: rgba.R, G: rgba.G, B: rgba.B}
}

// SubImager is a type that can produce a sub image from an original image.
type SubImager interface {
	SubImage(r image.Rectangle) image.Image
}

// SubImage returns a subimage of img given the boundaries r.
// The rectangle should be a valid area in the image. If the image type does
// not have a sub image method an error is returned.
func SubImage(img image.Image, r image.Rectangle) (image.Image, error) {
	imager, ok := img.(SubImager)
	if !ok {
		return nil, fmt.Errorf("can't create sub image from type %v", reflect.TypeOf(img))
	}
	return imager.SubImage(r), nil
}

// ImageResizer resizes an image to the given width and height.
// Both dimensions are forced, the aspect ratio of the original image is
// ignored.
type ImageResizer interface {
	Resize(width, height uint, img image.Image) image.Image
}

// NfntResizer uses the nfnt/resize package to resize an image.
type NfntResizer struct {
	// InterP is the interpolation function to use.
	InterP resize.InterpolationFunction
}

// NewNfntResizer returns a new resizer given the interpolation function.
func NewNfntResizer(interP resize.InterpolationFunction) NfntResizer {
	return NfntResizer{interP}
}

// Resize calls nfnt/resize methods.
func (resizer NfntResizer) Resize(width, height uint, img image.Image) image.Image {
	return resize.Resize(width, height, img, resizer.InterP)
}

// GetInterP returns an interpolation function given a desired quality.
// The higher the quality the better the interpolation should be, but
// execution time is higher. Currently supported are values between 0 and 5,
// each selecting a different interpolation function. Values greater than 5
// are treated as 5 (Lanczos3, the interpolation of DefaultResizer).
//
// This method assumes that the interpolation functions provided by
// nfnt/resize can be sorted according to their quality. This should be a
// reasonable assumption.
func GetInterP(quality uint) resize.InterpolationFunction {
	switch quality {
	case 0:
		return resize.NearestNeighbor
	case 1:
		return resize.Bilinear
	case 2:
		return resize.Bicubic
	case 3:
		return resize.MitchellNetravali
	case 4:
		return resize.Lanczos2
	default:
		return resize.Lanczos3
	}
}

// ImagingResizer uses the disintegration/imaging package to resize an image.
// It is an alternative engine to NfntResizer.
type ImagingResizer struct {
	// Filter is the resampling filter to use.
	Filter imaging.ResampleFilter
}

// NewImagingResizer returns a new resizer given the resampling filter.
func NewImagingResizer(filter imaging.ResampleFilter) ImagingResizer {
	return ImagingResizer{filter}
}

// Resize calls disintegration/imaging methods.
func (resizer ImagingResizer) Resize(width, height uint, img image.Image) image.Image {
	return imaging.Resize(img, int(width), int(height), resizer.Filter)
}

var (
	// DefaultResizer is the resizer that is used by default. Tile matching
	// relies on high quality resampling, so this is a Lanczos resizer with
	// three lobes.
	DefaultResizer ImageResizer = NewNfntResizer(resize.Lanczos3)
)
