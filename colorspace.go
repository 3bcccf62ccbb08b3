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
	"math"
	"strings"
)

// ColorSpace selects the per-pixel feature transform used for matching tiles.
// The set is closed: every function dealing with color spaces switches
// exhaustively over the three values.
type ColorSpace int

const (
	// ColorSpaceRGB uses the raw red, green and blue channel values.
	ColorSpaceRGB ColorSpace = iota
	// ColorSpaceLab uses the CIELAB space with doubled lightness, see RGBToLab.
	ColorSpaceLab
	// ColorSpaceGray uses a single luminance value per pixel.
	ColorSpaceGray
)

func (space ColorSpace) String() string {
	switch space {
	case ColorSpaceRGB:
		return "rgb"
	case ColorSpaceLab:
		return "lab"
	case ColorSpaceGray:
		return "gray"
	default:
		return fmt.Sprintf("ColorSpace(%d)", space)
	}
}

// ParseColorSpace parses the name of a color space ("rgb", "lab" or "gray").
// Parsing is case insensitive.
func ParseColorSpace(s string) (ColorSpace, error) {
	switch strings.ToLower(s) {
	case "rgb":
		return ColorSpaceRGB, nil
	case "lab":
		return ColorSpaceLab, nil
	case "gray":
		return ColorSpaceGray, nil
	default:
		return -1, NewConfigError("unknown color space %q, must be one of rgb, lab, gray", s)
	}
}

// Channels returns the arity of the feature vector produced in this color
// space: 3 for rgb and lab, 1 for gray.
func (space ColorSpace) Channels() int {
	switch space {
	case ColorSpaceGray:
		return 1
	default:
		return 3
	}
}

// transform writes the feature vector for a single pixel into dst.
// dst must have length space.Channels(). The function is pure, it maps raw
// 8-bit channel values to the feature components.
func (space ColorSpace) transform(c RGB, dst []float64) {
	switch space {
	case ColorSpaceRGB:
		dst[0] = float64(c.R)
		dst[1] = float64(c.G)
		dst[2] = float64(c.B)
	case ColorSpaceLab:
		dst[0], dst[1], dst[2] = RGBToLab(c)
	case ColorSpaceGray:
		dst[0] = 0.3*float64(c.R) + 0.59*float64(c.G) + 0.11*float64(c.B)
	}
}

// RGBToLab converts an RGB color to the CIELAB representation used for
// matching: sRGB is linearized (inverse gamma), converted to CIE XYZ with the
// D65 matrix and then to L*a*b*.
//
// Note that the returned lightness is twice the standard L* value. This is
// intentional: it increases the weight of lightness differences relative to
// the chroma axes in the distance metric. Pure white therefore maps to
// l ≈ 200, pure black to l = 0.
func RGBToLab(c RGB) (l, a, b float64) {
	r := srgbToLinear(float64(c.R) / 255.0)
	g := srgbToLinear(float64(c.G) / 255.0)
	bl := srgbToLinear(float64(c.B) / 255.0)

	x := (r*0.4124 + g*0.3576 + bl*0.1805) / 0.95047
	y := (r*0.2126 + g*0.7152 + bl*0.0722) / 1.00000
	z := (r*0.0193 + g*0.1192 + bl*0.9505) / 1.08883

	x = labF(x)
	y = labF(y)
	z = labF(z)

	l = 2.0 * (116.0*y - 16.0)
	a = 500.0 * (x - y)
	b = 200.0 * (y - z)
	return l, a, b
}

func srgbToLinear(v float64) float64 {
	if v > 0.04045 {
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return v / 12.92
}

func labF(v float64) float64 {
	if v > 0.008856 {
		return math.Cbrt(v)
	}
	return 7.787*v + 16.0/116.0
}

// FeatureMap holds a fixed-length feature vector for every pixel of an image.
// Its dimensions always equal those of the image it was generated from and
// its channel count is given by the color space.
type FeatureMap struct {
	Width, Height int
	Channels      int
	values        []float64
}

// NewFeatureMap returns a feature map of the given dimensions with all
// components set to zero.
func NewFeatureMap(width, height, channels int) *FeatureMap {
	return &FeatureMap{
		Width:    width,
		Height:   height,
		Channels: channels,
		values:   make([]float64, width*height*channels),
	}
}

// At returns the feature vector at position (x, y). The returned slice is a
// view into the map, callers must not hold on to it across mutations.
func (m *FeatureMap) At(x, y int) []float64 {
	offset := (y*m.Width + x) * m.Channels
	return m.values[offset : offset+m.Channels]
}

// GenFeatureMap computes the feature map of an image under the given color
// space. Coordinates are normalized, the feature vector for the top left
// pixel is at (0, 0) regardless of the image bounds.
func GenFeatureMap(img image.Image, space ColorSpace) *FeatureMap {
	bounds := img.Bounds()
	res := NewFeatureMap(bounds.Dx(), bounds.Dy(), space.Channels())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := ConvertRGB(img.At(x, y))
			space.transform(c, res.At(x-bounds.Min.X, y-bounds.Min.Y))
		}
	}
	return res
}
