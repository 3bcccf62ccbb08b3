// Package mosaicify reconstructs a target image as a grid of tiles, each
// tile replaced by the best matching image from a source library.
//
// Matching happens under a perceptual color metric: every image is mapped to
// a per-pixel feature map in one of three color spaces (rgb, lab, gray) and
// tiles are compared by the sum of per-pixel euclidean distances. Reuse of
// tiles can optionally be avoided until the whole library has been used
// once.
//
// It ships with an executable program that reads the source library from a
// directory and writes the composed mosaic to an image file.
package mosaicify
