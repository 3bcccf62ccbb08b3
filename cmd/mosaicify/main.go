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

// Command mosaicify generates a mosaic image from a target image and a
// directory of source images.
package main

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	// register decoders for all supported source formats
	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Namacha411/mosaicify"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const version = "0.4.0"

type runConfig struct {
	colorSpace      string
	output          string
	avoidDuplicates bool
	recursive       bool
	resizer         string
	quality         uint
	numRoutines     int
	verbose         bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Fatal("Failed to generate the mosaic")
	}
}

func newRootCmd() *cobra.Command {
	cfg := &runConfig{}
	root := &cobra.Command{
		Use:   "mosaicify TARGET ROW_SIZE COL_SIZE IMAGES",
		Short: "Generates a mosaic image from a target image and a set of source images",
		Long: `Generates a mosaic image from a target image and a set of source images.

The target is divided into ROW_SIZE x COL_SIZE blocks and every block is
replaced by the best matching image from the IMAGES directory under the
chosen color space. With --avoid-duplicates no source image is reused until
all of them have been used once.`,
		Version:       version,
		Args:          cobra.ExactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRun: func(cmd *cobra.Command, args []string) {
			if cfg.verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg, args)
		},
	}
	root.Flags().StringVarP(&cfg.colorSpace, "color_space", "c", "lab",
		"color space to use for matching tiles: 'rgb' for RGB space, 'lab' for Lab space, 'gray' for grayscale")
	root.Flags().StringVarP(&cfg.output, "output", "o", "mosaic.jpg",
		"output image file path (.jpg or .png)")
	root.Flags().BoolVarP(&cfg.avoidDuplicates, "avoid-duplicates", "d", false,
		"avoid using duplicate images in the mosaic")
	root.Flags().BoolVarP(&cfg.recursive, "recursive", "r", false,
		"scan the images directory recursively")
	root.Flags().StringVar(&cfg.resizer, "resizer", "nfnt",
		"resize engine: 'nfnt' or 'imaging'")
	root.Flags().UintVarP(&cfg.quality, "quality", "q", 5,
		"resample quality of the 'nfnt' engine, 0 (fastest) to 5 (best)")
	root.Flags().IntVarP(&cfg.numRoutines, "workers", "w", defaultRoutines(),
		"number of concurrent workers for preprocessing and matching")
	root.Flags().BoolVarP(&cfg.verbose, "verbose", "v", false,
		"enable verbose logging")
	return root
}

// defaultRoutines returns the default worker count, twice the number of CPUs.
func defaultRoutines() int {
	res := runtime.NumCPU() * 2
	if res <= 0 {
		// don't know if this can happen, better safe than sorry
		res = 4
	}
	return res
}

func run(cfg *runConfig, args []string) error {
	// every run gets a unique id so log lines of concurrent runs can be told
	// apart
	entry := log.WithField("run", uuid.New().String())

	targetPath, pathErr := expandPath(args[0])
	if pathErr != nil {
		return pathErr
	}
	imagesPath, pathErr := expandPath(args[3])
	if pathErr != nil {
		return pathErr
	}
	rowSize, rowErr := parseGridSize(args[1], "ROW_SIZE")
	if rowErr != nil {
		return rowErr
	}
	colSize, colErr := parseGridSize(args[2], "COL_SIZE")
	if colErr != nil {
		return colErr
	}
	space, spaceErr := mosaicify.ParseColorSpace(cfg.colorSpace)
	if spaceErr != nil {
		return spaceErr
	}
	resizer, resizerErr := selectResizer(cfg.resizer, cfg.quality)
	if resizerErr != nil {
		return resizerErr
	}

	target, targetErr := decodeImage(targetPath)
	if targetErr != nil {
		return targetErr
	}

	storage, storageErr := mosaicify.GenFSDatabase(imagesPath, cfg.recursive, mosaicify.AllDecodable)
	if storageErr != nil {
		return storageErr
	}
	entry.WithField("images", int(storage.NumImages())).Debug("Enumerated source images")

	opts := mosaicify.Options{
		RowSize:         rowSize,
		ColSize:         colSize,
		ColorSpace:      space,
		AvoidDuplicates: cfg.avoidDuplicates,
		NumRoutines:     cfg.numRoutines,
		Resizer:         resizer,
		LibraryProgress: progressFunc(cfg.verbose, "Preprocessing source images",
			int(storage.NumImages())),
		MosaicProgress: progressFunc(cfg.verbose, "Generating mosaic",
			rowSize*colSize),
	}
	res, genErr := mosaicify.Generate(target, storage, opts)
	if genErr != nil {
		return genErr
	}

	if saveErr := saveImage(cfg.output, res); saveErr != nil {
		return saveErr
	}
	entry.WithField("output", cfg.output).Info("All done")
	return nil
}

func expandPath(path string) (string, error) {
	res, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(res)
}

func parseGridSize(s, name string) (int, error) {
	res, err := strconv.Atoi(s)
	if err != nil || res <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, s)
	}
	return res, nil
}

// progressFunc returns the progress reporting for a stage: structured log
// lines in verbose mode, plain lines on stdout otherwise.
func progressFunc(verbose bool, prefix string, max int) mosaicify.ProgressFunc {
	if verbose {
		return mosaicify.LoggerProgressFunc(prefix, max, 100)
	}
	return mosaicify.StdProgressFunc(os.Stdout, prefix, max, 100)
}

func selectResizer(name string, quality uint) (mosaicify.ImageResizer, error) {
	switch strings.ToLower(name) {
	case "nfnt":
		return mosaicify.NewNfntResizer(mosaicify.GetInterP(quality)), nil
	case "imaging":
		return mosaicify.NewImagingResizer(imaging.Lanczos), nil
	default:
		return nil, fmt.Errorf("unknown resize engine %q, must be 'nfnt' or 'imaging'", name)
	}
}

func decodeImage(path string) (image.Image, error) {
	r, openErr := os.Open(path)
	if openErr != nil {
		return nil, mosaicify.DecodeError{Path: path, Err: openErr}
	}
	defer r.Close()
	img, _, decodeErr := image.Decode(r)
	if decodeErr != nil {
		return nil, mosaicify.DecodeError{Path: path, Err: decodeErr}
	}
	return img, nil
}

func saveImage(path string, img image.Image) error {
	w, createErr := os.Create(path)
	if createErr != nil {
		return createErr
	}
	defer w.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	default:
		return fmt.Errorf("unsupported output format %q, use .jpg or .png", filepath.Ext(path))
	}
}
