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

import "fmt"

// Stage names used to wrap errors with the phase of the pipeline in which
// they occurred. Nothing is ever retried: an error in any stage terminates
// the whole run.
const (
	StagePreprocessTarget  = "preprocessing target"
	StagePreprocessSources = "preprocessing sources"
	StageGenerate          = "generating mosaic"
)

// ConfigError describes an invalid configuration, for example a degenerate
// grid (a block dimension rounding to zero) or an empty source library.
// Configuration errors are reported before any processing begins.
type ConfigError struct {
	Reason string
}

func (err ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", err.Reason)
}

// NewConfigError returns a new ConfigError with a formatted reason.
func NewConfigError(format string, args ...interface{}) ConfigError {
	return ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// DecodeError describes a source or target image that could not be read or
// decoded. Path identifies the offending file.
type DecodeError struct {
	Path string
	Err  error
}

func (err DecodeError) Error() string {
	return fmt.Sprintf("can't decode image %q: %v", err.Path, err.Err)
}

func (err DecodeError) Unwrap() error {
	return err.Err
}

// InvariantError describes an internal error that should be unreachable
// given the construction invariants, for example mismatched feature map
// dimensions at comparison time or a search without eligible candidates.
// It is detected defensively instead of silently producing wrong output.
type InvariantError struct {
	Reason string
}

func (err InvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated: %s", err.Reason)
}

// NewInvariantError returns a new InvariantError with a formatted reason.
func NewInvariantError(format string, args ...interface{}) InvariantError {
	return InvariantError{Reason: fmt.Sprintf(format, args...)}
}

func stageError(stage string, err error) error {
	return fmt.Errorf("%s: %w", stage, err)
}
