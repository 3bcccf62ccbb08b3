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
	"bytes"
	"strings"
	"testing"
)

func TestStdProgressFunc(t *testing.T) {
	var buf bytes.Buffer
	progress := StdProgressFunc(&buf, "Building", 200, 100)
	for i := 0; i < 200; i++ {
		progress(i)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"Building: 0 of 200 (0.0%)",
		"Building: 100 of 200 (50.0%)",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d progress lines, want %d: %q", len(lines), len(want), lines)
	}
	for i, line := range lines {
		if line != want[i] {
			t.Errorf("line %d = %q, want %q", i, line, want[i])
		}
	}
}

func TestStdProgressFuncNoPrefix(t *testing.T) {
	var buf bytes.Buffer
	StdProgressFunc(&buf, "", 10, -1)(5)
	if got := buf.String(); got != "Progress: 5 of 10 (50.0%)\n" {
		t.Errorf("unexpected progress line %q", got)
	}
}

func TestStdProgressFuncSilent(t *testing.T) {
	var buf bytes.Buffer
	// a step of 0 and an empty workload both disable the output entirely
	StdProgressFunc(&buf, "Building", 100, 0)(50)
	StdProgressFunc(&buf, "Building", 0, 100)(0)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestProgressIgnore(t *testing.T) {
	// must accept any value without side effects
	ProgressIgnore(0)
	ProgressIgnore(-1)
	ProgressIgnore(1 << 20)
}
