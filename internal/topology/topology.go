// Copyright 2025 coclust Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package topology reports how many simulated ranks a machine can usefully
// run and how a given job would be sliced across them, so an operator can
// sanity-check worker/slab balance before launching a large job.
package topology

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/kjsanger/coclust/partition"
)

// Report describes the host's concurrency diagnostics.
type Report struct {
	GOOS       string
	GOARCH     string
	NumCPU     int
	GOMAXPROCS int

	// CPUFeatures lists the architecture-specific features golang.org/x/sys/cpu
	// detected. Populated only for amd64 and arm64; empty elsewhere.
	CPUFeatures []string
}

// Detect builds a Report for the running process.
func Detect() Report {
	return Report{
		GOOS:        runtime.GOOS,
		GOARCH:      runtime.GOARCH,
		NumCPU:      runtime.NumCPU(),
		GOMAXPROCS:  runtime.GOMAXPROCS(0),
		CPUFeatures: detectFeatures(),
	}
}

func detectFeatures() []string {
	switch runtime.GOARCH {
	case "amd64":
		var features []string
		add := func(name string, has bool) {
			if has {
				features = append(features, name)
			}
		}
		add("AVX", cpu.X86.HasAVX)
		add("AVX2", cpu.X86.HasAVX2)
		add("AVX512F", cpu.X86.HasAVX512F)
		add("AVX512BW", cpu.X86.HasAVX512BW)
		add("AVX512VL", cpu.X86.HasAVX512VL)
		add("FMA", cpu.X86.HasFMA)
		add("SSE2", cpu.X86.HasSSE2)
		add("SSE41", cpu.X86.HasSSE41)
		add("SSE42", cpu.X86.HasSSE42)
		return features
	case "arm64":
		var features []string
		add := func(name string, has bool) {
			if has {
				features = append(features, name)
			}
		}
		add("ASIMD", cpu.ARM64.HasASIMD)
		add("FP", cpu.ARM64.HasFP)
		add("FPHP", cpu.ARM64.HasFPHP)
		add("ASIMDHP", cpu.ARM64.HasASIMDHP)
		add("SVE", cpu.ARM64.HasSVE)
		add("SVE2", cpu.ARM64.HasSVE2)
		add("CRC32", cpu.ARM64.HasCRC32)
		add("ATOMICS", cpu.ARM64.HasATOMICS)
		return features
	default:
		return nil
	}
}

// SlabPlan previews how Cluster would partition a numRows x numCols job
// across the given number of simulated ranks.
type SlabPlan struct {
	Workers int
	RowPlan partition.Plan
	ColPlan partition.Plan
}

// PlanJob computes the row and column partition plans coclust.Cluster would
// derive for the given job shape, without running any clustering.
func PlanJob(numRows, numCols, workers int) (SlabPlan, error) {
	rowPlan, err := partition.Compute(numRows, workers)
	if err != nil {
		return SlabPlan{}, fmt.Errorf("topology: row partition: %w", err)
	}
	colPlan, err := partition.Compute(numCols, workers)
	if err != nil {
		return SlabPlan{}, fmt.Errorf("topology: column partition: %w", err)
	}
	return SlabPlan{Workers: workers, RowPlan: rowPlan, ColPlan: colPlan}, nil
}

// String renders the report the way an operator would read it on a
// terminal.
func (r Report) String() string {
	s := fmt.Sprintf("GOOS=%s GOARCH=%s NumCPU=%d GOMAXPROCS=%d", r.GOOS, r.GOARCH, r.NumCPU, r.GOMAXPROCS)
	if len(r.CPUFeatures) > 0 {
		s += fmt.Sprintf(" features=%v", r.CPUFeatures)
	}
	return s
}
