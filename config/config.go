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

// Package config loads a co-clustering job description from a YAML or JSON
// file, with environment-variable overrides and defaults for anything left
// unset.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Job describes one co-clustering run: where the input lives, how many
// refinement iterations to allow, and how much parallelism to simulate.
type Job struct {
	MatrixPath string `json:"matrix_path" yaml:"matrix_path"`
	LabelsPath string `json:"labels_path" yaml:"labels_path"`
	OutputPath string `json:"output_path" yaml:"output_path"`

	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`
	Workers       int `json:"workers" yaml:"workers"`

	// Backend is "pool" (goroutine-pool, the default) or "scalar".
	Backend string `json:"backend" yaml:"backend"`
}

// Default returns a Job with the CLI's documented defaults. MatrixPath and
// LabelsPath are left empty; the caller must supply them, either from a
// config file or positional arguments.
func Default() Job {
	return Job{
		MaxIterations: 25,
		Workers:       0, // 0 means runtime.GOMAXPROCS(0); resolved by coclust.Config.
		Backend:       "pool",
	}
}

// Load reads a Job from path (YAML or JSON, sniffed from the extension, with
// a JSON-then-YAML fallback for anything else), applies COCLUST_* environment
// overrides, and fills in defaults for anything still unset.
//
// Load does not require MatrixPath/LabelsPath to be set: the CLI's
// --config flag supplies a job file that may carry only max_iterations,
// workers, or backend, with the paths coming from positional arguments
// applied after Load returns. Callers that need the full job ready to run
// should call Validate once every field is final.
func Load(path string) (Job, error) {
	job := Default()

	if path != "" {
		bs, err := os.ReadFile(path)
		if err != nil {
			return Job{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := unmarshal(path, bs, &job); err != nil {
			return Job{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnvOverrides(&job)

	if err := job.validateScalars(); err != nil {
		return Job{}, err
	}
	return job, nil
}

func unmarshal(path string, bs []byte, out *Job) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Unmarshal(bs, out)
	case ".yaml", ".yml":
		return yaml.Unmarshal(bs, out)
	default:
		if err := json.Unmarshal(bs, out); err == nil {
			return nil
		}
		if err := yaml.Unmarshal(bs, out); err == nil {
			return nil
		}
		return errors.New("unrecognized format, tried JSON and YAML")
	}
}

// Validate checks every field, including MatrixPath/LabelsPath. Call this
// once the paths are final (e.g. after the CLI has applied its positional
// arguments on top of a loaded Job) — not on the direct result of Load,
// which may not have paths set yet.
func (j Job) Validate() error {
	if j.MatrixPath == "" {
		return errors.New("config: matrix_path must be set")
	}
	if j.LabelsPath == "" {
		return errors.New("config: labels_path must be set")
	}
	return j.validateScalars()
}

// validateScalars checks the fields Load can fully resolve on its own,
// without requiring the input paths a CLI caller may still be about to
// supply.
func (j Job) validateScalars() error {
	if j.MaxIterations <= 0 {
		return fmt.Errorf("config: max_iterations must be > 0, got %d", j.MaxIterations)
	}
	if j.Workers < 0 {
		return fmt.Errorf("config: workers must be >= 0, got %d", j.Workers)
	}
	switch j.Backend {
	case "pool", "scalar":
	default:
		return fmt.Errorf("config: unsupported backend %q, want \"pool\" or \"scalar\"", j.Backend)
	}
	return nil
}

// applyEnvOverrides lets COCLUST_* variables win over file contents, so a
// batch scheduler can tweak a shared job file without rewriting it.
func applyEnvOverrides(j *Job) {
	if v := os.Getenv("COCLUST_MATRIX_PATH"); v != "" {
		j.MatrixPath = v
	}
	if v := os.Getenv("COCLUST_LABELS_PATH"); v != "" {
		j.LabelsPath = v
	}
	if v := os.Getenv("COCLUST_OUTPUT_PATH"); v != "" {
		j.OutputPath = v
	}
	if v := os.Getenv("COCLUST_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			j.MaxIterations = n
		}
	}
	if v := os.Getenv("COCLUST_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			j.Workers = n
		}
	}
	if v := os.Getenv("COCLUST_BACKEND"); v != "" {
		j.Backend = v
	}
}
