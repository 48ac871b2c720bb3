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

// Command coclust runs a single co-clustering job: read a dense matrix and
// an initial labeling, refine to convergence or a max-iterations cap, and
// write the resulting labels.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kjsanger/coclust"
	"github.com/kjsanger/coclust/config"
	"github.com/kjsanger/coclust/ioformat"
)

// Exit codes, per the CLI surface's contract: 0 success, 1 argument/config
// error, 2 I/O or clustering failure.
const (
	exitOK          = 0
	exitConfigError = 1
	exitRunError    = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		cfgPath       string
		maxIterations int
		output        string
		workers       int
		backend       string
	)

	root := &cobra.Command{
		Use:   "coclust MATRIX LABELS",
		Short: "Partition a dense matrix into row and column clusters",
		Args:  cobra.ExactArgs(2),
	}
	root.Flags().StringVar(&cfgPath, "config", "", "path to a YAML or JSON job file")
	root.Flags().IntVar(&maxIterations, "max-iterations", 0, "cap on refinement iterations (default 25)")
	root.Flags().StringVar(&output, "output", "", "path to write the resulting labels (default: stdout)")
	root.Flags().IntVar(&workers, "workers", 0, "number of simulated ranks (default: GOMAXPROCS)")
	root.Flags().StringVar(&backend, "backend", "", "data-parallel backend: pool or scalar (default: pool)")

	exitCode := exitOK
	root.RunE = func(cmd *cobra.Command, posArgs []string) error {
		job, err := buildJob(cfgPath, posArgs[0], posArgs[1], maxIterations, output, workers, backend)
		if err != nil {
			exitCode = exitConfigError
			return err
		}
		if err := execute(cmd.Context(), job); err != nil {
			exitCode = exitRunError
			return err
		}
		return nil
	}
	root.SilenceUsage = true
	root.SetArgs(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "coclust:", err)
		if exitCode == exitOK {
			exitCode = exitConfigError
		}
		return exitCode
	}
	return exitOK
}

func buildJob(cfgPath, matrixPath, labelsPath string, maxIterations int, output string, workers int, backend string) (config.Job, error) {
	job := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return config.Job{}, err
		}
		job = loaded
	}

	job.MatrixPath = matrixPath
	job.LabelsPath = labelsPath
	if maxIterations > 0 {
		job.MaxIterations = maxIterations
	}
	if output != "" {
		job.OutputPath = output
	}
	if workers > 0 {
		job.Workers = workers
	}
	if backend != "" {
		job.Backend = backend
	}
	if err := job.Validate(); err != nil {
		return config.Job{}, err
	}
	return job, nil
}

func execute(ctx context.Context, job config.Job) error {
	numRows, numCols, lbl, err := ioformat.ReadLabels(job.LabelsPath)
	if err != nil {
		return err
	}
	m, err := ioformat.ReadMatrix(job.MatrixPath, numRows, numCols)
	if err != nil {
		return err
	}

	backend := coclust.BackendGoroutinePool
	if job.Backend == "scalar" {
		backend = coclust.BackendScalar
	}

	res, err := coclust.Cluster(ctx, coclust.Config{
		MaxIterations: job.MaxIterations,
		Workers:       job.Workers,
		Backend:       backend,
	}, m, lbl)
	if err != nil {
		return err
	}

	slog.Info("coclust: run complete",
		"iterations", res.Iterations,
		"converged", res.Converged,
	)
	p := message.NewPrinter(language.English)
	p.Fprintf(os.Stderr, "coclust: examined %d cells across %d iteration(s)\n", numRows*numCols, res.Iterations)

	if job.OutputPath == "" {
		return ioformat.EncodeLabels(os.Stdout, lbl)
	}
	return ioformat.WriteLabels(job.OutputPath, lbl)
}
