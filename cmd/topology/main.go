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

// Command topology prints host concurrency diagnostics and, given a job
// shape, previews the row/column partition plan coclust.Cluster would use.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kjsanger/coclust/internal/topology"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var numRows, numCols, workers int

	root := &cobra.Command{
		Use:   "topology",
		Short: "Report host concurrency diagnostics and preview a job's partition plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Println(topology.Detect())
			if numRows > 0 && numCols > 0 && workers > 0 {
				plan, err := topology.PlanJob(numRows, numCols, workers)
				if err != nil {
					return err
				}
				fmt.Printf("row slabs (rows=%d, workers=%d): counts=%v disp=%v\n",
					numRows, workers, plan.RowPlan.Counts, plan.RowPlan.Disp)
				fmt.Printf("col slabs (cols=%d, workers=%d): counts=%v disp=%v\n",
					numCols, workers, plan.ColPlan.Counts, plan.ColPlan.Disp)
			}
			return nil
		},
	}
	root.Flags().IntVar(&numRows, "rows", 0, "preview row partitioning for this many rows")
	root.Flags().IntVar(&numCols, "cols", 0, "preview column partitioning for this many columns")
	root.Flags().IntVar(&workers, "workers", 0, "number of simulated ranks for the preview")
	root.SilenceUsage = true
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "topology:", err)
		return 1
	}
	return 0
}
