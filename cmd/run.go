/*
Copyright © 2025 The fdeval authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lingforce/fdeval/internal/config"
	"github.com/lingforce/fdeval/internal/pipeline"
	"github.com/lingforce/fdeval/internal/store"
)

// errPartialFailure marks a run that completed but left some units in a
// terminal failure state. Execute maps it to exit code 1 so callers can
// tell "ran with partial failures" from "crashed before finishing".
var errPartialFailure = errors.New("run completed with failed units")

var runConfigPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full generation and evaluation pipeline",
	Long: `Load seed sentences, request one translation per (sentence, provider)
pair, blind-evaluate each translation against its references, and persist
everything in the result store.

Runs are resumable: units already in a terminal state are skipped, so
rerunning after an interruption or a partial failure only processes what
is missing. A provider failure never aborts the run; it is recorded as a
terminal failure for that unit and reflected in the exit code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(runConfigPath)
		if err != nil {
			return err
		}

		db, err := store.New(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to open result store: %w", err)
		}
		defer db.Close()

		translators, err := buildTranslators(cfg)
		if err != nil {
			return err
		}
		ev, err := buildEvaluator(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runner := pipeline.New(db, translators, ev, cfg)
		runner.Log = os.Stderr

		summary, err := runner.Run(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Run %s complete\n", summary.RunID)
		fmt.Printf("Seed rows:          %d\n", summary.SeedRows)
		fmt.Printf("Generated:          %d (skipped %d, failed %d)\n",
			summary.Generated, summary.GenerationSkipped, summary.GenerationFailed)
		fmt.Printf("Evaluated:          %d (failed %d)\n",
			summary.Evaluated, summary.EvaluationFailed)

		if totals, terr := db.Summary(ctx); terr == nil {
			fmt.Printf("Store totals:       %d generated, %d evaluated, %d failed\n",
				totals.Generated, totals.Evaluated, totals.GenerationFailed+totals.EvaluationFailed)
		}

		if n := summary.FailedUnits(); n > 0 {
			return fmt.Errorf("%d units ended in terminal failure: %w", n, errPartialFailure)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "Path to the pipeline configuration file (required)")
	runCmd.MarkFlagRequired("config")
}
