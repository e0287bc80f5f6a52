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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lingforce/fdeval/internal/config"
	"github.com/lingforce/fdeval/internal/report"
	"github.com/lingforce/fdeval/internal/store"
)

var reportConfigPath string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregate evaluation scores into a summary table",
	Long: `Unblind every persisted verdict through its stored label mapping and
print mean scores per (provider, language, source). The same table is
written as scores.csv under the configured output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(reportConfigPath)
		if err != nil {
			return err
		}

		db, err := store.New(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to open result store: %w", err)
		}
		defer db.Close()

		rows, err := db.ListScores(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load scores: %w", err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("no evaluated records in %s; run the pipeline first", cfg.Database)
		}

		groups, skipped := report.Aggregate(rows)
		if skipped > 0 {
			fmt.Fprintf(os.Stderr, "Warning: %d verdicts could not be unblinded and were skipped\n", skipped)
		}

		fmt.Printf("%-16s %-16s %-12s %-8s %6s %10s\n", "PROVIDER", "MODEL", "LANGUAGE", "SOURCE", "N", "MEAN")
		for _, g := range groups {
			fmt.Printf("%-16s %-16s %-12s %-8s %6d %10.4f\n",
				g.Provider, g.Model, g.Language, g.Source, g.Count, g.Mean)
		}

		dir := cfg.Output.TablesDir
		if dir == "" {
			dir = "./tables"
		}
		path, err := report.WriteCSV(dir, groups)
		if err != nil {
			return err
		}
		fmt.Printf("\nWrote %s\n", path)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportConfigPath, "config", "c", "", "Path to the pipeline configuration file (required)")
	reportCmd.MarkFlagRequired("config")
}
