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
	"github.com/lingforce/fdeval/internal/seed"
)

var (
	seedsConfigPath string
	seedsDetect     bool
)

var seedsCmd = &cobra.Command{
	Use:   "seeds",
	Short: "Inspect seed data files",
}

var seedsVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Validate seed files without writing anything",
	Long: `Load every configured seed file and report row counts per language.
Malformed rows and duplicate ids fail the command.

With --detect, each human translation is additionally run through a
language detector and rows whose detected language disagrees with the
declared one are reported as warnings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(seedsConfigPath)
		if err != nil {
			return err
		}

		loader := seed.NewLoader(cfg.SeedDir, cfg.Languages)
		rows, err := loader.Load()
		if err != nil {
			return err
		}

		counts := make(map[string]int)
		for _, row := range rows {
			counts[row.Language]++
		}
		for _, lang := range cfg.Languages {
			fmt.Printf("%-12s %d rows\n", lang, counts[lang])
		}
		fmt.Printf("%-12s %d rows\n", "total", len(rows))

		if seedsDetect {
			issues := seed.VerifyLanguages(rows)
			for _, issue := range issues {
				fmt.Fprintf(os.Stderr, "Warning: row %s declared %s but reads as %s\n",
					issue.RowID, issue.Declared, issue.Detected)
			}
			if len(issues) == 0 {
				fmt.Println("Language detection: no mismatches")
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedsCmd)
	seedsCmd.AddCommand(seedsVerifyCmd)

	seedsVerifyCmd.Flags().StringVarP(&seedsConfigPath, "config", "c", "", "Path to the pipeline configuration file (required)")
	seedsVerifyCmd.Flags().BoolVar(&seedsDetect, "detect", false, "Cross-check declared languages with a language detector")
	seedsVerifyCmd.MarkFlagRequired("config")
}
