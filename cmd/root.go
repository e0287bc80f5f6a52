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
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "fdeval",
	Short: "Force Dynamics translation evaluation pipeline",
	Long: `A research pipeline that translates seed sentences through multiple
LLM providers, blind-evaluates each translation against its human and
machine references using the Force Dynamics framework, and persists
everything in a local SQLite store so runs are resumable and reproducible.

Use "fdeval run --help" to start a pipeline run.`,
	Version: version,
}

// Execute runs the CLI. Exit codes: 0 on clean success, 1 when a run
// completed but some units ended in a terminal failure state, 2 on any
// failure before or during the run itself.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errPartialFailure) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
