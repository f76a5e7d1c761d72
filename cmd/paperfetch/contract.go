// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperfetch/internal/fetch"
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Print the fetch stage's input and output fields",
	Long: `Contract prints, as YAML, the fields the fetch stage reads from an
incoming record and the fields it writes, with their types. Pipeline
orchestrators use it to wire stages together.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(fetch.Contract())
	},
}

func init() {
	rootCmd.AddCommand(contractCmd)
}
