// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-pipeline/internal/journals"
)

var journalsCmd = &cobra.Command{
	Use:   "journals",
	Short: "Print the journals searched by collect and watch",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := journals.Resolve(pipelineCfg.Collect.JournalsFile)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		source := "built-in list"
		if pipelineCfg.Collect.JournalsFile != "" {
			source = pipelineCfg.Collect.JournalsFile
		}
		fmt.Fprintf(out, "%d journals (%s):\n", len(list), source)
		for i, j := range list {
			fmt.Fprintf(out, "%3d. %s\n", i+1, j)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(journalsCmd)
}
