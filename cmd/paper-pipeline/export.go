// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-pipeline/internal/archive"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the papers of an archived run as YAML, JSON or CSL",
	Long: `Export writes an archived run and its papers to stdout or --output.
The csl format writes a CSL-YAML bibliography usable with Pandoc and
reference managers.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetInt64("run")
	name, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	format, err := archive.ParseFormat(name)
	if err != nil {
		return err
	}

	store, run, papers, err := openArchiveRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	defer store.Close()

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	if err := archive.WriteExport(w, run, papers, format); err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported run %d (%d papers) to %s\n", run.ID, len(papers), output)
	}
	return nil
}

func init() {
	exportCmd.Flags().Int64("run", 0, "archived run ID (default: latest)")
	exportCmd.Flags().String("format", string(archive.FormatYAML), "export format: yaml, json or csl")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}
