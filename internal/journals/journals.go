// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journals holds the catalogue of journals searched on every run.
package journals

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// defaults is the built-in catalogue, searched in this order.
var defaults = []string{
	"ACS Synthetic Biology",
	"Annual Review of Microbiology",
	"Bioinformatics",
	"Cell",
	"Cell Chemical Biology",
	"Cell Reports",
	"Cell Systems",
	"Chemical Science",
	"Current Opinion in Biotechnology",
	"Metabolic Engineering",
	"Nature",
	"Nature Biotechnology",
	"Nature Catalysis",
	"Nature Chemical Biology",
	"Nature Communications",
	"Nature Computational Science",
	"Nature Machine Intelligence",
	"Nature Metabolism",
	"Nature Methods",
	"Nature Microbiology",
	"Nature Reviews Molecular Cell Biology",
	"Nature Structural & Molecular Biology",
	"Nucleic Acids Research",
	"PLOS Biology",
	"PLOS Computational Biology",
	"PNAS",
	"Protein Science",
	"Science",
	"Science Advances",
	"Trends in Biochemical Sciences",
	"Trends in Biotechnology",
}

// File is the on-disk form of a journal list.
type File struct {
	Journals []string `yaml:"journals"`
}

// Default returns a copy of the built-in journal list.
func Default() []string {
	out := make([]string, len(defaults))
	copy(out, defaults)
	return out
}

// Load reads a journal list from a YAML file. Blank entries are dropped and
// duplicates removed, keeping the first occurrence.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading journal file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing journal file %s: %w", path, err)
	}
	list := normalize(f.Journals)
	if len(list) == 0 {
		return nil, fmt.Errorf("journal file %s lists no journals", path)
	}
	return list, nil
}

// Resolve returns the list from path, or the built-in list when path is empty.
func Resolve(path string) ([]string, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func normalize(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, j := range in {
		j = strings.TrimSpace(j)
		if j == "" || seen[j] {
			continue
		}
		seen[j] = true
		out = append(out, j)
	}
	return out
}
