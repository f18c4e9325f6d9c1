// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: ncbi-api-key, ncbi-email, s3-access-key, s3-secret-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// DefaultDir is where the CLI looks for secret files.
const DefaultDir = ".secrets"

// Key file names.
const (
	NCBIAPIKey  = "ncbi-api-key"
	NCBIEmail   = "ncbi-email"
	S3AccessKey = "s3-access-key"
	S3SecretKey = "s3-secret-key"
)

// Secrets maps key file names to their values.
type Secrets map[string]string

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings but do not abort.
func Load(dir string, log *zap.Logger) (Secrets, error) {
	if log == nil {
		log = zap.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Secrets)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply fills credentials in cfg that configuration left empty.
// Values already set by flags, environment or config file win.
func (s Secrets) Apply(cfg *types.PipelineConfig) {
	fill(&cfg.PubMed.APIKey, s[NCBIAPIKey])
	fill(&cfg.PubMed.Email, s[NCBIEmail])
	fill(&cfg.Publish.AccessKey, s[S3AccessKey])
	fill(&cfg.Publish.SecretKey, s[S3SecretKey])
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
