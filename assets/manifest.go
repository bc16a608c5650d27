// Package assets resolves logical widget asset paths to their content-hashed
// physical names and serves them from a static content backend.
package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DefaultManifestEnv is the environment variable the bundle uploader fills
// with the asset manifest
const DefaultManifestEnv = "__STATIC_CONTENT_MANIFEST"

// Manifest maps logical asset paths (no leading slash) to physical paths
type Manifest map[string]string

// ManifestParseError reports manifest text that is not a flat JSON object of strings
type ManifestParseError struct {
	Err error
}

func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("failed to parse asset manifest: %v", e.Err)
}

func (e *ManifestParseError) Unwrap() error {
	return e.Err
}

// ParseManifest parses raw manifest text. Empty input yields an empty manifest.
func ParseManifest(raw string) (Manifest, error) {
	if len(raw) == 0 {
		return Manifest{}, nil
	}

	var m Manifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, &ManifestParseError{Err: err}
	}
	if m == nil {
		m = Manifest{}
	}
	return m, nil
}

// ManifestSource supplies the raw manifest text. An absent manifest is
// reported as an empty string, not an error.
type ManifestSource interface {
	Load() (string, error)
}

// StaticManifest is a manifest held in memory
type StaticManifest string

// Load returns the manifest text
func (s StaticManifest) Load() (string, error) {
	return string(s), nil
}

// EnvManifest reads the manifest from an environment variable
type EnvManifest struct {
	Name string // Default: DefaultManifestEnv
}

// Load returns the variable's value, or "" when it is unset
func (s EnvManifest) Load() (string, error) {
	name := s.Name
	if name == "" {
		name = DefaultManifestEnv
	}
	raw, _ := os.LookupEnv(name)
	return raw, nil
}

// FileManifest reads the manifest from a file on every Load, so a manifest
// rewritten by a deploy is picked up without a restart
type FileManifest struct {
	Path string
}

// Load returns the file contents, or "" when the file does not exist
func (s FileManifest) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read asset manifest: %w", err)
	}
	return string(data), nil
}
