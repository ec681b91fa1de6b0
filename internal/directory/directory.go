// Package directory loads the counselor directory and keeps it current.
package directory

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDirectory indicates a directory file that is not a
// workerSid -> full name mapping.
var ErrInvalidDirectory = errors.New("invalid counselor directory")

// Load reads a YAML mapping of worker SIDs to counselor names. A missing file
// is an empty directory.
func Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	return Parse(data)
}

// Parse decodes a directory document.
func Parse(data []byte) (map[string]string, error) {
	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDirectory, err)
	}
	out := make(map[string]string, len(raw))
	for sid, name := range raw {
		sid = strings.TrimSpace(sid)
		if sid == "" {
			return nil, fmt.Errorf("%w: empty worker sid", ErrInvalidDirectory)
		}
		out[sid] = strings.TrimSpace(name)
	}
	return out, nil
}
