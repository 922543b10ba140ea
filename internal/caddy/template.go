package caddy

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed caddy.json
var defaultTemplate []byte

// DefaultTemplate returns a copy of the built-in routing template
func DefaultTemplate() []byte {
	out := make([]byte, len(defaultTemplate))
	copy(out, defaultTemplate)
	return out
}

// LoadTemplate reads the routing template at path, or returns the built-in
// template when path is empty.
func LoadTemplate(path string) ([]byte, error) {
	if path == "" {
		return DefaultTemplate(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routing template: %w", err)
	}
	return data, nil
}
