// Package envfile reads and writes the .env file docker compose consumes.
package envfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Parse reads a .env file with compose's rules: # comments (also after an
// unquoted value), an optional "export " prefix, single and double quotes.
// ${VAR} references are expanded from earlier lines.
func Parse(r io.Reader) (map[string]string, error) {
	vars, err := godotenv.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse env file: %w", err)
	}
	return vars, nil
}

// Render substitutes ${...} expressions on every non-comment line with
// lookup, then parses the result. It reads .env.sample style templates.
func Render(r io.Reader, lookup Lookup) (map[string]string, error) {
	var b strings.Builder
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if !strings.HasPrefix(strings.TrimSpace(line), "#") {
			rendered, err := Substitute(line, lookup)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			line = rendered
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read env template: %w", err)
	}
	return Parse(strings.NewReader(b.String()))
}

// Load parses the env file at path
func Load(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vars, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vars, nil
}

// RenderFile renders the env template at path. A missing file returns the
// os error unwrapped so callers can test it with os.IsNotExist.
func RenderFile(path string, lookup Lookup) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vars, err := Render(f, lookup)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vars, nil
}

// Encode renders vars in .env format with keys sorted alphabetically.
// Integers are written bare, everything else double-quoted and escaped.
func Encode(vars map[string]string) (string, error) {
	out, err := godotenv.Marshal(vars)
	if err != nil {
		return "", fmt.Errorf("failed to encode env file: %w", err)
	}
	if out != "" {
		out += "\n"
	}
	return out, nil
}

// Save writes vars to path atomically with mode 0600
func Save(path string, vars map[string]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create env directory: %w", err)
	}

	data, err := Encode(vars)
	if err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, ".env.tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := tmpFile.Chmod(0o600); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to set permissions on temp file: %w", err)
	}
	if _, err := tmpFile.WriteString(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write env file %s: %w", path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace env file %s: %w", path, err)
	}
	return nil
}
