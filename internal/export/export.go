// Package export writes a snapshot of the recipe list as JSON or YAML.
// The snapshot is a one-off copy; nothing reads it back.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/recipes/internal/model"
)

// Format is a serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
}

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Write serializes recipes to w.
func Write(w io.Writer, recipes []model.Recipe, f Format) error {
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	var b []byte
	var err error
	switch f {
	case FormatJSON:
		b, err = json.MarshalIndent(recipes, "", "  ")
		if err == nil {
			b = append(b, '\n')
		}
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(recipes); err == nil {
			err = enc.Close()
		}
		b = buf.Bytes()
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
	if err != nil {
		return fmt.Errorf("%s marshal: %w", f, err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// WriteFile serializes recipes to path, replacing any existing file.
func WriteFile(path string, recipes []model.Recipe, f Format) error {
	var buf bytes.Buffer
	if err := Write(&buf, recipes, f); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
