package simulate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/standings/internal/domain/model"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o640
)

// LoadDivision reads a division from a .json, .yaml or .yml file.
func LoadDivision(path string) (model.Division, error) {
	var d model.Division
	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&d)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &d)
	default:
		return d, fmt.Errorf("%w: %s", ErrFileFormat, path)
	}
	if err != nil {
		return d, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return d, nil
}

// SaveDivision writes d as JSON or YAML depending on the file extension.
func SaveDivision(path string, d model.Division) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := yaml.Marshal(d)
		if err != nil {
			return fmt.Errorf("failed to encode division: %w", err)
		}
		return writeFile(path, data)
	case ".json":
		return writeJSON(path, d)
	default:
		return fmt.Errorf("%w: %s", ErrFileFormat, path)
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return writeFile(path, append(data, '\n'))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
