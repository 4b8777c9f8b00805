package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedAssetType is returned for reference files of unknown type.
var ErrUnsupportedAssetType = errors.New("unsupported asset type")

// LoadAsset decodes a structured asset (.yaml, .yml or .json) from fsys into v.
// Missing files and unsupported extensions are hard failures.
func LoadAsset(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read asset %s: %w", name, err)
	}

	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode asset %s: %w", name, err)
		}
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode asset %s: %w", name, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedAssetType, name)
	}
	return nil
}

// LoadTable reads a .csv asset into header-keyed rows.
// Header names are matched case-insensitively by Row.Get.
func LoadTable(fsys fs.FS, name string) ([]Row, error) {
	if ext := strings.ToLower(path.Ext(name)); ext != ".csv" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAssetType, name)
	}

	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header %s: %w", name, err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	var rows []Row
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		rows = append(rows, Row{cells: rec, idx: idx})
	}
	return rows, nil
}

// Row is one record of a CSV asset.
type Row struct {
	cells []string
	idx   map[string]int
}

// Get returns the trimmed cell for column, or "" when absent.
func (r Row) Get(column string) string {
	i, ok := r.idx[strings.ToLower(column)]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}
