// Package store reads and writes the raw FPL JSON the engine consumes.
// Layout under the root mirrors the API: bootstrap/bootstrap-static.json
// holds teams and elements, fixtures/fixtures.json holds the fixture list.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fplkit/squad-engine/internal/model"
)

const (
	BootstrapPath = "bootstrap/bootstrap-static.json"
	FixturesPath  = "fixtures/fixtures.json"
)

type JSONStore struct {
	Root string // e.g. "data/raw"
}

func NewJSONStore(root string) *JSONStore {
	return &JSONStore{Root: root}
}

func (s *JSONStore) Path(rel string) string {
	return filepath.Join(s.Root, rel)
}

func (s *JSONStore) Exists(rel string) bool {
	_, err := os.Stat(s.Path(rel))
	return err == nil
}

func (s *JSONStore) WriteRaw(rel string, body []byte, pretty bool) error {
	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	if pretty {
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			buf := &bytes.Buffer{}
			enc := json.NewEncoder(buf)
			enc.SetIndent("", "  ")
			_ = enc.Encode(v)
			body = buf.Bytes()
		}
	}

	return os.WriteFile(path, body, 0o644)
}

func (s *JSONStore) ReadRaw(rel string) ([]byte, error) {
	path := s.Path(rel)
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return b, err
}

// LoadDataset assembles the engine input from the raw files. A top-level
// shape mismatch (elements or fixtures not a list) is an error; per-field
// problems are left to the engine's lenient parsing.
func (s *JSONStore) LoadDataset() (model.Dataset, error) {
	raw, err := s.ReadRaw(BootstrapPath)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("read bootstrap: %w", err)
	}
	var bootstrap struct {
		Teams    []model.Team   `json:"teams"`
		Elements []model.Player `json:"elements"`
	}
	if err := json.Unmarshal(raw, &bootstrap); err != nil {
		return model.Dataset{}, fmt.Errorf("decode bootstrap: %w", err)
	}
	if bootstrap.Teams == nil || bootstrap.Elements == nil {
		return model.Dataset{}, fmt.Errorf("bootstrap is missing teams or elements")
	}

	raw, err = s.ReadRaw(FixturesPath)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("read fixtures: %w", err)
	}
	var fixtureList []model.Fixture
	if err := json.Unmarshal(raw, &fixtureList); err != nil {
		return model.Dataset{}, fmt.Errorf("decode fixtures: %w", err)
	}

	return model.Dataset{
		Teams:    bootstrap.Teams,
		Fixtures: fixtureList,
		Players:  bootstrap.Elements,
	}, nil
}
