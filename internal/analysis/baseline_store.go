package analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/encoding"
)

// BaselineStore persists industry baselines as one JSON file per industry.
type BaselineStore struct {
	dataDir string
}

// NewBaselineStore creates a store rooted at dataDir.
func NewBaselineStore(dataDir string) *BaselineStore {
	return &BaselineStore{dataDir: dataDir}
}

// LoadBaseline loads the baseline of one industry. A missing file returns the
// built-in baseline for that key, or the global fallback.
func (s *BaselineStore) LoadBaseline(key string) (*IndustryBaseline, error) {
	filePath := filepath.Join(s.dataDir, fmt.Sprintf("%s.json", key))

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		b, _ := DefaultBenchmarkTable().Resolve(key)
		return &b, nil
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var data IndustryBaseline
	if err := encoding.UnmarshalJSON(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode baseline %s: %w", key, err)
	}
	if data.Key == "" {
		data.Key = key
	}

	return &data, nil
}

// SaveBaseline writes the baseline to <dataDir>/<key>.json.
func (s *BaselineStore) SaveBaseline(data *IndustryBaseline) error {
	if data.Key == "" {
		return fmt.Errorf("baseline has no key")
	}
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create baseline directory: %w", err)
	}

	raw, err := encoding.Default().MarshalIndent(data, "  ")
	if err != nil {
		return fmt.Errorf("failed to encode baseline %s: %w", data.Key, err)
	}

	filePath := filepath.Join(s.dataDir, fmt.Sprintf("%s.json", data.Key))
	if err := os.WriteFile(filePath, append(raw, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write baseline file: %w", err)
	}

	return nil
}

// LoadAll reads every baseline file in the directory, sorted by key.
// A missing directory yields no baselines.
func (s *BaselineStore) LoadAll() ([]IndustryBaseline, error) {
	entries, err := os.ReadDir(s.dataDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline directory: %w", err)
	}

	var keys []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(keys)

	out := make([]IndustryBaseline, 0, len(keys))
	for _, key := range keys {
		b, err := s.LoadBaseline(key)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}

// Export writes every baseline of a table, the fallback included.
func (s *BaselineStore) Export(table *BenchmarkTable) error {
	fallback := table.Fallback()
	if err := s.SaveBaseline(&fallback); err != nil {
		return err
	}
	for _, b := range table.Industries() {
		b := b
		if err := s.SaveBaseline(&b); err != nil {
			return fmt.Errorf("failed to save baseline for %s: %w", b.Key, err)
		}
	}
	return nil
}
