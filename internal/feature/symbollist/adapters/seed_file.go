package adapters

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"stock_explorer/internal/feature/symbollist/domain/entity"
)

// LoadSeedFile reads the symbols listed in a YAML seed file.
// Entries default to active unless they set active: false.
func LoadSeedFile(path string) ([]entity.Symbol, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(b)
}

// ParseSeed decodes seed YAML.
func ParseSeed(b []byte) ([]entity.Symbol, error) {
	var raw struct {
		Symbols []yaml.Node `yaml:"symbols"`
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	out := make([]entity.Symbol, 0, len(raw.Symbols))
	for i := range raw.Symbols {
		s := entity.Symbol{IsActive: true}
		if err := raw.Symbols[i].Decode(&s); err != nil {
			return nil, fmt.Errorf("parse seed entry %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}
