package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileFormat struct {
	Plans       []Plan            `yaml:"plans"`
	AddOns      []AddOn           `yaml:"add_ons"`
	Maintenance []MaintenancePlan `yaml:"maintenance"`
}

// Load reads a YAML catalog file. A missing features key on a plan yields
// an empty feature list.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML catalog data.
func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Plans) == 0 {
		return nil, fmt.Errorf("%w: no plans defined", ErrInvalidCatalog)
	}
	return New(f.Plans, f.AddOns, f.Maintenance)
}
