package services

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"travel-assistant/models"
)

//go:embed destinations.yaml
var destinationsYAML []byte

// DestinationCatalog maps a travel purpose to a destination
type DestinationCatalog struct {
	Default      string            `yaml:"default"`
	Destinations map[string]string `yaml:"destinations"`
}

// LoadDestinationCatalog parses a catalog from YAML
func LoadDestinationCatalog(data []byte) (*DestinationCatalog, error) {
	var catalog DestinationCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse destination catalog: %w", err)
	}
	if catalog.Default == "" {
		return nil, fmt.Errorf("destination catalog has no default destination")
	}

	normalized := make(map[string]string, len(catalog.Destinations))
	for purpose, place := range catalog.Destinations {
		normalized[strings.ToLower(strings.TrimSpace(purpose))] = place
	}
	catalog.Destinations = normalized
	return &catalog, nil
}

// DefaultDestinationCatalog returns the built-in catalog
func DefaultDestinationCatalog() *DestinationCatalog {
	catalog, err := LoadDestinationCatalog(destinationsYAML)
	if err != nil {
		panic(err)
	}
	return catalog
}

// Recommend returns a single recommendation for purpose, echoing the budget
func (d *DestinationCatalog) Recommend(purpose, budget string) models.DestinationResults {
	key := strings.ToLower(strings.TrimSpace(purpose))
	place, ok := d.Destinations[key]
	if !ok {
		place = d.Default
	}

	return models.DestinationResults{
		Recommendations: []models.DestinationRecommendation{{
			Place:           place,
			Reason:          fmt.Sprintf("Great for %s trips", key),
			EstimatedBudget: budget,
		}},
	}
}
