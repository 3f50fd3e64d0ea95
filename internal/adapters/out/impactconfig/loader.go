// Package impactconfig loads the per-category impact factors from a YAML file:
//
//	default:
//	  co2_per_unit: "0.5"
//	  waste_per_unit: "0.2"
//	categories:
//	  furniture:
//	    co2_per_unit: "12.4"
//	    waste_per_unit: "18"
//
// Values may be written quoted or as plain numbers; they are parsed as decimals.
package impactconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"marketplace/internal/core/domain/model/impact"

	"github.com/shopspring/decimal"
	yaml "go.yaml.in/yaml/v3"
)

type factorYAML struct {
	CO2PerUnit   string `yaml:"co2_per_unit"`
	WastePerUnit string `yaml:"waste_per_unit"`
}

type fileYAML struct {
	Default    factorYAML            `yaml:"default"`
	Categories map[string]factorYAML `yaml:"categories"`
}

// Load reads path. An empty path yields Default().
func Load(path string) (impact.Factors, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return impact.Factors{}, fmt.Errorf("read impact factors: %w", err)
	}
	factors, err := Parse(data)
	if err != nil {
		return impact.Factors{}, fmt.Errorf("%s: %w", path, err)
	}
	return factors, nil
}

// Parse decodes a factor document. Unknown keys are rejected.
func Parse(data []byte) (impact.Factors, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc fileYAML
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return impact.Factors{}, fmt.Errorf("yaml decode: %w", err)
	}

	fallback, err := doc.Default.toFactor()
	if err != nil {
		return impact.Factors{}, fmt.Errorf("default: %w", err)
	}
	byCategory := make(map[string]impact.Factor, len(doc.Categories))
	for category, f := range doc.Categories {
		factor, err := f.toFactor()
		if err != nil {
			return impact.Factors{}, fmt.Errorf("category %s: %w", category, err)
		}
		byCategory[category] = factor
	}
	return impact.NewFactors(byCategory, fallback)
}

// Default is used when no factor file is configured: every category counts zero.
func Default() impact.Factors {
	factors, _ := impact.NewFactors(nil, impact.Factor{CO2PerUnit: decimal.Zero, WastePerUnit: decimal.Zero})
	return factors
}

func (f factorYAML) toFactor() (impact.Factor, error) {
	co2, err := parseDecimal("co2_per_unit", f.CO2PerUnit)
	if err != nil {
		return impact.Factor{}, err
	}
	waste, err := parseDecimal("waste_per_unit", f.WastePerUnit)
	if err != nil {
		return impact.Factor{}, err
	}
	return impact.Factor{CO2PerUnit: co2, WastePerUnit: waste}, nil
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}
