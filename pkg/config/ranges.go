package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/shiftlog/pkg/models"
)

// RangeOverlay is the admin-maintained ranges file. It replaces built-in
// defaults per equipment type and parameter, and may preset instance
// overrides including critical bounds.
//
//	defaults:
//	  pump:
//	    pressure: {min: 60, max: 140, critical_min: 30, critical_max: 190, uom: psi}
//	equipment:
//	  P-101:
//	    pressure: {min: 70, max: 130, critical_min: 40, critical_max: 180, uom: psi}
type RangeOverlay struct {
	Defaults  map[models.EquipmentType]map[models.Parameter]models.EquipmentRange `yaml:"defaults"`
	Equipment map[string]map[models.Parameter]models.EquipmentRange               `yaml:"equipment"`
}

// LoadRangeOverlay parses and validates a ranges file. An empty path yields
// an empty overlay.
func LoadRangeOverlay(path string) (*RangeOverlay, error) {
	overlay := &RangeOverlay{}
	if path == "" {
		return overlay, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ranges file: %w", err)
	}
	if err := yaml.Unmarshal(data, overlay); err != nil {
		return nil, fmt.Errorf("failed to parse ranges file: %w", err)
	}
	if err := overlay.validate(); err != nil {
		return nil, err
	}
	return overlay, nil
}

func (o *RangeOverlay) validate() error {
	for eqType, params := range o.Defaults {
		if _, ok := models.ParseEquipmentType(string(eqType)); !ok {
			return fmt.Errorf("ranges file: unknown equipment type %q", eqType)
		}
		for param, rng := range params {
			if err := validateOverlayRange(string(eqType), param, rng); err != nil {
				return err
			}
		}
	}
	for id, params := range o.Equipment {
		for param, rng := range params {
			if err := validateOverlayRange(id, param, rng); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateOverlayRange(owner string, param models.Parameter, rng models.EquipmentRange) error {
	if _, ok := models.ParseParameter(string(param)); !ok {
		return fmt.Errorf("ranges file: %s: unknown parameter %q", owner, param)
	}
	if !rng.Valid() {
		return fmt.Errorf("ranges file: %s %s: bounds must satisfy critical_min <= min < max <= critical_max", owner, param)
	}
	return nil
}

// ApplyDefaults returns base with the overlay's type defaults merged in.
func (o *RangeOverlay) ApplyDefaults(base map[models.TypeParam]models.EquipmentRange) map[models.TypeParam]models.EquipmentRange {
	for eqType, params := range o.Defaults {
		for param, rng := range params {
			rng.Source = models.RangeSourceDefault
			base[models.TypeParam{Type: eqType, Parameter: param}] = rng
		}
	}
	return base
}

// Overrides returns the overlay's per-equipment entries.
func (o *RangeOverlay) Overrides() []models.RangeOverride {
	var out []models.RangeOverride
	for id, params := range o.Equipment {
		for param, rng := range params {
			rng.Source = models.RangeSourceOverride
			out = append(out, models.RangeOverride{EquipmentID: id, Parameter: param, Range: rng})
		}
	}
	return out
}
