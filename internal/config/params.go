package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/maglev/internal/physics"
)

var paramFields = map[string]func(*ConstantsConfig) *float64{
	"resistivity":   func(k *ConstantsConfig) *float64 { return &k.Resistivity },
	"permeability":  func(k *ConstantsConfig) *float64 { return &k.Permeability },
	"thickness":     func(k *ConstantsConfig) *float64 { return &k.Thickness },
	"end_thickness": func(k *ConstantsConfig) *float64 { return &k.EndThickness },
	"standoff":      func(k *ConstantsConfig) *float64 { return &k.Standoff },
	"side_length":   func(k *ConstantsConfig) *float64 { return &k.SideLength },
	"spacing":       func(k *ConstantsConfig) *float64 { return &k.Spacing },
	"magnetization": func(k *ConstantsConfig) *float64 { return &k.Magnetization },
}

// ParamNames lists the constants that can be set by name.
func ParamNames() []string {
	names := make([]string, 0, len(paramFields)+1)
	for name := range paramFields {
		names = append(names, name)
	}
	names = append(names, "num_magnets")
	sort.Strings(names)
	return names
}

// Set assigns a constant by its yaml name. num_magnets must be integral.
func (c *Config) Set(name string, value float64) error {
	if name == "num_magnets" {
		n := int(value)
		if float64(n) != value {
			return &physics.ConfigError{Field: name, Value: value, Reason: "must be an integer"}
		}
		c.Constants.NumMagnets = n
		return nil
	}
	field, ok := paramFields[name]
	if !ok {
		return fmt.Errorf("unknown parameter %q: %w", name, physics.ErrInvalidConfig)
	}
	*field(&c.Constants) = value
	return nil
}

// Apply sets every parameter in params.
func (c *Config) Apply(params map[string]float64) error {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := c.Set(name, params[name]); err != nil {
			return err
		}
	}
	return nil
}

// Get returns a constant by its yaml name.
func (c *Config) Get(name string) (float64, error) {
	if name == "num_magnets" {
		return float64(c.Constants.NumMagnets), nil
	}
	field, ok := paramFields[name]
	if !ok {
		return 0, fmt.Errorf("unknown parameter %q: %w", name, physics.ErrInvalidConfig)
	}
	return *field(&c.Constants), nil
}
