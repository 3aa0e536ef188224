// Package seed provides the facilities and staff that every fresh store starts with.
package seed

import (
	"bytes"
	_ "embed"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/models"
	"gopkg.in/yaml.v3"
	"log/slog"
)

//go:embed seed.yaml
var seedYAML []byte

// Data is the content of a seed document.
type Data struct {
	Facilities []models.Facility  `yaml:"facilities"`
	Inspectors []models.Inspector `yaml:"inspectors"`
}

// Load decodes the embedded seed document.
func Load() (Data, error) {
	var data Data
	if err := yaml.NewDecoder(bytes.NewReader(seedYAML)).Decode(&data); err != nil {
		return Data{}, errors.Wrap(err, "decode seed data")
	}
	for i, f := range data.Facilities {
		if !f.Type.Valid() {
			return Data{}, errors.New("seed facility has unknown type",
				slog.String("facility_id", f.ID), slog.String("type", string(f.Type)))
		}
		if f.Specialties == nil {
			data.Facilities[i].Specialties = []string{}
		}
	}
	return data, nil
}
