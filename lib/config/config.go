// Package config loads the declaration configuration: the submitter's
// personal data, the income year and the currency rate table.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"

	"github.com/sboehler/k4/lib/fx"
	"github.com/sboehler/k4/lib/sru"
)

// Config is the top level configuration file.
type Config struct {
	Personal Personal           `yaml:"personal"`
	Rates    map[string]float64 `yaml:"rates"`
}

// Personal identifies the person filing the declaration. The field names
// follow the Skatteverket vocabulary used in the files themselves.
type Personal struct {
	PersonalNumber string `yaml:"personnummer"`
	Name           string `yaml:"namn"`
	Address        string `yaml:"adress"`
	ZipCode        string `yaml:"postnummer"`
	City           string `yaml:"postort"`
	Email          string `yaml:"email"`
	Year           int    `yaml:"inkomstar"`
}

// Load reads and validates the configuration at the given path.
func Load(path string) (*Config, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	c := new(Config)
	dec := yaml.NewDecoder(f)
	dec.SetStrict(true)
	if err := dec.Decode(c); err != nil {
		return nil, nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	warnings, err := c.validate()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return c, warnings, nil
}

// validate checks the required fields. A personal number that is not twelve
// digits is only flagged, since test submissions use placeholder numbers.
func (c *Config) validate() ([]string, error) {
	var err error
	required := []struct {
		name  string
		value string
	}{
		{"personal.personnummer", c.Personal.PersonalNumber},
		{"personal.namn", c.Personal.Name},
		{"personal.adress", c.Personal.Address},
		{"personal.postnummer", c.Personal.ZipCode},
		{"personal.postort", c.Personal.City},
		{"personal.email", c.Personal.Email},
	}
	for _, field := range required {
		if field.value == "" {
			err = multierr.Append(err, fmt.Errorf("missing field %s", field.name))
		}
	}
	if c.Personal.Year == 0 {
		err = multierr.Append(err, fmt.Errorf("missing field personal.inkomstar"))
	}
	if len(c.Rates) == 0 {
		err = multierr.Append(err, fmt.Errorf("missing rates section"))
	}
	if err != nil {
		return nil, err
	}
	var warnings []string
	if digits := strings.ReplaceAll(c.Personal.PersonalNumber, "-", ""); len(digits) != 12 {
		warnings = append(warnings, fmt.Sprintf("personnummer %s does not have twelve digits", c.Personal.PersonalNumber))
	}
	return warnings, nil
}

// FXRates returns the configured rate table. The reporting currency itself
// always maps to one.
func (c *Config) FXRates() fx.Rates {
	rates := fx.NewRates(c.Rates)
	if _, ok := rates["SEK"]; !ok {
		rates["SEK"] = decimal.New(1, 0)
	}
	return rates
}

// Submitter returns the submitter identity for the SRU files.
func (c *Config) Submitter() sru.Submitter {
	return sru.Submitter{
		PersonalNumber: c.Personal.PersonalNumber,
		Name:           c.Personal.Name,
		Address:        c.Personal.Address,
		ZipCode:        c.Personal.ZipCode,
		City:           c.Personal.City,
		Email:          c.Personal.Email,
		Year:           c.Personal.Year,
	}
}

// Default is the configuration template written by the init command.
const Default = `personal:
  personnummer: "19800101-1234"
  namn: "Anna Andersson"
  adress: "Storgatan 1"
  postnummer: "11122"
  postort: "Stockholm"
  email: "anna@example.com"
  inkomstar: 2023

rates:
  SEK: 1.0
  USD: 10.613
  EUR: 11.479
`
