// Package catalog holds the closed office catalog and the bilingual field
// labels consumed by the form UI. The catalog validates routing targets on
// the write path; it is read-only reference data, not owned records.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	dErrors "protokollo/pkg/domain-errors"
)

// Office is one routing destination: a code used in registrations and a
// display label.
type Office struct {
	Code  string `yaml:"code" json:"code"`
	Label string `yaml:"label" json:"label"`
}

// Catalog is an immutable office lookup table built at startup.
type Catalog struct {
	offices []Office
	byCode  map[string]Office
}

// defaultOffices matches the office structure of the unit this system was
// built for.
var defaultOffices = []Office{
	{Code: "1ο ΓΡΑΦΕΙΟ", Label: "1ο Γραφείο"},
	{Code: "2ο ΓΡΑΦΕΙΟ", Label: "2ο Γραφείο"},
	{Code: "3ο ΓΡΑΦΕΙΟ", Label: "3ο Γραφείο"},
	{Code: "4ο ΓΡΑΦΕΙΟ", Label: "4ο Γραφείο"},
	{Code: "ΔΙΟΙΚΗΤΗΣ", Label: "Διοικητής"},
	{Code: "ΥΠΑΣΠΙΣΤΗΡΙΟ", Label: "Υπασπιστήριο"},
}

// New builds a catalog from an explicit office list.
func New(offices []Office) (*Catalog, error) {
	if len(offices) == 0 {
		return nil, fmt.Errorf("office catalog must not be empty")
	}
	byCode := make(map[string]Office, len(offices))
	for _, o := range offices {
		if o.Code == "" {
			return nil, fmt.Errorf("office catalog entry with empty code")
		}
		if _, dup := byCode[o.Code]; dup {
			return nil, fmt.Errorf("duplicate office code %q in catalog", o.Code)
		}
		byCode[o.Code] = o
	}
	return &Catalog{offices: offices, byCode: byCode}, nil
}

// Load reads the catalog from a YAML file; an empty path falls back to the
// compiled-in default list.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return New(defaultOffices)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read office catalog %s: %w", path, err)
	}
	var file struct {
		Offices []Office `yaml:"offices"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse office catalog %s: %w", path, err)
	}
	cat, err := New(file.Offices)
	if err != nil {
		return nil, fmt.Errorf("office catalog %s: %w", path, err)
	}
	return cat, nil
}

// Offices returns the catalog in display order.
func (c *Catalog) Offices() []Office {
	return c.offices
}

// Has reports whether a code is in the catalog.
func (c *Catalog) Has(code string) bool {
	_, ok := c.byCode[code]
	return ok
}

// ValidateCodes rejects the first code not present in the catalog.
func (c *Catalog) ValidateCodes(codes []string) error {
	for _, code := range codes {
		if !c.Has(code) {
			return dErrors.Newf(dErrors.CodeValidation, "unknown office code %q", code).WithField("offices")
		}
	}
	return nil
}

// FieldLabel is a bilingual form label.
type FieldLabel struct {
	El string `json:"el"`
	En string `json:"en"`
}

// FieldLabels returns the el/en labels for every submission field, keyed by
// JSON field name.
func FieldLabels() map[string]FieldLabel {
	return map[string]FieldLabel{
		"issuer":          {El: "Αποστολέας", En: "Issuer"},
		"referenceNumber": {El: "Αρ. Αναφοράς", En: "Reference Number"},
		"subject":         {El: "Θέμα", En: "Subject"},
		"recipient":       {El: "Παραλήπτης", En: "Recipient"},
		"offices":         {El: "Γραφεία", En: "Offices"},
		"entryDate":       {El: "Ημερομηνία Καταχώρησης", En: "Entry Date"},
	}
}
