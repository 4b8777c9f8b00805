// Package core provides the item configuration logic: quality tag assembly,
// description composition and DataLoad serialization.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mode selects which DataLoad template is expanded.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
)

// ParseMode converts a user supplied string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCreate:
		return ModeCreate, nil
	case ModeUpdate:
		return ModeUpdate, nil
	default:
		return "", fmt.Errorf("%w %q: expected create or update", ErrInvalidMode, s)
	}
}

// QualityTag is a quality document reference and its description line.
// The bracket style of Code ("[SQ58]" vs "<SQ113>") is preserved verbatim.
type QualityTag struct {
	Code string `json:"code" yaml:"code" validate:"required"`
	Line string `json:"line" yaml:"line"`
}

// FeatureFlags are the service conditions and coatings selected for one part.
type FeatureFlags struct {
	HFService   bool `json:"hf_service" yaml:"hf_service"`
	TMTService  bool `json:"tmt_service" yaml:"tmt_service"`
	Overlay     bool `json:"overlay" yaml:"overlay"`
	HVOF        bool `json:"hvof" yaml:"hvof"`
	Water       bool `json:"water" yaml:"water"`
	Stamicarbon bool `json:"stamicarbon" yaml:"stamicarbon"`

	// IncludeStandard adds [SQ58] and [CORP-ENG-0115] ahead of everything else.
	IncludeStandard bool `json:"include_standard" yaml:"include_standard"`

	// Extra tags contributed by part or material specific rules. Always last.
	Extra []QualityTag `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// DefaultFlags returns flags with only the standard tags enabled.
func DefaultFlags() FeatureFlags {
	return FeatureFlags{IncludeStandard: true}
}

// MaterialTypeMiscellaneous is the catch-all material type. Selections of this
// type carry no prefix and pick their name from the unfiltered pool.
const MaterialTypeMiscellaneous = "MISCELLANEOUS"

// MaterialSelection identifies a material by type, prefix and name.
type MaterialSelection struct {
	Type   string `json:"type" yaml:"type"`
	Prefix string `json:"prefix" yaml:"prefix"`
	Name   string `json:"name" yaml:"name"`
}

// IsZero reports whether no material was selected.
func (m MaterialSelection) IsZero() bool {
	return strings.TrimSpace(m.Type) == "" &&
		strings.TrimSpace(m.Prefix) == "" &&
		strings.TrimSpace(m.Name) == ""
}

// IsMiscellaneous reports whether the selection uses the catch-all type.
func (m MaterialSelection) IsMiscellaneous() bool {
	return strings.EqualFold(strings.TrimSpace(m.Type), MaterialTypeMiscellaneous)
}

// Key returns the (prefix, name) pair used for rule and catalog lookups.
// Miscellaneous selections never carry a prefix.
func (m MaterialSelection) Key() MaterialKey {
	if m.IsMiscellaneous() {
		return MaterialKey{Name: strings.TrimSpace(m.Name)}
	}
	return MaterialKey{Prefix: strings.TrimSpace(m.Prefix), Name: strings.TrimSpace(m.Name)}
}

// Display renders the selection for descriptions, e.g. "A351 CG3M".
func (m MaterialSelection) Display() string {
	k := m.Key()
	prefix := strings.TrimRight(k.Prefix, "_ ")
	switch {
	case prefix == "":
		return k.Name
	case k.Name == "":
		return prefix
	default:
		return prefix + " " + k.Name
	}
}

// MaterialKey is the lookup key of material driven rules and codes.
type MaterialKey struct {
	Prefix string `json:"prefix" yaml:"prefix"`
	Name   string `json:"name" yaml:"name"`
}

// ReferenceData resolves material selections to ERP codes.
// Implementations must be safe for concurrent readers.
//
// A selection with no match returns an error wrapping ErrLookupMiss.
// Any other error means the reference data itself is unavailable.
type ReferenceData interface {
	MaterialCode(ctx context.Context, sel MaterialSelection) (string, error)
	CastingCode(ctx context.Context, sel MaterialSelection) (string, error)
}

// Quality holds the quality block of an output record. It may be built from
// a single newline-joined string or from a sequence of lines; both decode
// from JSON and YAML.
type Quality []string

// QualityText wraps a newline-joined quality string.
func QualityText(s string) Quality {
	if s == "" {
		return nil
	}
	return Quality{s}
}

// Lines returns the non-blank lines of the block in order.
func (q Quality) Lines() []string {
	var lines []string
	for _, chunk := range q {
		for _, line := range strings.Split(chunk, "\n") {
			line = strings.TrimRight(line, "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			lines = append(lines, line)
		}
	}
	return lines
}

// String returns the block joined by newlines.
func (q Quality) String() string {
	return strings.Join(q.Lines(), "\n")
}

// UnmarshalJSON accepts either a string or an array of strings.
func (q *Quality) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*q = QualityText(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("quality: expected string or list of strings: %w", err)
	}
	*q = lines
	return nil
}

// UnmarshalYAML accepts either a scalar or a sequence.
func (q *Quality) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*q = QualityText(node.Value)
		return nil
	case yaml.SequenceNode:
		var lines []string
		if err := node.Decode(&lines); err != nil {
			return fmt.Errorf("quality: %w", err)
		}
		*q = lines
		return nil
	default:
		return fmt.Errorf("quality: expected string or list of strings")
	}
}

// Output record field names. They double as the DataLoad field references.
const (
	FieldItem            = "Item"
	FieldDescription     = "Description"
	FieldIdentificativo  = "Identificativo"
	FieldClasseRicambi   = "Classe ricambi"
	FieldCategories      = "Categories"
	FieldCatalog         = "Catalog"
	FieldDisegno         = "Disegno"
	FieldMaterial        = "Material"
	FieldFPDMaterialCode = "FPD material code"
	FieldTemplate        = "Template"
	FieldERPL1           = "ERP_L1"
	FieldERPL2           = "ERP_L2"
	FieldToSupplier      = "To supplier"
	FieldQuality         = "Quality"
)

// OutputRecord is the flat result of one generation request.
type OutputRecord struct {
	Item            string  `json:"Item" yaml:"Item"`
	Description     string  `json:"Description" yaml:"Description"`
	Identificativo  string  `json:"Identificativo" yaml:"Identificativo"`
	ClasseRicambi   string  `json:"Classe ricambi" yaml:"Classe ricambi"`
	Categories      string  `json:"Categories" yaml:"Categories"`
	Catalog         string  `json:"Catalog" yaml:"Catalog"`
	Disegno         string  `json:"Disegno" yaml:"Disegno"`
	Material        string  `json:"Material" yaml:"Material"`
	FPDMaterialCode string  `json:"FPD material code" yaml:"FPD material code"`
	Template        string  `json:"Template" yaml:"Template"`
	ERPL1           string  `json:"ERP_L1" yaml:"ERP_L1"`
	ERPL2           string  `json:"ERP_L2" yaml:"ERP_L2"`
	ToSupplier      string  `json:"To supplier" yaml:"To supplier"`
	Quality         Quality `json:"Quality" yaml:"Quality"`
}

// Field returns a named field value. Unknown names and Quality return "".
func (r OutputRecord) Field(name string) string {
	switch name {
	case FieldItem:
		return r.Item
	case FieldDescription:
		return r.Description
	case FieldIdentificativo:
		return r.Identificativo
	case FieldClasseRicambi:
		return r.ClasseRicambi
	case FieldCategories:
		return r.Categories
	case FieldCatalog:
		return r.Catalog
	case FieldDisegno:
		return r.Disegno
	case FieldMaterial:
		return r.Material
	case FieldFPDMaterialCode:
		return r.FPDMaterialCode
	case FieldTemplate:
		return r.Template
	case FieldERPL1:
		return r.ERPL1
	case FieldERPL2:
		return r.ERPL2
	case FieldToSupplier:
		return r.ToSupplier
	default:
		return ""
	}
}
