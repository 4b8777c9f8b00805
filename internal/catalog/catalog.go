// Package catalog provides the read-only reference data used by the core:
// material codes, material triggered quality rules and pump model options.
package catalog

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"

	"github.com/JonMunkholm/partconfig/internal/core"
)

//go:embed assets
var embedded embed.FS

// Asset file names inside a catalog directory.
const (
	MaterialsFile = "materials.yaml"
	ModelsFile    = "models.csv"
)

// Material is one catalog entry.
type Material struct {
	Type        string `yaml:"type" json:"type"`
	Prefix      string `yaml:"prefix" json:"prefix"`
	Name        string `yaml:"name" json:"name"`
	FPDCode     string `yaml:"fpd_code" json:"fpd_code"`
	CastingCode string `yaml:"casting_code" json:"casting_code,omitempty"`
}

// Selection returns the entry as a core material selection.
func (m Material) Selection() core.MaterialSelection {
	return core.MaterialSelection{Type: m.Type, Prefix: m.Prefix, Name: m.Name}
}

// Rule is a catalog defined material triggered tag.
type Rule struct {
	Prefix string          `yaml:"prefix" json:"prefix"`
	Name   string          `yaml:"name" json:"name"`
	Tag    core.QualityTag `yaml:"tag" json:"tag"`
}

// Model is one pump model/size option.
type Model struct {
	Model       string `json:"model"`
	Size        string `json:"size"`
	Stages      string `json:"stages"`
	BearingCode string `json:"bearing_code"`
}

type materialsFile struct {
	Materials []Material `yaml:"materials" json:"materials"`
	Rules     []Rule     `yaml:"rules" json:"rules"`
}

// Catalog is an in-memory reference data set. It is immutable after Load
// and safe for concurrent readers.
type Catalog struct {
	materials []Material
	byKey     map[core.MaterialKey]Material
	rules     core.MaterialRules
	models    []Model
}

// Default loads the catalog embedded in the binary.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "assets")
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return Load(sub)
}

// Load reads materials.yaml and models.csv from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	var mf materialsFile
	if err := LoadAsset(fsys, MaterialsFile, &mf); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrReferenceUnavailable, err)
	}

	rows, err := LoadTable(fsys, ModelsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrReferenceUnavailable, err)
	}

	return New(mf.Materials, mf.Rules, modelsFromRows(rows)), nil
}

// New builds a catalog from in-memory data.
func New(materials []Material, rules []Rule, models []Model) *Catalog {
	c := &Catalog{
		materials: materials,
		byKey:     make(map[core.MaterialKey]Material, len(materials)),
		rules:     make(core.MaterialRules, len(rules)),
		models:    models,
	}
	for _, m := range materials {
		c.byKey[m.Selection().Key()] = m
	}
	for _, r := range rules {
		c.rules[core.MaterialKey{Prefix: r.Prefix, Name: r.Name}] = r.Tag
	}
	return c
}

func modelsFromRows(rows []Row) []Model {
	models := make([]Model, 0, len(rows))
	for _, r := range rows {
		if r.Get("Model") == "" {
			continue
		}
		models = append(models, Model{
			Model:       r.Get("Model"),
			Size:        r.Get("Size"),
			Stages:      r.Get("Stages"),
			BearingCode: r.Get("Bearing code"),
		})
	}
	return models
}

// MaterialCode returns the FPD code of sel.
func (c *Catalog) MaterialCode(_ context.Context, sel core.MaterialSelection) (string, error) {
	m, ok := c.byKey[sel.Key()]
	if !ok || m.FPDCode == "" {
		return "", fmt.Errorf("%w: material %q", core.ErrLookupMiss, sel.Display())
	}
	return m.FPDCode, nil
}

// CastingCode returns the casting code of sel, falling back to a code
// embedded in the material name such as "SS316 (316)".
func (c *Catalog) CastingCode(_ context.Context, sel core.MaterialSelection) (string, error) {
	if m, ok := c.byKey[sel.Key()]; ok && m.CastingCode != "" {
		return m.CastingCode, nil
	}
	if code := CastingCodeFromName(sel.Name); code != "" {
		return code, nil
	}
	return "", fmt.Errorf("%w: casting code for %q", core.ErrLookupMiss, sel.Display())
}

// MaterialRules returns the catalog defined material rules.
func (c *Catalog) MaterialRules() core.MaterialRules {
	return c.rules
}

var castingCodeRegex = regexp.MustCompile(`\(([^()]+)\)\s*$`)

// CastingCodeFromName extracts a trailing parenthesised code from a material name.
func CastingCodeFromName(name string) string {
	m := castingCodeRegex.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Types returns the material types, sorted.
func (c *Catalog) Types() []string {
	seen := make(map[string]bool)
	for _, m := range c.materials {
		seen[m.Type] = true
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Prefixes returns the prefixes available for a type. Miscellaneous has none.
func (c *Catalog) Prefixes(materialType string) []string {
	if (core.MaterialSelection{Type: materialType}).IsMiscellaneous() {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, m := range c.materials {
		if strings.EqualFold(m.Type, materialType) && m.Prefix != "" && !seen[m.Prefix] {
			seen[m.Prefix] = true
			out = append(out, m.Prefix)
		}
	}
	sort.Strings(out)
	return out
}

// Names returns the names for a type and prefix. Miscellaneous selections
// draw from the unfiltered pool of every name in the catalog.
func (c *Catalog) Names(materialType, prefix string) []string {
	misc := (core.MaterialSelection{Type: materialType}).IsMiscellaneous()
	seen := make(map[string]bool)
	var out []string
	for _, m := range c.materials {
		if !misc && (!strings.EqualFold(m.Type, materialType) || m.Prefix != prefix) {
			continue
		}
		if !seen[m.Name] {
			seen[m.Name] = true
			out = append(out, m.Name)
		}
	}
	sort.Strings(out)
	return out
}

// Materials returns a copy of all entries.
func (c *Catalog) Materials() []Material {
	return append([]Material(nil), c.materials...)
}

// Models returns the pump model options.
func (c *Catalog) Models() []Model {
	return append([]Model(nil), c.models...)
}
