package core

import "strings"

// Standard tags, emitted first when FeatureFlags.IncludeStandard is set.
var standardTags = []QualityTag{
	{Code: "[SQ58]", Line: "SQ 58 - General quality requirements for pump castings and forgings"},
	{Code: "[CORP-ENG-0115]", Line: "CORP-ENG-0115 - Dimensional and visual inspection of pump components"},
}

// flagRule emits Tag when its predicate holds.
type flagRule struct {
	Name  string
	Match func(FeatureFlags) bool
	Tag   QualityTag
}

// flagRules is evaluated top to bottom. The order is part of the output
// contract: quality text reads in this sequence.
var flagRules = []flagRule{
	{
		Name:  "hf_service",
		Match: func(f FeatureFlags) bool { return f.HFService },
		Tag:   QualityTag{Code: "<SQ113>", Line: "Material Requirements for Pumps in Hydrofluoric Acid Service (HF)"},
	},
	{
		Name:  "tmt_service",
		Match: func(f FeatureFlags) bool { return f.TMTService },
		Tag:   QualityTag{Code: "[SQ137]", Line: "Process pumps with protective coating (TMT/HVOF)"},
	},
	{
		Name:  "overlay",
		Match: func(f FeatureFlags) bool { return f.Overlay },
		Tag:   QualityTag{Code: "[PQ72]", Line: "Components with overlay (DLD/PTAW/Laser Hardening/METCO/Ceramic Chrome)"},
	},
	{
		Name:  "hvof",
		Match: func(f FeatureFlags) bool { return f.HVOF },
		Tag:   QualityTag{Code: "[DE2500.002]", Line: "Surface coating by HVOF"},
	},
	{
		Name:  "water",
		Match: func(f FeatureFlags) bool { return f.Water },
		Tag:   QualityTag{Code: "<PI23>", Line: "Pumps for potable water"},
	},
	{
		Name:  "stamicarbon",
		Match: func(f FeatureFlags) bool { return f.Stamicarbon },
		Tag:   QualityTag{Code: "<SQ172>", Line: "Stamicarbon — material of construction specification"},
	},
}

// FlagNames returns the flag names in evaluation order.
func FlagNames() []string {
	names := make([]string, len(flagRules))
	for i, r := range flagRules {
		names[i] = r.Name
	}
	return names
}

// SetFlag sets a flag by name. Returns false for unknown names.
func (f *FeatureFlags) SetFlag(name string, v bool) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hf_service":
		f.HFService = v
	case "tmt_service":
		f.TMTService = v
	case "overlay":
		f.Overlay = v
	case "hvof":
		f.HVOF = v
	case "water":
		f.Water = v
	case "stamicarbon":
		f.Stamicarbon = v
	case "include_standard":
		f.IncludeStandard = v
	default:
		return false
	}
	return true
}

// MaterialRules maps a material (prefix, name) to the tag it triggers.
type MaterialRules map[MaterialKey]QualityTag

var sq95 = QualityTag{Code: "[SQ95]", Line: "SQ 95 - Supplementary requirements for austenitic stainless steel castings (CG3M/CG8M)"}

// DefaultMaterialRules returns the built-in material triggered tags.
func DefaultMaterialRules() MaterialRules {
	return MaterialRules{
		{Prefix: "A351_", Name: "CG3M"}: sq95,
		{Prefix: "A351_", Name: "CG8M"}: sq95,
	}
}

// Merge returns a new table with other's entries layered over r's.
func (r MaterialRules) Merge(other MaterialRules) MaterialRules {
	out := make(MaterialRules, len(r)+len(other))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// AssemblyInput is everything the tag rule engine reads.
type AssemblyInput struct {
	Flags    FeatureFlags
	Material MaterialSelection

	// Rules overrides DefaultMaterialRules when non-nil.
	Rules MaterialRules
}

// Assembly is an ordered, de-duplicated list of quality tags.
type Assembly struct {
	Tags []QualityTag
}

// Codes returns the tag codes in order.
func (a Assembly) Codes() []string {
	codes := make([]string, len(a.Tags))
	for i, t := range a.Tags {
		codes[i] = t.Code
	}
	return codes
}

// Lines returns the description lines, index-aligned with Codes.
func (a Assembly) Lines() []string {
	lines := make([]string, len(a.Tags))
	for i, t := range a.Tags {
		lines[i] = t.Line
	}
	return lines
}

// TagString joins the codes with single spaces.
func (a Assembly) TagString() string {
	return strings.Join(a.Codes(), " ")
}

// QualityText joins the lines with newlines.
func (a Assembly) QualityText() string {
	return strings.Join(a.Lines(), "\n")
}

// Quality returns the lines as an output record quality block.
func (a Assembly) Quality() Quality {
	return Quality(a.Lines())
}

// Assemble builds the quality tag list: standard tags, flag tags in fixed
// order, material triggered tags, then extra tags. Later duplicates of a
// code are dropped together with their line.
func Assemble(in AssemblyInput) Assembly {
	var tags []QualityTag

	if in.Flags.IncludeStandard {
		tags = append(tags, standardTags...)
	}

	for _, rule := range flagRules {
		if rule.Match(in.Flags) {
			tags = append(tags, rule.Tag)
		}
	}

	if !in.Material.IsZero() {
		rules := in.Rules
		if rules == nil {
			rules = DefaultMaterialRules()
		}
		if tag, ok := rules[in.Material.Key()]; ok {
			tags = append(tags, tag)
		}
	}

	tags = append(tags, in.Flags.Extra...)

	return Assembly{Tags: dedupeTags(tags)}
}

// dedupeTags keeps the first occurrence of each code.
func dedupeTags(tags []QualityTag) []QualityTag {
	seen := make(map[string]bool, len(tags))
	out := make([]QualityTag, 0, len(tags))
	for _, t := range tags {
		if seen[t.Code] {
			continue
		}
		seen[t.Code] = true
		out = append(out, t)
	}
	return out
}
