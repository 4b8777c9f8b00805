package parts

import "github.com/JonMunkholm/partconfig/internal/core"

func init() {
	registerCasing()
}

// casingInspection is required on every pressure casing.
var casingInspection = core.QualityTag{
	Code: "[SQ60]",
	Line: "SQ 60 - Pressure casing inspection (radiography and hydrostatic test)",
}

func registerCasing() {
	core.Register(core.PartDefinition{
		Info: core.PartInfo{
			Key:            "casing",
			Group:          "Hydraulics",
			Label:          "CASING, PUMP",
			Template:       "RIC-FUSIONE",
			ERPL1:          "RIC",
			ERPL2:          "CORPO",
			Identificativo: "FUS",
			SpareClass:     "A",
		},
		Attributes: []core.AttributeSpec{
			{Name: "Model", Required: true, Normalizer: NormalizeUpper},
			{Name: "Size", Required: true, Normalizer: NormalizeSize},
			{Name: "Stages"},
			{Name: "Feature", Options: []string{"RADIAL SPLIT", "AXIAL SPLIT", "DOUBLE VOLUTE"}},
		},
		ExtraTags: func(map[string]string, core.MaterialSelection) []core.QualityTag {
			return []core.QualityTag{casingInspection}
		},
	})
}
