package parts

import (
	"strings"

	"github.com/JonMunkholm/partconfig/internal/core"
)

func init() {
	registerImpeller()
}

// duplexGrades trigger the impeller design procedure.
var duplexGrades = map[string]bool{
	"CD4MCUN": true,
	"CE3MN":   true,
	"CD3MN":   true,
}

var impellerDesign = core.QualityTag{
	Code: "[CORP-ENG-0234]",
	Line: "CORP-ENG-0234 - Impeller design procedure for duplex stainless steels",
}

func registerImpeller() {
	core.Register(core.PartDefinition{
		Info: core.PartInfo{
			Key:            "impeller",
			Group:          "Hydraulics",
			Label:          "IMPELLER",
			Template:       "RIC-FUSIONE",
			ERPL1:          "RIC",
			ERPL2:          "GIRANTE",
			Identificativo: "FUS",
			SpareClass:     "A",
		},
		Attributes: []core.AttributeSpec{
			{Name: "Model", Required: true, Normalizer: NormalizeUpper},
			{Name: "Size", Required: true, Normalizer: NormalizeSize},
			{Name: "Diameter", Normalizer: NormalizeDiameter},
			{Name: "Feature", Options: []string{"CLOSED", "SEMI-OPEN", "DOUBLE SUCTION"}},
		},
		ExtraTags: func(_ map[string]string, mat core.MaterialSelection) []core.QualityTag {
			if duplexGrades[strings.ToUpper(mat.Key().Name)] {
				return []core.QualityTag{impellerDesign}
			}
			return nil
		},
	})
}
