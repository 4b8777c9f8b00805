package parts

import "github.com/JonMunkholm/partconfig/internal/core"

func init() {
	registerShaft()
}

func registerShaft() {
	core.Register(core.PartDefinition{
		Info: core.PartInfo{
			Key:            "shaft",
			Group:          "Rotor",
			Label:          "SHAFT",
			Template:       "RIC-LAVORATO",
			ERPL1:          "RIC",
			ERPL2:          "ALBERO",
			Identificativo: "LAV",
			SpareClass:     "B",
		},
		Attributes: []core.AttributeSpec{
			{Name: "Model", Required: true, Normalizer: NormalizeUpper},
			{Name: "Size", Normalizer: NormalizeSize},
			{Name: "Bearing code", Normalizer: NormalizeUpper},
		},
	})
}
