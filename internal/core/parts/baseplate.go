package parts

import "github.com/JonMunkholm/partconfig/internal/core"

func init() {
	registerBaseplate()
}

func registerBaseplate() {
	core.Register(core.PartDefinition{
		Info: core.PartInfo{
			Key:            "baseplate",
			Group:          "Structure",
			Label:          "BASEPLATE",
			Template:       "RIC-CARPENTERIA",
			ERPL1:          "RIC",
			ERPL2:          "BASAMENTO",
			Identificativo: "CAR",
			SpareClass:     "C",
		},
		Attributes: []core.AttributeSpec{
			{Name: "Model", Required: true, Normalizer: NormalizeUpper},
			{Name: "Size", Normalizer: NormalizeSize},
			{Name: "Dowel", Normalizer: NormalizeUpper},
		},
	})
}
