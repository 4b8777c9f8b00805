package parts

import "github.com/JonMunkholm/partconfig/internal/core"

func init() {
	registerGasket()
}

func registerGasket() {
	core.Register(core.PartDefinition{
		Info: core.PartInfo{
			Key:            "gasket",
			Group:          "Sealing",
			Label:          "GASKET",
			Template:       "RIC-COMMERCIALE",
			ERPL1:          "RIC",
			ERPL2:          "GUARNIZIONE",
			Identificativo: "COM",
			SpareClass:     "C",
		},
		Attributes: []core.AttributeSpec{
			{Name: "Type", Required: true, Options: []string{"SPIRAL WOUND", "FLAT", "O-RING", "KAMMPROFILE"}},
			{Name: "Dimensions", Required: true},
			{Name: "Thickness"},
		},
	})
}
