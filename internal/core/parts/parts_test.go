package parts

import (
	"context"
	"testing"

	"github.com/JonMunkholm/partconfig/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSize(t *testing.T) {
	tests := map[string]string{
		"6x8":      "6x8",
		" 6 X 8 ":  "6x8",
		"6*8":      "6x8",
		"2.5x3 hd": "2.5x3HD",
		"SPECIAL":  "SPECIAL",
		"":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeSize(in), in)
	}
}

func TestNormalizeDiameter(t *testing.T) {
	tests := map[string]string{
		"320":    "D320",
		"320 mm": "D320",
		"d250":   "D250",
		" ":      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeDiameter(in), in)
	}
}

func TestRegisteredParts(t *testing.T) {
	for _, key := range []string{"casing", "impeller", "gasket", "shaft", "baseplate"} {
		def, ok := core.Get(key)
		require.True(t, ok, key)
		assert.NotEmpty(t, def.Info.Label, key)
		assert.NotEmpty(t, def.Info.Template, key)
		assert.NotEmpty(t, def.Info.ERPL1, key)
		assert.NotEmpty(t, def.Info.ERPL2, key)
		assert.NotEmpty(t, def.Attributes, key)
	}
}

func TestCasingDescription(t *testing.T) {
	svc := core.NewService(nil, core.ServiceConfig{})
	res, err := svc.Generate(context.Background(), core.Request{
		Part:       "casing",
		Attributes: map[string]string{"Model": "hpx", "Size": "6 X 8"},
		Flags:      core.DefaultFlags(),
		Material:   core.MaterialSelection{Type: core.MaterialTypeMiscellaneous, Name: "SS316"},
	})
	require.NoError(t, err)
	assert.Equal(t, "*CASING, PUMP - HPX - 6x8 - SS316 [SQ58] [CORP-ENG-0115] [SQ60]", res.Record.Description)
	assert.Equal(t, "RIC.CORPO", res.Record.Categories)
}

func TestImpellerDuplexTag(t *testing.T) {
	def, ok := core.Get("impeller")
	require.True(t, ok)

	tests := []struct {
		name string
		mat  core.MaterialSelection
		want int
	}{
		{"duplex", core.MaterialSelection{Type: "CAST DUPLEX", Prefix: "A890_", Name: "CD4MCuN"}, 1},
		{"super duplex", core.MaterialSelection{Type: "CAST DUPLEX", Prefix: "A890_", Name: "CE3MN"}, 1},
		{"lean duplex", core.MaterialSelection{Type: "CAST DUPLEX", Prefix: "A890_", Name: "cd3mn"}, 1},
		{"austenitic", core.MaterialSelection{Type: "CAST", Prefix: "A351_", Name: "CF8M"}, 0},
		{"none", core.MaterialSelection{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := def.ExtraTags(nil, tt.mat)
			assert.Len(t, tags, tt.want)
			if tt.want > 0 {
				assert.Equal(t, "[CORP-ENG-0234]", tags[0].Code)
			}
		})
	}
}
