package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRef is an in-memory ReferenceData.
type fakeRef struct {
	mu      sync.Mutex
	codes   map[MaterialKey]string
	casting map[MaterialKey]string
	err     error
	rules   MaterialRules
	calls   int
}

func (f *fakeRef) MaterialCode(_ context.Context, sel MaterialSelection) (string, error) {
	return f.get(f.codes, sel)
}

func (f *fakeRef) CastingCode(_ context.Context, sel MaterialSelection) (string, error) {
	return f.get(f.casting, sel)
}

func (f *fakeRef) get(m map[MaterialKey]string, sel MaterialSelection) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	code, ok := m[sel.Key()]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrLookupMiss, sel.Display())
	}
	return code, nil
}

func (f *fakeRef) MaterialRules() MaterialRules { return f.rules }

func registerTestParts(t *testing.T) {
	t.Helper()
	Clear()
	t.Cleanup(Clear)

	Register(PartDefinition{
		Info: PartInfo{
			Key: "Casing", Group: "Hydraulics", Label: "CASING, PUMP",
			Template: "RIC-FUSIONE", ERPL1: "RIC", ERPL2: "CORPO",
			Identificativo: "FUS", SpareClass: "A",
		},
		Attributes: []AttributeSpec{
			{Name: "Model", Normalizer: strings.ToUpper},
			{Name: "Size"},
			{Name: "Stages"},
			{Name: "Feature"},
		},
		ExtraTags: func(map[string]string, MaterialSelection) []QualityTag {
			return []QualityTag{{Code: "[SQ60]", Line: "SQ 60 - Pressure casing inspection"}}
		},
	})
	Register(PartDefinition{
		Info:       PartInfo{Key: "gasket", Group: "Sealing", Label: "GASKET", ERPL1: "RIC", ERPL2: "GUARNIZIONE", SpareClass: "C"},
		Attributes: []AttributeSpec{{Name: "Type"}},
	})
}

func TestRegistry(t *testing.T) {
	registerTestParts(t)

	assert.Equal(t, 2, PartCount())

	def, ok := Get(" CASING ")
	require.True(t, ok)
	assert.Equal(t, "casing", def.Info.Key)

	_, ok = Get("volute")
	assert.False(t, ok)

	all := All()
	require.Len(t, all, 2)
	assert.Equal(t, "casing", all[0].Info.Key)
	assert.Equal(t, []string{"Hydraulics", "Sealing"}, Groups())

	assert.Panics(t, func() {
		Register(PartDefinition{Info: PartInfo{Key: "GASKET"}})
	})
}

func TestService_Generate(t *testing.T) {
	registerTestParts(t)

	ref := &fakeRef{
		codes:   map[MaterialKey]string{{Prefix: "A351_", Name: "CG3M"}: "FPD-1203"},
		casting: map[MaterialKey]string{{Prefix: "A351_", Name: "CG3M"}: "317L"},
	}
	svc := NewService(ref, ServiceConfig{})

	res, err := svc.Generate(context.Background(), Request{
		Part:       "casing",
		Item:       " P123 ",
		Attributes: map[string]string{"model": "hpx", "SIZE": "6x8"},
		Flags:      FeatureFlags{IncludeStandard: true, Water: true},
		Material:   MaterialSelection{Type: "STAINLESS", Prefix: "A351_", Name: "CG3M"},
		Drawing:    "DWG-1",
		Catalog:    "CAT-1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "casing", res.Part)
	assert.Empty(t, res.LookupMisses)
	assert.Equal(t, []string{"[SQ58]", "[CORP-ENG-0115]", "<PI23>", "[SQ95]", "[SQ60]"}, res.Assembly.Codes())

	rec := res.Record
	assert.Equal(t, "P123", rec.Item)
	assert.Equal(t, "*CASING, PUMP - HPX - 6x8 - A351 CG3M [SQ58] [CORP-ENG-0115] <PI23> [SQ95] [SQ60]", rec.Description)
	assert.Equal(t, "FPD-1203", rec.FPDMaterialCode)
	assert.Equal(t, "A351 CG3M", rec.Material)
	assert.Equal(t, "RIC.CORPO", rec.Categories)
	assert.Equal(t, "A", rec.ClasseRicambi)
	assert.Equal(t, "DWG-1", rec.Disegno)
	assert.Equal(t, "*CASING, PUMP - HPX - 6x8 - A351 CG3M - CAST 317L", rec.ToSupplier)
	assert.Equal(t, res.Assembly.Lines(), rec.Quality.Lines())
}

func TestService_GenerateLookupMissFallsBack(t *testing.T) {
	registerTestParts(t)

	svc := NewService(&fakeRef{}, ServiceConfig{})
	res, err := svc.Generate(context.Background(), Request{
		Part:       "gasket",
		Attributes: map[string]string{"Type": "FLAT"},
		Flags:      DefaultFlags(),
		Material:   MaterialSelection{Type: MaterialTypeMiscellaneous, Name: "UNOBTAINIUM"},
		SpareClass: "B",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{LookupMaterialCode, LookupCastingCode}, res.LookupMisses)
	assert.Equal(t, "", res.Record.FPDMaterialCode)
	assert.Equal(t, "*GASKET - FLAT - UNOBTAINIUM", res.Record.ToSupplier)
	assert.Equal(t, "B", res.Record.ClasseRicambi)
}

func TestService_GenerateReferenceUnavailable(t *testing.T) {
	registerTestParts(t)

	svc := NewService(&fakeRef{err: errors.New("connection refused")}, ServiceConfig{})
	_, err := svc.Generate(context.Background(), Request{
		Part:     "gasket",
		Material: MaterialSelection{Type: "STAINLESS", Prefix: "A351_", Name: "CF8M"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReferenceUnavailable)
	assert.Equal(t, "REF002", MapError(err).Code)
}

func TestService_GenerateUnknownPart(t *testing.T) {
	registerTestParts(t)

	_, err := NewService(nil, ServiceConfig{}).Generate(context.Background(), Request{Part: "volute"})
	assert.ErrorIs(t, err, ErrUnknownPart)
}

func TestService_NoMaterialSkipsLookups(t *testing.T) {
	registerTestParts(t)

	ref := &fakeRef{}
	_, err := NewService(ref, ServiceConfig{}).Generate(context.Background(), Request{Part: "gasket"})
	require.NoError(t, err)
	assert.Zero(t, ref.calls)
}

func TestService_RuleSourceMerged(t *testing.T) {
	ref := &fakeRef{rules: MaterialRules{
		{Prefix: "A890_", Name: "CE3MN"}: {Code: "[SQ96]", Line: "SQ 96 - Super duplex"},
	}}
	svc := NewService(ref, ServiceConfig{})

	a := svc.Assemble(FeatureFlags{}, MaterialSelection{Type: "DUPLEX", Prefix: "A890_", Name: "CE3MN"})
	assert.Equal(t, []string{"[SQ96]"}, a.Codes())

	a = svc.Assemble(FeatureFlags{}, MaterialSelection{Type: "STAINLESS", Prefix: "A351_", Name: "CG8M"})
	assert.Equal(t, []string{"[SQ95]"}, a.Codes(), "defaults kept")
}

func TestService_DataLoad(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(nil, ServiceConfig{OutputDir: dir})

	path, err := svc.DataLoad(ModeUpdate, "P9", OutputRecord{Description: "x"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "update_P9.csv"), path)

	_, err = svc.DataLoad(ModeCreate, "", OutputRecord{})
	require.Error(t, err)
	assert.True(t, IsMissingInput(err))

	_, statErr := os.Stat(filepath.Join(dir, "dataload_.csv"))
	assert.True(t, os.IsNotExist(statErr))

	_, err = svc.DataLoad(ModeCreate, "../P9", OutputRecord{})
	assert.ErrorIs(t, err, ErrInvalidItemCode)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only update_P9.csv")
}

func TestService_GenerateBatch(t *testing.T) {
	registerTestParts(t)

	dir := t.TempDir()
	svc := NewService(&fakeRef{}, ServiceConfig{OutputDir: dir, BatchConcurrency: 2})

	reqs := []Request{
		{Part: "casing", Item: "C1", Mode: ModeCreate, Attributes: map[string]string{"Model": "a"}},
		{Part: "volute"},
		{Part: "gasket", Item: "G1"},
		{Part: "gasket", Mode: ModeUpdate},
	}
	items, err := svc.GenerateBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, items, len(reqs))

	for i, item := range items {
		assert.Equal(t, i, item.Index)
	}

	assert.NoError(t, items[0].Err)
	assert.Equal(t, filepath.Join(dir, "dataload_C1.csv"), items[0].Path)
	assert.ErrorIs(t, items[1].Err, ErrUnknownPart)
	assert.NoError(t, items[2].Err)
	assert.Empty(t, items[2].Path)
	assert.True(t, IsMissingInput(items[3].Err))
}

func TestService_GenerateBatchCancelled(t *testing.T) {
	registerTestParts(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService(nil, ServiceConfig{}).GenerateBatch(ctx, []Request{{Part: "gasket"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckAttributes(t *testing.T) {
	def := PartDefinition{
		Info: PartInfo{Key: "gasket"},
		Attributes: []AttributeSpec{
			{Name: "Type", Required: true, Options: []string{"FLAT", "O-RING"}},
			{Name: "Dimensions", Required: true},
			{Name: "Thickness"},
		},
	}

	raw := map[string]string{"type": "flat", "Colour": "red", "Bolts": "8"}
	errs := CheckAttributes(def, attributeValues(def, raw), raw)

	want := []ValidationError{
		{Field: "Dimensions", Message: "required attribute is empty"},
		{Field: "Bolts", Value: "8", Message: "unknown attribute, ignored"},
		{Field: "Colour", Value: "red", Message: "unknown attribute, ignored"},
	}
	assert.Equal(t, want, errs)

	raw = map[string]string{"Type": "SPIRAL", "Dimensions": "300x20"}
	errs = CheckAttributes(def, attributeValues(def, raw), raw)
	require.Len(t, errs, 1)
	assert.Equal(t, "Type: not one of: FLAT, O-RING", errs[0].Error())
}

func TestService_GenerateWarningsDoNotFail(t *testing.T) {
	registerTestParts(t)

	res, err := NewService(nil, ServiceConfig{}).Generate(context.Background(), Request{
		Part:       "gasket",
		Attributes: map[string]string{"Typo": "FLAT"},
	})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "Typo", res.Warnings[0].Field)
	assert.Equal(t, "*GASKET", res.Record.Description)
}
