package catalog

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/JonMunkholm/partconfig/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.NotEmpty(t, c.Materials())
	assert.Len(t, c.Models(), 6)
	assert.Contains(t, c.Types(), core.MaterialTypeMiscellaneous)

	code, err := c.MaterialCode(context.Background(), core.MaterialSelection{
		Type: "CAST STAINLESS STEEL", Prefix: "A351_", Name: "CG3M",
	})
	require.NoError(t, err)
	assert.Equal(t, "FPD-1203", code)

	rules := c.MaterialRules()
	assert.Equal(t, "[SQ96]", rules[core.MaterialKey{Prefix: "A890_", Name: "CE3MN"}].Code)
}

func TestLoad_MissingFile(t *testing.T) {
	fsys := fstest.MapFS{
		MaterialsFile: {Data: []byte("materials: []\n")},
	}
	_, err := Load(fsys)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrReferenceUnavailable)
	assert.Equal(t, "REF002", core.MapError(err).Code)
}

func TestLoad_BadYAML(t *testing.T) {
	fsys := fstest.MapFS{
		MaterialsFile: {Data: []byte("materials: [unterminated\n")},
		ModelsFile:    {Data: []byte("Model,Size\n")},
	}
	_, err := Load(fsys)
	assert.ErrorIs(t, err, core.ErrReferenceUnavailable)
}

func TestLoadAsset_UnsupportedType(t *testing.T) {
	fsys := fstest.MapFS{"materials.xlsx": {Data: []byte("PK")}}

	var v any
	err := LoadAsset(fsys, "materials.xlsx", &v)
	assert.ErrorIs(t, err, ErrUnsupportedAssetType)

	_, err = LoadTable(fsys, "materials.xlsx")
	assert.ErrorIs(t, err, ErrUnsupportedAssetType)
}

func TestLoadAsset_JSON(t *testing.T) {
	fsys := fstest.MapFS{
		"m.json": {Data: []byte(`{"materials":[{"type":"X","prefix":"P_","name":"N","fpd_code":"F1"}]}`)},
	}
	var mf materialsFile
	require.NoError(t, LoadAsset(fsys, "m.json", &mf))
	require.Len(t, mf.Materials, 1)
	assert.Equal(t, "F1", mf.Materials[0].FPDCode)
}

func TestLoadTable(t *testing.T) {
	fsys := fstest.MapFS{
		"models.csv": {Data: []byte("\ufeffModel, Size ,Bearing code\nHPX, 6x8 ,BRG-1\nHDX,10x12\n")},
	}
	rows, err := LoadTable(fsys, "models.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "HPX", rows[0].Get("model"))
	assert.Equal(t, "6x8", rows[0].Get("Size"))
	assert.Equal(t, "BRG-1", rows[0].Get("BEARING CODE"))
	assert.Equal(t, "", rows[0].Get("Stages"))
}

func TestLoadTable_FieldCountMismatch(t *testing.T) {
	fsys := fstest.MapFS{"models.csv": {Data: []byte("Model,Size\nHPX\n")}}
	_, err := LoadTable(fsys, "models.csv")
	assert.Error(t, err)
}

func testCatalog() *Catalog {
	return New([]Material{
		{Type: "CAST", Prefix: "A351_", Name: "CF8M", FPDCode: "F-1", CastingCode: "316"},
		{Type: "CAST", Prefix: "A351_", Name: "CG3M", FPDCode: "F-2"},
		{Type: "CAST", Prefix: "A890_", Name: "CE3MN", FPDCode: "F-3"},
		{Type: "WROUGHT", Prefix: "A276_", Name: "SS410 (410)", FPDCode: "F-4"},
		{Type: core.MaterialTypeMiscellaneous, Name: "PTFE", FPDCode: "F-9"},
	}, nil, nil)
}

func TestCatalog_DrillDown(t *testing.T) {
	c := testCatalog()

	assert.Equal(t, []string{"CAST", core.MaterialTypeMiscellaneous, "WROUGHT"}, c.Types())
	assert.Equal(t, []string{"A351_", "A890_"}, c.Prefixes("CAST"))
	assert.Nil(t, c.Prefixes("miscellaneous"))
	assert.Equal(t, []string{"CF8M", "CG3M"}, c.Names("CAST", "A351_"))

	// Miscellaneous draws from every name.
	assert.Equal(t, []string{"CE3MN", "CF8M", "CG3M", "PTFE", "SS410 (410)"}, c.Names(core.MaterialTypeMiscellaneous, ""))
}

func TestCatalog_Lookups(t *testing.T) {
	c := testCatalog()
	ctx := context.Background()

	t.Run("miscellaneous ignores prefix", func(t *testing.T) {
		code, err := c.MaterialCode(ctx, core.MaterialSelection{Type: "MISCELLANEOUS", Prefix: "A351_", Name: "PTFE"})
		require.NoError(t, err)
		assert.Equal(t, "F-9", code)
	})

	t.Run("miss", func(t *testing.T) {
		_, err := c.MaterialCode(ctx, core.MaterialSelection{Type: "CAST", Prefix: "A351_", Name: "NOPE"})
		assert.ErrorIs(t, err, core.ErrLookupMiss)
	})

	t.Run("casting code from entry then name", func(t *testing.T) {
		code, err := c.CastingCode(ctx, core.MaterialSelection{Type: "CAST", Prefix: "A351_", Name: "CF8M"})
		require.NoError(t, err)
		assert.Equal(t, "316", code)

		code, err = c.CastingCode(ctx, core.MaterialSelection{Type: "WROUGHT", Prefix: "A276_", Name: "SS410 (410)"})
		require.NoError(t, err)
		assert.Equal(t, "410", code)

		_, err = c.CastingCode(ctx, core.MaterialSelection{Type: "CAST", Prefix: "A351_", Name: "CG3M"})
		assert.ErrorIs(t, err, core.ErrLookupMiss)
	})
}

func TestCastingCodeFromName(t *testing.T) {
	tests := map[string]string{
		"SS316 (316)":   "316",
		"SS410 ( 410 )": "410",
		"CF8M":          "",
		"(X) trailing":  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, CastingCodeFromName(in), in)
	}
}

// fakeRow is a pgx.Row returning a fixed value or error.
type fakeRow struct {
	value *string
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return dest[0].(interface{ Scan(any) error }).Scan(anyOrNil(r.value))
}

func anyOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

type fakeQuerier struct {
	rows map[string]fakeRow // keyed by prefix+name
	sql  []string
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.sql = append(q.sql, sql)
	key := args[0].(string) + args[1].(string)
	if row, ok := q.rows[key]; ok {
		return row
	}
	return fakeRow{err: pgx.ErrNoRows}
}

func strPtr(s string) *string { return &s }

func TestPGStore(t *testing.T) {
	q := &fakeQuerier{rows: map[string]fakeRow{
		"A351_CG3M":        {value: strPtr("DB-1203")},
		"A351_NULLCODE":    {value: nil},
		"A351_BROKEN":      {err: errors.New("conn reset")},
		"A276_SS316 (316)": {value: strPtr("")},
	}}
	store := NewPGStore(q)
	ctx := context.Background()

	code, err := store.MaterialCode(ctx, core.MaterialSelection{Type: "CAST", Prefix: "A351_", Name: "CG3M"})
	require.NoError(t, err)
	assert.Equal(t, "DB-1203", code)
	assert.Equal(t, queryMaterialCode, q.sql[0])

	_, err = store.MaterialCode(ctx, core.MaterialSelection{Type: "CAST", Prefix: "A351_", Name: "MISSING"})
	assert.ErrorIs(t, err, core.ErrLookupMiss)

	_, err = store.MaterialCode(ctx, core.MaterialSelection{Type: "CAST", Prefix: "A351_", Name: "NULLCODE"})
	assert.ErrorIs(t, err, core.ErrLookupMiss)

	_, err = store.MaterialCode(ctx, core.MaterialSelection{Type: "CAST", Prefix: "A351_", Name: "BROKEN"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrLookupMiss)

	code, err = store.CastingCode(ctx, core.MaterialSelection{Type: "WROUGHT", Prefix: "A276_", Name: "SS316 (316)"})
	require.NoError(t, err)
	assert.Equal(t, "316", code)
}

func TestLayered(t *testing.T) {
	q := &fakeQuerier{rows: map[string]fakeRow{
		"A351_CG3M":   {value: strPtr("DB-1203")},
		"A351_BROKEN": {err: errors.New("conn reset")},
	}}
	ref := Layered{Primary: NewPGStore(q), Fallback: testCatalog()}
	ctx := context.Background()

	code, err := ref.MaterialCode(ctx, core.MaterialSelection{Type: "CAST", Prefix: "A351_", Name: "CG3M"})
	require.NoError(t, err)
	assert.Equal(t, "DB-1203", code, "primary wins")

	code, err = ref.MaterialCode(ctx, core.MaterialSelection{Type: "CAST", Prefix: "A351_", Name: "CF8M"})
	require.NoError(t, err)
	assert.Equal(t, "F-1", code, "fallback on miss")

	_, err = ref.MaterialCode(ctx, core.MaterialSelection{Type: "CAST", Prefix: "A351_", Name: "BROKEN"})
	assert.Error(t, err, "hard errors are not masked")

	var _ core.RuleSource = ref
}
