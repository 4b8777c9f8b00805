package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/partconfig/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Querier is the subset of pgx used for lookups.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	queryMaterialCode = `SELECT fpd_code FROM materials WHERE prefix = $1 AND name = $2`
	queryCastingCode  = `SELECT casting_code FROM materials WHERE prefix = $1 AND name = $2`
)

// PGStore resolves material codes from a Postgres "materials" table.
type PGStore struct {
	db Querier
}

// NewPGStore creates a store over db.
func NewPGStore(db Querier) *PGStore {
	return &PGStore{db: db}
}

// MaterialCode returns the FPD code of sel.
func (s *PGStore) MaterialCode(ctx context.Context, sel core.MaterialSelection) (string, error) {
	return s.queryCode(ctx, queryMaterialCode, sel)
}

// CastingCode returns the casting code of sel, falling back to the material name.
func (s *PGStore) CastingCode(ctx context.Context, sel core.MaterialSelection) (string, error) {
	code, err := s.queryCode(ctx, queryCastingCode, sel)
	if errors.Is(err, core.ErrLookupMiss) {
		if fromName := CastingCodeFromName(sel.Name); fromName != "" {
			return fromName, nil
		}
	}
	return code, err
}

func (s *PGStore) queryCode(ctx context.Context, sql string, sel core.MaterialSelection) (string, error) {
	k := sel.Key()

	var code pgtype.Text
	err := s.db.QueryRow(ctx, sql, k.Prefix, k.Name).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: material %q", core.ErrLookupMiss, sel.Display())
	}
	if err != nil {
		return "", fmt.Errorf("query materials: %w", err)
	}
	if !code.Valid || code.String == "" {
		return "", fmt.Errorf("%w: material %q", core.ErrLookupMiss, sel.Display())
	}
	return code.String, nil
}

// Layered consults Primary first and falls back to the catalog on a miss.
// Material rules always come from the catalog.
type Layered struct {
	Primary  core.ReferenceData
	Fallback *Catalog
}

// MaterialCode implements core.ReferenceData.
func (l Layered) MaterialCode(ctx context.Context, sel core.MaterialSelection) (string, error) {
	code, err := l.Primary.MaterialCode(ctx, sel)
	if errors.Is(err, core.ErrLookupMiss) {
		return l.Fallback.MaterialCode(ctx, sel)
	}
	return code, err
}

// CastingCode implements core.ReferenceData.
func (l Layered) CastingCode(ctx context.Context, sel core.MaterialSelection) (string, error) {
	code, err := l.Primary.CastingCode(ctx, sel)
	if errors.Is(err, core.ErrLookupMiss) {
		return l.Fallback.CastingCode(ctx, sel)
	}
	return code, err
}

// MaterialRules implements core.RuleSource.
func (l Layered) MaterialRules() core.MaterialRules {
	return l.Fallback.MaterialRules()
}
