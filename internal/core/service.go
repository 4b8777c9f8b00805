package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ServiceConfig holds the settings the service needs from the application config.
type ServiceConfig struct {
	OutputDir        string        // Directory for DataLoad transport files
	BatchConcurrency int           // Parallel generations in GenerateBatch
	LookupTimeout    time.Duration // Bound on a single reference lookup; 0 means none
}

// RuleSource is implemented by reference data that ships extra material rules.
type RuleSource interface {
	MaterialRules() MaterialRules
}

// Service runs generation requests against the part registry and reference data.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	ref   ReferenceData
	rules MaterialRules
	cfg   ServiceConfig
}

// NewService creates a new Service instance. ref may be nil, in which case
// material code lookups always miss.
func NewService(ref ReferenceData, cfg ServiceConfig) *Service {
	rules := DefaultMaterialRules()
	if rs, ok := ref.(RuleSource); ok {
		rules = rules.Merge(rs.MaterialRules())
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 4
	}
	return &Service{ref: ref, rules: rules, cfg: cfg}
}

// ListParts returns information about all registered parts.
func (s *Service) ListParts() []PartInfo {
	defs := All()
	infos := make([]PartInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// Request is one generation request as gathered by a front end.
type Request struct {
	Part       string            `json:"part" yaml:"part" validate:"required"`
	Item       string            `json:"item,omitempty" yaml:"item,omitempty"`
	Mode       Mode              `json:"mode,omitempty" yaml:"mode,omitempty" validate:"omitempty,oneof=create update"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Flags      FeatureFlags      `json:"flags" yaml:"flags"`
	Material   MaterialSelection `json:"material" yaml:"material"`
	Drawing    string            `json:"drawing,omitempty" yaml:"drawing,omitempty"`
	Catalog    string            `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	SpareClass string            `json:"spare_class,omitempty" yaml:"spare_class,omitempty"`
}

// Result is the outcome of one generation request.
type Result struct {
	ID       string       `json:"id"`
	Part     string       `json:"part"`
	Tags     []QualityTag `json:"tags"`
	Record   OutputRecord `json:"record"`
	Assembly Assembly     `json:"-"`

	// Warnings are advisory attribute findings; see CheckAttributes.
	Warnings []ValidationError `json:"warnings,omitempty"`

	// LookupMisses names the reference lookups that found no match
	// ("material_code", "casting_code").
	LookupMisses []string `json:"lookup_misses,omitempty"`
}

// Assemble runs the tag rule engine with the service's material rules.
func (s *Service) Assemble(flags FeatureFlags, mat MaterialSelection) Assembly {
	return Assemble(AssemblyInput{Flags: flags, Material: mat, Rules: s.rules})
}

// Generate builds the description, quality block and output record for req.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	def, ok := Get(req.Part)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPart, req.Part)
	}

	id := uuid.New().String()
	logger := slog.Default().With("generation_id", id, "part", def.Info.Key)

	attrs := attributeValues(def, req.Attributes)
	warnings := CheckAttributes(def, attrs, req.Attributes)
	values := make([]string, 0, len(def.Attributes)+1)
	for _, spec := range def.Attributes {
		values = append(values, attrs[spec.Name])
	}
	values = append(values, req.Material.Display())

	flags := req.Flags
	flags.Extra = append([]QualityTag(nil), req.Flags.Extra...)
	if def.ExtraTags != nil {
		flags.Extra = append(flags.Extra, def.ExtraTags(attrs, req.Material)...)
	}
	assembly := s.Assemble(flags, req.Material)

	var misses []string
	fpd, missed, err := s.lookup(ctx, req.Material, s.materialCode)
	if err != nil {
		return nil, fmt.Errorf("material code: %w", err)
	}
	if missed {
		misses = append(misses, LookupMaterialCode)
	}
	casting, missed, err := s.lookup(ctx, req.Material, s.castingCode)
	if err != nil {
		return nil, fmt.Errorf("casting code: %w", err)
	}
	if missed {
		misses = append(misses, LookupCastingCode)
	}

	spare := req.SpareClass
	if strings.TrimSpace(spare) == "" {
		spare = def.Info.SpareClass
	}

	toSupplier := ComposeDescription(def.Info.Label, values, "")
	if casting != "" {
		toSupplier += DescriptionSeparator + "CAST " + casting
	}

	rec := OutputRecord{
		Item:            strings.TrimSpace(req.Item),
		Description:     ComposeDescription(def.Info.Label, values, assembly.TagString()),
		Identificativo:  def.Info.Identificativo,
		ClasseRicambi:   spare,
		Categories:      def.Info.ERPL1 + "." + def.Info.ERPL2,
		Catalog:         strings.TrimSpace(req.Catalog),
		Disegno:         strings.TrimSpace(req.Drawing),
		Material:        req.Material.Display(),
		FPDMaterialCode: fpd,
		Template:        def.Info.Template,
		ERPL1:           def.Info.ERPL1,
		ERPL2:           def.Info.ERPL2,
		ToSupplier:      toSupplier,
		Quality:         assembly.Quality(),
	}

	logger.Debug("item generated",
		"tags", len(assembly.Tags),
		"material_code_found", fpd != "",
		"warnings", len(warnings),
	)

	return &Result{
		ID:       id,
		Part:     def.Info.Key,
		Tags:     assembly.Tags,
		Record:   rec,
		Assembly: assembly,
		Warnings: warnings,

		LookupMisses: misses,
	}, nil
}

// DataLoad serializes rec for mode and writes the transport file to the
// configured output directory. Returns the written path.
func (s *Service) DataLoad(mode Mode, itemCode string, rec OutputRecord) (string, error) {
	tokens, err := Serialize(mode, itemCode, rec)
	if err != nil {
		return "", err
	}
	path, err := WriteTransportFile(s.cfg.OutputDir, mode, strings.TrimSpace(itemCode), tokens)
	if err != nil {
		return "", err
	}
	slog.Info("dataload written", "mode", mode, "item", itemCode, "tokens", len(tokens), "path", path)
	return path, nil
}

// BatchItem is the outcome of one request within a batch.
type BatchItem struct {
	Index  int
	Result *Result
	Path   string // Transport file, when the request named a mode
	Err    error
}

// GenerateBatch runs reqs in parallel. Per-request failures are reported in
// the matching BatchItem; only context cancellation aborts the batch.
// Items are returned in input order.
func (s *Service) GenerateBatch(ctx context.Context, reqs []Request) ([]BatchItem, error) {
	items := make([]BatchItem, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchConcurrency)

	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item := BatchItem{Index: i}
			item.Result, item.Err = s.Generate(gctx, req)
			if item.Err == nil && req.Mode != "" {
				item.Path, item.Err = s.DataLoad(req.Mode, req.Item, item.Result.Record)
			}
			items[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	return items, nil
}

func (s *Service) materialCode(ctx context.Context, sel MaterialSelection) (string, error) {
	return s.ref.MaterialCode(ctx, sel)
}

func (s *Service) castingCode(ctx context.Context, sel MaterialSelection) (string, error) {
	return s.ref.CastingCode(ctx, sel)
}

// Lookup names reported in Result.LookupMisses.
const (
	LookupMaterialCode = "material_code"
	LookupCastingCode  = "casting_code"
)

// lookup resolves a code. A miss yields "" and missed=true, anything else
// is wrapped in ErrReferenceUnavailable.
func (s *Service) lookup(ctx context.Context, sel MaterialSelection, fn func(context.Context, MaterialSelection) (string, error)) (code string, missed bool, err error) {
	if s.ref == nil || sel.IsZero() {
		return "", false, nil
	}
	if s.cfg.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.LookupTimeout)
		defer cancel()
	}
	code, err = fn(ctx, sel)
	switch {
	case err == nil:
		return code, false, nil
	case errors.Is(err, ErrLookupMiss):
		slog.Debug("reference lookup miss", "material", sel.Display())
		return "", true, nil
	default:
		return "", false, fmt.Errorf("%w: %w", ErrReferenceUnavailable, err)
	}
}

// attributeValues matches request attributes to the part's specs by name,
// case-insensitively, and applies normalizers.
func attributeValues(def PartDefinition, in map[string]string) map[string]string {
	byLower := make(map[string]string, len(in))
	for k, v := range in {
		byLower[strings.ToLower(strings.TrimSpace(k))] = v
	}

	out := make(map[string]string, len(def.Attributes))
	for _, spec := range def.Attributes {
		v := strings.TrimSpace(byLower[strings.ToLower(spec.Name)])
		if v != "" && spec.Normalizer != nil {
			v = spec.Normalizer(v)
		}
		out[spec.Name] = v
	}
	return out
}
