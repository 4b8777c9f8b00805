package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/partconfig/internal/core"
	"github.com/JonMunkholm/partconfig/internal/logging"
	"github.com/go-chi/chi/v5"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

// flagsPayload is the wire form of core.FeatureFlags. IncludeStandard is a
// pointer so that an omitted field keeps its default of true.
type flagsPayload struct {
	HFService       bool              `json:"hf_service"`
	TMTService      bool              `json:"tmt_service"`
	Overlay         bool              `json:"overlay"`
	HVOF            bool              `json:"hvof"`
	Water           bool              `json:"water"`
	Stamicarbon     bool              `json:"stamicarbon"`
	IncludeStandard *bool             `json:"include_standard"`
	Extra           []core.QualityTag `json:"extra" validate:"dive"`
}

func (p flagsPayload) toFlags() core.FeatureFlags {
	f := core.DefaultFlags()
	f.HFService = p.HFService
	f.TMTService = p.TMTService
	f.Overlay = p.Overlay
	f.HVOF = p.HVOF
	f.Water = p.Water
	f.Stamicarbon = p.Stamicarbon
	if p.IncludeStandard != nil {
		f.IncludeStandard = *p.IncludeStandard
	}
	f.Extra = p.Extra
	return f
}

type qualityRequest struct {
	Flags    flagsPayload           `json:"flags"`
	Material core.MaterialSelection `json:"material"`
}

type qualityResponse struct {
	Tags        []core.QualityTag `json:"tags"`
	TagString   string            `json:"tag_string"`
	QualityText string            `json:"quality_text"`
}

type generateRequest struct {
	Part       string                 `json:"part" validate:"required"`
	Item       string                 `json:"item"`
	Attributes map[string]string      `json:"attributes"`
	Flags      flagsPayload           `json:"flags"`
	Material   core.MaterialSelection `json:"material"`
	Drawing    string                 `json:"drawing"`
	Catalog    string                 `json:"catalog"`
	SpareClass string                 `json:"spare_class"`
}

type generateResponse struct {
	*core.Result
	TagString   string `json:"tag_string"`
	QualityText string `json:"quality_text"`
}

type dataloadRequest struct {
	Item   string            `json:"item"`
	Record core.OutputRecord `json:"record"`
}

type dataloadResponse struct {
	FileName string   `json:"file_name"`
	Tokens   []string `json:"tokens"`
}

// decodeJSON reads and validates a JSON request body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	if err := s.validate.Struct(v); err != nil {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := IndexPage(s.service.ListParts()).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"parts":  core.PartCount(),
	})
}

// handleListParts returns part definitions with their attribute specs.
func (s *Server) handleListParts(w http.ResponseWriter, r *http.Request) {
	type attr struct {
		Name     string   `json:"name"`
		Required bool     `json:"required"`
		Options  []string `json:"options,omitempty"`
	}
	type part struct {
		core.PartInfo
		Attributes []attr `json:"attributes"`
	}

	defs := core.All()
	out := make([]part, len(defs))
	for i, def := range defs {
		attrs := make([]attr, len(def.Attributes))
		for j, a := range def.Attributes {
			attrs[j] = attr{Name: a.Name, Required: a.Required, Options: a.Options}
		}
		out[i] = part{PartInfo: def.Info, Attributes: attrs}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleListMaterials drills down types -> prefixes -> names.
//
//	GET /api/materials                      -> types
//	GET /api/materials?type=X               -> prefixes (and names for MISCELLANEOUS)
//	GET /api/materials?type=X&prefix=Y      -> names
func (s *Server) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	materialType := q.Get("type")
	prefix := q.Get("prefix")

	switch {
	case materialType == "":
		writeJSON(w, http.StatusOK, map[string]any{"types": s.catalog.Types()})
	case strings.EqualFold(materialType, core.MaterialTypeMiscellaneous):
		writeJSON(w, http.StatusOK, map[string]any{"names": s.catalog.Names(materialType, "")})
	case prefix == "":
		writeJSON(w, http.StatusOK, map[string]any{"prefixes": s.catalog.Prefixes(materialType)})
	default:
		writeJSON(w, http.StatusOK, map[string]any{"names": s.catalog.Names(materialType, prefix)})
	}
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Models())
}

// handleQuality runs the tag rule engine only.
func (s *Server) handleQuality(w http.ResponseWriter, r *http.Request) {
	var req qualityRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	a := s.service.Assemble(req.Flags.toFlags(), req.Material)
	writeJSON(w, http.StatusOK, qualityResponse{
		Tags:        a.Tags,
		TagString:   a.TagString(),
		QualityText: a.QualityText(),
	})
}

// handleGenerate builds the full output record for one part.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.service.Generate(r.Context(), core.Request{
		Part:       req.Part,
		Item:       req.Item,
		Attributes: req.Attributes,
		Flags:      req.Flags.toFlags(),
		Material:   req.Material,
		Drawing:    req.Drawing,
		Catalog:    req.Catalog,
		SpareClass: req.SpareClass,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	generationsTotal.WithLabelValues(res.Part).Inc()
	for _, lookup := range res.LookupMisses {
		lookupMissesTotal.WithLabelValues(lookup).Inc()
	}

	logging.WithFields(r.Context(), "generation_id", res.ID, "part", res.Part).
		Info("item generated", "tags", len(res.Tags))

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		ResultPanel(res).Render(r.Context(), w)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		Result:      res,
		TagString:   res.Assembly.TagString(),
		QualityText: res.Assembly.QualityText(),
	})
}

// handleDataLoad serializes a record and returns it as a transport file
// download, or as a token list with ?format=json. Nothing is written when
// the item code is missing.
func (s *Server) handleDataLoad(w http.ResponseWriter, r *http.Request) {
	mode, err := core.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req dataloadRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	item := strings.TrimSpace(req.Item)
	if item == "" {
		item = strings.TrimSpace(req.Record.Item)
	}

	tokens, err := core.Serialize(mode, item, req.Record)
	if err == nil {
		err = core.CheckItemCode(item)
	}
	if err != nil {
		dataloadsTotal.WithLabelValues(string(mode), "error").Inc()
		s.respondError(w, r, err)
		return
	}
	dataloadsTotal.WithLabelValues(string(mode), "ok").Inc()

	fileName := core.TransportFileName(mode, item)
	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, dataloadResponse{
			FileName: fileName,
			Tokens:   core.TokenStrings(tokens),
		})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if err := core.WriteTransport(w, tokens); err != nil {
		logging.FromContext(r.Context()).Error("write dataload", "error", err)
	}
}
