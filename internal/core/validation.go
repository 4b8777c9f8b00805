package core

// validation.go checks request attributes against a part's AttributeSpecs.
//
// Findings are advisory: generation never fails on them, because the
// description composer skips blank values and operators may enter values
// outside the suggested options. Front ends show them next to the result.

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError is one attribute finding.
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// CheckAttributes reports blank required attributes, values outside an
// attribute's declared options and request keys the part does not know.
// values must be the normalized attribute map of the part.
func CheckAttributes(def PartDefinition, values map[string]string, raw map[string]string) []ValidationError {
	var errs []ValidationError

	known := make(map[string]bool, len(def.Attributes))
	for _, spec := range def.Attributes {
		known[strings.ToLower(spec.Name)] = true

		v := values[spec.Name]
		if v == "" {
			if spec.Required {
				errs = append(errs, ValidationError{Field: spec.Name, Message: "required attribute is empty"})
			}
			continue
		}
		if len(spec.Options) > 0 && !containsFold(spec.Options, v) {
			errs = append(errs, ValidationError{
				Field:   spec.Name,
				Value:   v,
				Message: "not one of: " + strings.Join(spec.Options, ", "),
			})
		}
	}

	var unknown []ValidationError
	for k, v := range raw {
		if !known[strings.ToLower(strings.TrimSpace(k))] {
			unknown = append(unknown, ValidationError{Field: k, Value: v, Message: "unknown attribute, ignored"})
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i].Field < unknown[j].Field })

	return append(errs, unknown...)
}

func containsFold(options []string, v string) bool {
	for _, o := range options {
		if strings.EqualFold(o, v) {
			return true
		}
	}
	return false
}
