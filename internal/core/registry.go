package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	registry   = make(map[string]PartDefinition)
	registryMu sync.RWMutex
)

// AttributeSpec describes one descriptive attribute of a part.
type AttributeSpec struct {
	Name       string              // Display name, also the request key
	Required   bool                // Must be non-blank in a request
	Options    []string            // Suggested values; empty means free text
	Normalizer func(string) string // Optional transformation before rendering
}

// PartInfo contains the fixed ERP data of a part category.
type PartInfo struct {
	Key            string // Unique identifier: "casing"
	Group          string // Family: "Hydraulics", "Sealing", "Structure"
	Label          string // Description label: "CASING, PUMP"
	Template       string // ERP item template
	ERPL1          string // ERP category level 1
	ERPL2          string // ERP category level 2
	Identificativo string // ERP identifier class
	SpareClass     string // Default "Classe ricambi"
}

// ExtraTagsFunc returns category specific tags for a request. They are
// appended after flag and material tags.
type ExtraTagsFunc func(attrs map[string]string, mat MaterialSelection) []QualityTag

// PartDefinition contains everything needed to configure one part category.
type PartDefinition struct {
	Info PartInfo

	// Attributes in the order they appear in the description. The material
	// is always rendered after them.
	Attributes []AttributeSpec

	ExtraTags ExtraTagsFunc
}

// Register adds a part definition to the registry.
// Panics if a part with the same key is already registered.
func Register(def PartDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	key := strings.ToLower(def.Info.Key)
	if _, exists := registry[key]; exists {
		panic(fmt.Sprintf("part already registered: %s", def.Info.Key))
	}
	def.Info.Key = key
	registry[key] = def
}

// Get returns a part definition by key, case-insensitively.
func Get(key string) (PartDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[strings.ToLower(strings.TrimSpace(key))]
	return def, ok
}

// All returns all registered part definitions.
// Sorted by group then by key for consistent ordering.
func All() []PartDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]PartDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Group != result[j].Info.Group {
			return result[i].Info.Group < result[j].Info.Group
		}
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// Groups returns all unique group names.
// Sorted alphabetically.
func Groups() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	for _, def := range registry {
		seen[def.Info.Group] = true
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}

	sort.Strings(groups)
	return groups
}

// PartCount returns the number of registered parts.
func PartCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered parts.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]PartDefinition)
}
