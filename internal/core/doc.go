// Package core provides the item configuration logic for pump parts.
//
// This package is independent of any UI or transport layer. It can be used
// by web handlers, CLI tools, or tests without modification.
//
// # Architecture
//
// Data flows one way:
//
//	Request -> Assemble -> {ComposeDescription, Serialize} -> strings / files
//
// Components:
//   - Part Definitions: registered via the registry, each part category has a
//     description label, ERP fields, attribute specs and an extra tag rule.
//   - Tag Rule Engine: [Assemble] turns feature flags and the material into an
//     ordered, de-duplicated list of [QualityTag]s.
//   - Description Composer: [ComposeDescription] renders the item description.
//   - DataLoad Serializer: [Serialize] expands the create or update keystroke
//     template and [WriteTransportFile] writes it for ERP playback.
//   - Service: the entry point that wires the above to reference data.
//
// # Part Registry
//
// Parts are registered at init time using [Register]:
//
//	core.Register(core.PartDefinition{
//	    Info: core.PartInfo{Key: "casing", Label: "CASING, PUMP"},
//	    Attributes: []core.AttributeSpec{{Name: "Model"}, {Name: "Size"}},
//	})
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// A missing item code is a [*MissingInputError]; reference lookups that find
// nothing wrap [ErrLookupMiss] and fall back to empty values, while reference
// data that cannot be loaded surfaces as [ErrReferenceUnavailable].
package core
