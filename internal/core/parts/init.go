// Package parts registers all part category definitions with the core registry.
// Import this package to ensure all parts are registered.
package parts

// This file exists to provide a single import point.
// Each part file uses init() to register its definition.
