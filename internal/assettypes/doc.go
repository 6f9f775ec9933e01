// Package assettypes provides shared type definitions and the extension
// classifier used across the asset catalog.
//
// This package exists as a dependency-free foundation that can be imported by
// other packages without creating import cycles. It contains primitive types,
// constants, and pure functions with no external dependencies beyond the
// standard library.
//
// # Categories and statuses
//
// Category classifies assets by content family (image, audio, model, config,
// script, other). Status is the closed processing-state set for catalog
// records (pending, processing, completed, failed, skipped).
//
// # Classification
//
// The Classifier maps a file extension to its category and MIME hint. The
// allowlist is injected at construction:
//
//	cls := assettypes.NewClassifier(assettypes.DefaultClassifierConfig())
//	cat, mime, supported := cls.Classify(strings.ToLower(filepath.Ext(name)))
//
// Matching is case-insensitive and exhaustive over the allowlist; everything
// else classifies as CategoryOther with supported = false.
package assettypes
