// Package dpe defines the Dwelling Record exchanged with the calculation
// engine: the sanitized regulatory inputs, the Outputs subtree written by a
// run, and the closed enumerations the engine dispatches on.
//
// JSON field names follow the published regulatory schema. Enumerated
// identifiers (fields prefixed with enum_) are kept as opaque strings.
// Collections are always sequences; turning a lone record into a
// one-element sequence is the job of the upstream normalizer.
package dpe
