// Package tables holds the regulatory reference tables of the 3CL-DPE method
// and the generic resolver that maps match criteria to a table row.
//
// A table set is a directory (or embedded filesystem) with a manifest.yaml and
// one YAML file per table:
//
//	name: umur0
//	keys: [enum_materiaux_structure_mur_id]
//	buckets: [epaisseur_structure]
//	rows:
//	  - {enum_materiaux_structure_mur_id: "26", epaisseur_structure: 15, umur0: 0.45}
//
// Key columns are matched exactly; a row that omits a key column matches any
// value. Bucket columns snap the requested number down to the nearest
// available value (or up to the smallest one) and never interpolate. Ties are
// broken by declaration order. Every other column is an output.
//
// A Store is immutable once loaded and safe for concurrent use.
package tables
