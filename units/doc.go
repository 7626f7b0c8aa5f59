// Package units implements the physical-unit signature algebra: parsing a
// compact token grammar, composing signatures under multiplication and
// division, and canonicalizing them to a unique string form for equality
// and diagnostic rendering.
//
// A Unit is a mapping from base-unit symbol to signed integer exponent.
// Dimensionless is the empty mapping. Canonical form sorts base symbols
// lexicographically and drops zero-exponent entries; equality is defined
// on canonical form, not on construction order.
package units
