// Package core defines the shared packet-domain vocabulary used by every
// other package in the module: the Field index type, the default packet
// width, and the sentinel errors for configuration mistakes.
//
// A packet is a fixed-width vector of k binary fields numbered 0..k-1.
// The width k is chosen once per decision procedure; the sp and spp
// stores, the automaton, and the parser of one procedure must all agree
// on it. Nothing in this package allocates or caches state: it exists so
// that the leaf packages do not import each other for a type alias.
//
// Errors:
//
//	ErrFieldRange   - a field index is outside 0..k-1.
//	ErrBadNumFields - a negative packet width was supplied.
package core
