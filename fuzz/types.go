// Package fuzz configuration options and sentinel errors.
package fuzz

import "errors"

// Sentinel errors for generator configuration.
var (
	// ErrNilPool indicates a nil expression pool was passed to New.
	ErrNilPool = errors.New("fuzz: expression pool is nil")

	// ErrFewFields indicates NumFields < 2; the packet axioms need two
	// distinct fields to exist.
	ErrFewFields = errors.New("fuzz: at least two fields are required")
)

// Options configures a Generator.
//
// Fields:
//
//	NumFields - packet width k; fields x0..x(k-1) appear in generated
//	            expressions. Must be at least 2.
//	Seed      - RNG seed; 0 selects a fixed default so that runs are
//	            reproducible by default.
type Options struct {
	NumFields int
	Seed      int64
}

// DefaultOptions returns an Options struct pre-populated with the
// harness defaults.
//
//	NumFields: 3 // matches the reference fuzz harness
//	Seed:      0 // fixed default stream
func DefaultOptions() Options {
	return Options{
		NumFields: 3,
		Seed:      0,
	}
}

// Validate checks that the Options hold a usable combination.
// Returns ErrFewFields when NumFields < 2.
func (o *Options) Validate() error {
	if o.NumFields < 2 {
		return ErrFewFields
	}
	return nil
}
