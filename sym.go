// Package sym implements a symbolic expression engine for a multi-sorted
// logic suitable for driving SMT solvers. Clients assemble terms through a
// Builder, which constant-folds, normalizes, and hash-conses every node so
// that syntactic equality is pointer identity. Each term carries an abstract
// value soundly over-approximating its denotation.
package sym

import (
	"fmt"
)

// InvalidRangeError is returned when a bounded fresh variable is requested
// with an empty or out-of-range interval.
type InvalidRangeError struct {
	Sort Sort
	Lo   string
	Hi   string
}

// Error returns a description of the invalid range.
func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("sym: invalid range [%s, %s] for sort %s", e.Lo, e.Hi, e.Sort)
}

// Config carries operation-time options consulted by the builder. The zero
// value uses defaults for every option.
type Config struct {
	// GetOption returns the value of an opaque configuration key.
	// Consulted at operation time; may be nil.
	GetOption func(key string) (string, bool)
}

// Option keys consulted by the builder.
const (
	// OptUnfoldPolicy overrides the unfold policy of defined functions
	// that were registered without an explicit policy. One of "never",
	// "always", "concrete".
	OptUnfoldPolicy = "unfold-policy"
)

func (c *Config) option(key string) (string, bool) {
	if c == nil || c.GetOption == nil {
		return "", false
	}
	return c.GetOption(key)
}

// assert panics if condition is false.
func assert(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf("assert: "+format, args...))
	}
}
