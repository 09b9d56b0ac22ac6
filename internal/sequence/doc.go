// Package sequence loads practice sequences from JSON, TOML or YAML files.
//
// A sequence is an ordered list of poses. Each pose names its plates as a
// plate.Ref and holds for a whole number of seconds. Loaded sequences are
// immutable; a reload builds a new Set.
package sequence
