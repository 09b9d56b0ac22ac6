// Package overrides merges user-authored description and category
// replacements onto index records and defines the store contract used to
// read and write them.
//
// Merging is pure and idempotent: ApplyDescriptions and ApplyCategories
// recompute every effective value from the base value and the current map,
// so they can be rerun after each successful save.
package overrides
