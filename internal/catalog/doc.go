// Package catalog builds the immutable lookup tables joining the asana index
// with the image manifest and resolves which images to show for a pose.
//
// A Catalog is built once per load and never mutated afterwards. Overrides
// produce a new Catalog sharing the image tables (see WithRecords), and a
// Holder swaps the published value atomically on reload.
package catalog
