// Package manifest flattens the image manifest into plate-tagged entries.
//
// The manifest has been produced by several generations of tooling, so Parse
// accepts a fixed, ordered list of layouts (see shapes.go) and hides the raw
// document behind the flat Entry list. Plate and primary-asana identifiers are
// read from the filename ("074_Utthita_Trikonasana_Plate3.webp"); an explicit
// plate field only fills in when the filename carries none.
package manifest
