// Package plate canonicalizes plate and asana identifiers.
//
// Identifiers arrive from the asana index CSV, image manifest filenames, plate
// group files and sequence definitions in slightly different spellings ("001",
// "1", "172a", "471.1"). Normalize folds them onto a single comparable form and
// every other package compares identifiers only through it.
//
// Ref models a pose's plate field, which is either a single identifier or an
// explicit ordered list of identifiers.
package plate
