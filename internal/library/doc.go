// Package library loads and publishes the catalogue, overrides and
// sequences.
//
// Sources are fetched concurrently and any that fail degrade to empty data
// with a warning. Override saves go to the configured override Source
// first; the in-memory maps change only after it confirms, and the merged
// catalogue is then republished through the catalog.Holder.
package library
