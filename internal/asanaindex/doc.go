// Package asanaindex parses the asana index CSV into records.
//
// Columns are bound by header name rather than position so the sheet can be
// reordered or extended without code changes. Plate cells may list several
// plates separated by "|" and numeric ranges such as "18-21". Rows whose asana
// number is not digits with an optional trailing letter are treated as noise
// and dropped; one bad row never aborts the load.
package asanaindex
