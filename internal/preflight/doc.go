// Package preflight provides readiness checks for the paths and services
// yogaseq depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup and logs every failure. Missing
//     assets degrade to empty data, so failures never stop the daemon.
//   - The CLI "yogaseq status" command prints the same results next to
//     the daemon's own view.
//
// Remote checks only run for sources configured as http(s) URLs.
package preflight
