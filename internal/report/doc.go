// Package report renders partition results for the operator.
//
// Text reports are drawn with github.com/pterm/pterm; styling is switched
// off when stdout is not a terminal. JSON and YAML reports encode the
// Document type so scripts get the same fields in either format.
package report
