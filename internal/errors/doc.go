// Package errors provides structured, actionable error values for ive.
//
// Each error carries a code (e.g. "E001") that maps to a registered template
// with a category, a short message, a longer explanation and a documentation
// link. Fatal faults of the reactive engine panic with one of these values so
// that a recovered panic prints something a developer can act on.
//
// # Error Categories
//
//   - runtime: reactive engine faults (registry misses, bad renders)
//   - routing: route resolution and lazy module failures
//   - config: configuration loading and validation
//   - export: snapshot rendering and upload
//   - server: live preview server faults
//
// # Usage
//
//	err := errors.New("E001").
//	    WithField("component", "3.1").
//	    WithSuggestion("Do not strip ive-* attributes from rendered nodes")
//
//	fmt.Println(err.Format())
package errors
