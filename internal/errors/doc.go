// Package errors provides structured, coded errors for hardfox.
//
// Every error carries a short code (e.g. "E001") that maps to a registered
// template with a category, a one-line message and a longer explanation.
// Callers attach the offending detail, a fix suggestion and the underlying
// cause:
//
//	err := errors.New("E150").
//	    WithLocation("catalog.yaml", 12).
//	    WithSuggestion("Every setting needs a non-empty key").
//	    Wrap(cause)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E150: Settings catalog could not be loaded
//	//
//	//   catalog.yaml:12
//	//
//	//   Hint: Every setting needs a non-empty key
//
// # Error Categories
//
//   - reconcile: malformed node sequences handed to the reconciler
//   - widget: widget adapter failures while applying patches
//   - setting: unknown setting keys and invalid values
//   - protocol: binary patch frame decoding
//   - config: hardfox.json loading and validation
//   - catalog: settings catalog loading
//
// Errors implement Unwrap so errors.Is and errors.As see the cause.
package errors
