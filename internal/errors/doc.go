// Package errors provides structured, actionable error messages for the
// signup server and CLI.
//
// Each error has a unique code that maps to a short message, a detailed
// explanation and a documentation URL:
//
//   - E1xx: configuration (missing or malformed signup.json / signup.hcl)
//   - E2xx: server and live protocol
//   - E3xx: command line
//
// # Usage
//
//	err := errors.New("E121").
//	    WithLocation("signup.hcl", 4, 10).
//	    WithSuggestion("Use a Go duration such as \"30m\"")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E121: Invalid configuration value
//	//
//	//   signup.hcl:4:10
//	//
//	//     3 │ session {
//	//   → 4 │   idle_timeout = "soon"
//	//       │          ^
//	//     5 │ }
//	//
//	//   Hint: Use a Go duration such as "30m"
package errors
