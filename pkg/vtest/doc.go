// Package vtest provides render assertions for view tests.
//
//	func TestConfirmation(t *testing.T) {
//	    node := signup.View(session)
//	    vtest.ExpectContains(t, node, "Registration successful!")
//	    vtest.ExpectNotContains(t, node, "<form")
//	}
//
// Every helper renders with a fresh renderer, so HIDs in the output always
// start at h1.
package vtest
