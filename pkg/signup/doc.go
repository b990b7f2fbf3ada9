// Package signup implements the registration form session and its view.
//
// A Session holds the three form fields and the registration status.
// Fields are replaced one at a time with UpdateField; Submit moves the
// session from StatusEditing to StatusRegistered, once and for good.
//
//	s := signup.NewSession()
//	_ = s.UpdateField("email", "a@b.com")
//	_ = s.UpdateField("username", "alice")
//	s.Submit()
//
// View renders the session: the editable form while editing, the fixed
// confirmation message after registration. The form's event handlers call
// back into the session, so a renderer that dispatches browser events to
// those handlers drives the whole flow.
package signup
