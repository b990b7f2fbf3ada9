package signup

import "github.com/vango-dev/signup/pkg/vdom"

const (
	// ConfirmationText is the message shown once the form is submitted.
	ConfirmationText = "Registration successful!"

	// SubmitLabel is the text of the submit button.
	SubmitLabel = "Register"

	// FormAction is where the form posts when no live connection is
	// available.
	FormAction = "/register"
)

// View renders the session: the editable form while editing, only the
// confirmation message once registered.
func View(s *Session) *vdom.VNode {
	if s.Registered() {
		return Confirmation()
	}
	return FormView(s)
}

// Confirmation renders the static success message.
func Confirmation() *vdom.VNode {
	return vdom.P(
		vdom.Class("signup-confirmation"),
		vdom.Role("status"),
		vdom.Text(ConfirmationText),
	)
}

// FormView renders the three labeled inputs and the submit button, bound
// to the session's current values.
func FormView(s *Session) *vdom.VNode {
	fields := s.Fields()

	rows := make([]*vdom.VNode, 0, len(AllFields))
	for _, field := range AllFields {
		rows = append(rows, fieldRow(s, field, fields.Get(field)))
	}

	return vdom.Form(
		vdom.Class("signup-form"),
		vdom.Method("post"),
		vdom.Action(FormAction),
		vdom.OnSubmit(func() { s.Submit() }).PreventDefault(),
		rows,
		vdom.Button(vdom.Type("submit"), vdom.Text(SubmitLabel)),
	)
}

func fieldRow(s *Session, field Field, value string) *vdom.VNode {
	name := field.String()
	id := "signup-" + name

	return vdom.Div(
		vdom.Class("signup-field"),
		vdom.Label(vdom.For(id), vdom.Text(field.Label())),
		vdom.Input(
			vdom.ID(id),
			vdom.Type(field.InputType()),
			vdom.Name(name),
			vdom.Placeholder(name),
			vdom.Value(value),
			vdom.Required(),
			vdom.AttrIf(field == FieldPassword, vdom.Autocomplete("new-password")),
			vdom.OnInput(func(v string) {
				s.Set(field, v)
			}),
		),
	)
}
