package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindComponent, "Component"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVNodeIsInteractive(t *testing.T) {
	tests := []struct {
		name string
		node *VNode
		want bool
	}{
		{
			name: "nil node",
			node: nil,
			want: false,
		},
		{
			name: "text node",
			node: Text("hello"),
			want: false,
		},
		{
			name: "element without handlers",
			node: Div(Class("test")),
			want: false,
		},
		{
			name: "input with oninput",
			node: Input(OnInput(func(string) {})),
			want: true,
		},
		{
			name: "form with onsubmit",
			node: Form(OnSubmit(func() {})),
			want: true,
		},
		{
			name: "attribute that only looks like a handler",
			node: &VNode{Kind: KindElement, Tag: "div", Props: Props{"one": "two"}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsInteractive(); got != tt.want {
				t.Errorf("IsInteractive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVNodeHandler(t *testing.T) {
	called := false
	node := Form(OnSubmit(func() { called = true }).PreventDefault())

	h, ok := node.Handler("submit")
	if !ok {
		t.Fatal("expected submit handler")
	}
	if !h.Prevent {
		t.Error("expected PreventDefault to be recorded")
	}
	if h.Name() != "submit" {
		t.Errorf("Name() = %q, want submit", h.Name())
	}
	h.Handler.(func())()
	if !called {
		t.Error("handler was not the registered callback")
	}

	if _, ok := node.Handler("input"); ok {
		t.Error("unexpected input handler")
	}
	var nilNode *VNode
	if _, ok := nilNode.Handler("submit"); ok {
		t.Error("nil node should have no handlers")
	}
}

func TestFuncComponent(t *testing.T) {
	comp := Func(func() *VNode { return P(Text("hi")) })
	node := comp.Render()
	if node.Tag != "p" {
		t.Errorf("expected p, got %s", node.Tag)
	}
}
