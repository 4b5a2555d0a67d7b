package task

import "testing"

func TestChecksText(t *testing.T) {
	cases := []struct {
		name   string
		checks any
		want   string
	}{
		{"nil", nil, ""},
		{"string passthrough", "renders headings", "renders headings"},
		{"list rendered", []any{"a", "b"}, "[a b]"},
		{"number rendered", 42, "42"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := &Request{Checks: c.checks}
			if got := r.ChecksText(); got != c.want {
				t.Fatalf("ChecksText() = %q, want %q", got, c.want)
			}
		})
	}
}
