package sanitize

import "testing"

func TestStripAllMarkup(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"trims", "  hello  ", "hello"},
		{"bold", "<b>bold</b> move", "bold move"},
		{"attributes", `<a href="https://example.com" onclick="x()">link</a>`, "link"},
		{"script dropped", "<script>alert(1)</script>after", "after"},
		{"only markup", "<p></p><br/>", ""},
		{"whitespace inside markup", "<p>   </p>", ""},
		{"ampersand stays escaped", "fish & chips", "fish &amp; chips"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripAllMarkup(tc.in); got != tc.want {
				t.Fatalf("StripAllMarkup(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCoerceString(t *testing.T) {
	if got := CoerceString("title"); got != "title" {
		t.Fatalf("expected string to pass through, got %q", got)
	}
	for _, v := range []any{nil, 123, 1.5, true, []any{"a"}, map[string]any{"a": "b"}} {
		if got := CoerceString(v); got != "" {
			t.Fatalf("CoerceString(%v) = %q, want empty", v, got)
		}
	}
}
