package agent

import "testing"

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "json code block",
			in:   "Here you go:\n```json\n{\"a\": 1}\n```\nDone.",
			want: `{"a": 1}`,
		},
		{
			name: "bare code block",
			in:   "```\n{\"b\": 2}\n```",
			want: `{"b": 2}`,
		},
		{
			name: "raw braces",
			in:   `The answer is {"c": 3} as requested.`,
			want: `{"c": 3}`,
		},
		{
			name: "nested braces",
			in:   `prefix {"outer": {"inner": 1}} suffix`,
			want: `{"outer": {"inner": 1}}`,
		},
		{
			name: "no json",
			in:   "just prose, nothing structured",
			want: "",
		},
		{
			name: "invalid json ignored",
			in:   "{not valid json}",
			want: "",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := extractJSON(c.in); got != c.want {
				t.Errorf("extractJSON(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}
