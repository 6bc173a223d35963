package normalize

import "testing"

func TestEmail(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Alice@Example.COM", "alice@example.com"},
		{"  bob@example.com ", "bob@example.com"},
		{"", ""},
		{"\tCarol@Example.com\n", "carol@example.com"},
	}
	for _, tc := range cases {
		if got := Email(tc.in); got != tc.want {
			t.Errorf("Email(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
