package engine

import "testing"

func TestParseHeaderMatchMode(t *testing.T) {
	t.Run("should resolve known modes case-insensitively", func(t *testing.T) {
		cases := []struct {
			mode string
			want HeaderMatchMode
		}{
			{"ExactHeader", HeaderMatchExact},
			{"HeaderPrefix", HeaderMatchPrefix},
			{"headerprefix", HeaderMatchPrefix},
			{"Contains", HeaderMatchContains},
			{"NotContains", HeaderMatchNotContains},
			{"EXISTS", HeaderMatchExists},
			{"NotExists", HeaderMatchNotExists},
		}
		for _, tc := range cases {
			if got := ParseHeaderMatchMode(tc.mode); got != tc.want {
				t.Fatalf("\nwanted:\n%v for %q\ngot:\n%v", tc.want, tc.mode, got)
			}
		}
	})

	t.Run("should fall back to exact for unknown or empty modes", func(t *testing.T) {
		for _, mode := range []string{"", "no-such-mode", "regex"} {
			if got := ParseHeaderMatchMode(mode); got != HeaderMatchExact {
				t.Fatalf("\nwanted:\nHeaderMatchExact for %q\ngot:\n%v", mode, got)
			}
		}
	})
}

func TestParseQueryParameterMatchMode(t *testing.T) {
	t.Run("should resolve known modes case-insensitively", func(t *testing.T) {
		cases := []struct {
			mode string
			want QueryParameterMatchMode
		}{
			{"Exact", QueryParameterMatchExact},
			{"Contains", QueryParameterMatchContains},
			{"notcontains", QueryParameterMatchNotContains},
			{"Prefix", QueryParameterMatchPrefix},
			{"Exists", QueryParameterMatchExists},
		}
		for _, tc := range cases {
			if got := ParseQueryParameterMatchMode(tc.mode); got != tc.want {
				t.Fatalf("\nwanted:\n%v for %q\ngot:\n%v", tc.want, tc.mode, got)
			}
		}
	})

	t.Run("should fall back to exact for unknown or empty modes", func(t *testing.T) {
		for _, mode := range []string{"", "bogus"} {
			if got := ParseQueryParameterMatchMode(mode); got != QueryParameterMatchExact {
				t.Fatalf("\nwanted:\nQueryParameterMatchExact for %q\ngot:\n%v", mode, got)
			}
		}
	})
}

func TestMatchModeString(t *testing.T) {
	t.Run("should render canonical names", func(t *testing.T) {
		if got := HeaderMatchNotExists.String(); got != "NotExists" {
			t.Fatalf("\nwanted:\nNotExists\ngot:\n%q", got)
		}
		if got := QueryParameterMatchPrefix.String(); got != "Prefix" {
			t.Fatalf("\nwanted:\nPrefix\ngot:\n%q", got)
		}
	})
}
