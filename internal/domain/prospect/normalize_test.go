package prospect

import "testing"

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "trims and lowercases", in: "  Jon Singleton ", want: "jon singleton"},
		{name: "already normalized", in: "jon singleton", want: "jon singleton"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeName(tt.in); got != tt.want {
				t.Fatalf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "anchor tag", in: `<a href="/players/123">Jon Singleton</a>`, want: "Jon Singleton"},
		{name: "nested markup", in: "<b><i>Luis Perales</i></b>", want: "Luis Perales"},
		{name: "plain name untouched", in: "Chase Petty", want: "Chase Petty"},
		{name: "unclosed tag degrades to best effort", in: "<a href=Jon Singleton", want: "<a href=Jon Singleton"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CleanName(tt.in); got != tt.want {
				t.Fatalf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrimaryPosition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "multi position", in: "SS/2B", want: "SS"},
		{name: "triple position", in: "1B/3B/OF", want: "1B"},
		{name: "single position", in: "C", want: "C"},
		{name: "spaced delimiter", in: "SS / 2B", want: "SS"},
		{name: "empty stays empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := PrimaryPosition(tt.in); got != tt.want {
				t.Fatalf("PrimaryPosition(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseNumeric(t *testing.T) {
	t.Parallel()

	t.Run("zero stays present", func(t *testing.T) {
		t.Parallel()
		got := ParseNumeric("0")
		if got == nil {
			t.Fatal("ParseNumeric(\"0\") = nil, want 0.0")
		}
		if *got != 0 {
			t.Fatalf("ParseNumeric(\"0\") = %v, want 0.0", *got)
		}
	})

	t.Run("empty is missing", func(t *testing.T) {
		t.Parallel()
		if got := ParseNumeric(""); got != nil {
			t.Fatalf("ParseNumeric(\"\") = %v, want nil", *got)
		}
	})

	t.Run("garbage is missing", func(t *testing.T) {
		t.Parallel()
		if got := ParseNumeric("abc"); got != nil {
			t.Fatalf("ParseNumeric(\"abc\") = %v, want nil", *got)
		}
	})

	t.Run("float value", func(t *testing.T) {
		t.Parallel()
		got := ParseNumeric("24.5")
		if got == nil || *got != 24.5 {
			t.Fatalf("ParseNumeric(\"24.5\") = %v, want 24.5", got)
		}
	})
}

func TestNumericValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      any
		want    float64
		missing bool
	}{
		{name: "nil", in: nil, missing: true},
		{name: "float", in: 23.7, want: 23.7},
		{name: "zero float stays present", in: 0.0, want: 0},
		{name: "numeric string", in: "12", want: 12},
		{name: "empty string", in: "", missing: true},
		{name: "bool", in: true, missing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NumericValue(tt.in)
			if tt.missing {
				if got != nil {
					t.Fatalf("NumericValue(%v) = %v, want nil", tt.in, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("NumericValue(%v) = nil, want %v", tt.in, tt.want)
			}
			if *got != tt.want {
				t.Fatalf("NumericValue(%v) = %v, want %v", tt.in, *got, tt.want)
			}
		})
	}
}

func TestIntValue(t *testing.T) {
	t.Parallel()

	if got := IntValue(5.0); got == nil || *got != 5 {
		t.Fatalf("IntValue(5.0) = %v, want 5", got)
	}
	if got := IntValue(nil); got != nil {
		t.Fatalf("IntValue(nil) = %v, want nil", *got)
	}
	if got := IntValue("17"); got == nil || *got != 17 {
		t.Fatalf("IntValue(\"17\") = %v, want 17", got)
	}
}
