package inventory

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// ParsePrice Tests
// ----------------------------------------------------------------------------

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "dollar sign with cents", input: "$12.34", want: 1234},
		{name: "dollar sign whole", input: "$12", want: 1200},
		{name: "thousands separator", input: "$1,234.56", want: 123456},
		{name: "surrounding whitespace", input: "  $3.19 ", want: 319},
		{name: "single decimal digit", input: "$4.5", want: 450},
		{name: "half cent rounds up", input: "$0.005", want: 1},
		{name: "decimal without symbol", input: "7.25", want: 725},
		{name: "bare integer is minor units", input: "999", want: 999},
		{name: "zero", input: "$0.00", want: 0},
		{name: "euro sign", input: "€2.10", want: 210},

		{name: "empty", input: "", wantErr: true},
		{name: "only symbol", input: "$", wantErr: true},
		{name: "letters", input: "$abc", wantErr: true},
		{name: "negative", input: "-$1.00", wantErr: true},
		{name: "negative without symbol", input: "-5", wantErr: true},

		{name: "largest price", input: "$92233720368547758.07", want: math.MaxInt64},
		{name: "largest bare integer", input: "9223372036854775807", want: math.MaxInt64},
		{name: "cents overflow int64", input: "$92233720368547758.08", wantErr: true},
		{name: "bare integer overflow", input: "9223372036854775808", wantErr: true},
		{name: "exponent overflow", input: "$1e17", wantErr: true},
		{name: "exponent too long", input: "$1e1000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePrice(%q) = %d, want error", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidPrice) {
					t.Errorf("ParsePrice(%q) error = %v, want ErrInvalidPrice", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePrice(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePrice(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

// Every "$D.DD" string must come out as exactly D*100+DD.
func TestParsePrice_AllCentValues(t *testing.T) {
	for dollars := int64(0); dollars < 30; dollars += 7 {
		for cents := int64(0); cents < 100; cents++ {
			input := fmt.Sprintf("$%d.%02d", dollars, cents)
			got, err := ParsePrice(input)
			if err != nil {
				t.Fatalf("ParsePrice(%q) unexpected error: %v", input, err)
			}
			if want := dollars*100 + cents; got != want {
				t.Fatalf("ParsePrice(%q) = %d, want %d", input, got, want)
			}
		}
	}
}

func TestParseDollars(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: "9.99", want: 999},
		{input: "9", want: 900},
		{input: "0.1", want: 10},
		{input: "$2.50", want: 250},
		{input: "19.999", want: 2000},
		{input: "", wantErr: true},
		{input: "nine", wantErr: true},
		{input: "-1", wantErr: true},
		{input: "1e17", wantErr: true},
		{input: "92233720368547758.08", wantErr: true},
		{input: "1e1000", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseDollars(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidPrice) {
				t.Errorf("ParseDollars(%q) error = %v, want ErrInvalidPrice", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDollars(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDollars(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

// ----------------------------------------------------------------------------
// Quantity Tests
// ----------------------------------------------------------------------------

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "4", want: 4},
		{input: "4.9", want: 4},
		{input: "12.0", want: 12},
		{input: " 7 ", want: 7},
		{input: "1,200", want: 1200},
		{input: "0", want: 0},
		{input: "", wantErr: true},
		{input: "many", wantErr: true},
		{input: "-3", wantErr: true},
		{input: "2147483647", want: math.MaxInt32},
		{input: "2147483647.9", want: math.MaxInt32},
		{input: "2147483648", wantErr: true},
		{input: "1e19", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseQuantity(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidQuantity) {
				t.Errorf("ParseQuantity(%q) error = %v, want ErrInvalidQuantity", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseQuantity(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseQuantity(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseWholeQuantity(t *testing.T) {
	if got, err := ParseWholeQuantity(" 4 "); err != nil || got != 4 {
		t.Errorf("ParseWholeQuantity(\" 4 \") = %d, %v; want 4, nil", got, err)
	}
	if got, err := ParseWholeQuantity("2147483647"); err != nil || got != math.MaxInt32 {
		t.Errorf("ParseWholeQuantity(\"2147483647\") = %d, %v; want %d, nil", got, err, math.MaxInt32)
	}
	for _, bad := range []string{"", "4.5", "four", "-1", "2147483648", "99999999999999999999"} {
		if _, err := ParseWholeQuantity(bad); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("ParseWholeQuantity(%q) error = %v, want ErrInvalidQuantity", bad, err)
		}
	}
}

// ----------------------------------------------------------------------------
// Date Tests
// ----------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "11/1/2018", want: "2018-11-01"},
		{input: "04/08/2018", want: "2018-04-08"},
		{input: "2018-07-15", want: "2018-07-15"},
		{input: "Jan 2, 2019", want: "2019-01-02"},
		{input: "2018-07-15 10:30:00", want: "2018-07-15"},
		{input: "3/4/18", want: "2018-03-04"},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.input)
		if err != nil {
			t.Errorf("ParseDate(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if s := got.Format("2006-01-02"); s != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.input, s, tt.want)
		}
	}

	for _, bad := range []string{"", "yesterday", "13/45/2018"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", bad, err)
		}
	}
}

// ----------------------------------------------------------------------------
// Formatting Tests
// ----------------------------------------------------------------------------

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{999, "$9.99"},
		{1200, "$12.00"},
		{123456, "$1,234.56"},
		{-250, "-$2.50"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.cents); got != tt.want {
			t.Errorf("FormatPrice(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestFormatCSVDate(t *testing.T) {
	d := time.Date(2026, time.March, 7, 15, 4, 0, 0, time.UTC)
	if got := FormatCSVDate(d); got != "03/07/2026" {
		t.Errorf("FormatCSVDate() = %q, want %q", got, "03/07/2026")
	}
}

func TestProductRecord(t *testing.T) {
	p := Product{
		ID:        3,
		Name:      "Widget",
		Price:     999,
		Quantity:  4,
		UpdatedAt: time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC),
	}
	want := []string{"3", "Widget", "999", "4", "2026-10-18 09:30:00"}
	got := p.Record()
	if len(got) != len(want) {
		t.Fatalf("Record() length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Record()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
