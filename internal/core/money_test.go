package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"0.01", 1, true},
		{"19.995", 2000, true}, // half away from zero on the third decimal
		{"12.344", 1234, true},
		{"12.345", 1235, true},
		{" 2.50 ", 250, true},
		{".5", 50, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1,23", 0, false},
		{"", 0, false},
		{".", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestRoundingIdempotent(t *testing.T) {
	for _, in := range []string{"0", "0.01", "19.995", "1234.56", "7.005"} {
		once, err := ParseAmount(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		twice, err := ParseAmount(once.String())
		if err != nil {
			t.Fatalf("reparse %q: %v", once.String(), err)
		}
		if twice != once {
			t.Fatalf("%q rounds to %d then %d cents", in, once.Cents, twice.Cents)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{1234, "12.34"},
		{2000, "20.00"},
		{-350, "-3.50"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("%d cents: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestMoneyWholeUnits(t *testing.T) {
	cases := []struct {
		cents int64
		want  int64
	}{
		{0, 0},
		{49, 0},
		{50, 1},
		{149, 1},
		{150, 2},
		{-150, -2},
		{-149, -1},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).WholeUnits(); got != tc.want {
			t.Fatalf("%d cents: expected %d, got %d", tc.cents, tc.want, got)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := (Money{Cents: 1999}).MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "19.99" {
		t.Fatalf("expected 19.99, got %s", b)
	}
	var m Money
	if err := m.UnmarshalJSON([]byte("19.995")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Cents != 2000 {
		t.Fatalf("expected 2000 cents, got %d", m.Cents)
	}
	if err := m.UnmarshalJSON([]byte(`"-3.50"`)); err != nil {
		t.Fatalf("unmarshal negative: %v", err)
	}
	if m.Cents != -350 {
		t.Fatalf("expected -350 cents, got %d", m.Cents)
	}
}
