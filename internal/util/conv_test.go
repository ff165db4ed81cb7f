package util

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Educação Financeira Básica", "educacao-financeira-basica"},
		{"  Investimentos 101!  ", "investimentos-101"},
		{"Poupança & Orçamento", "poupanca-orcamento"},
		{"---", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Fatalf("Slugify(%q): want=%q got=%q", c.in, c.want, got)
		}
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(100.0 / 3.0); got != 33.33 {
		t.Fatalf("Round2(1/3*100): want=33.33 got=%v", got)
	}
	if got := Round2(200.0 / 3.0); got != 66.67 {
		t.Fatalf("Round2(2/3*100): want=66.67 got=%v", got)
	}
}

func TestParseUintParam(t *testing.T) {
	if _, ok := ParseUintParam("0"); ok {
		t.Fatalf("zero id should be rejected")
	}
	if _, ok := ParseUintParam("abc"); ok {
		t.Fatalf("non-numeric id should be rejected")
	}
	if id, ok := ParseUintParam("42"); !ok || id != 42 {
		t.Fatalf("ParseUintParam(42): want=42 got=%v ok=%v", id, ok)
	}
}
