package resolver

import (
	"regexp"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"lowercase", "Servicio Social", "servicio social"},
		{"diacritics", "Prácticas Profesionales", "practicas profesionales"},
		{"enye", "¿Cómo acompaño el señalamiento?", "como acompano el senalamiento"},
		{"punctuation", "¡requisitos, por favor!", "requisitos por favor"},
		{"question marks", "¿Cuáles son los requisitos?", "cuales son los requisitos"},
		{"whitespace collapse", "  hola \t  mundo  \n", "hola mundo"},
		{"digits kept", "necesito el 70% de créditos", "necesito el 70 de creditos"},
		{"only punctuation", "¿?¡!,.;:()", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeOutputCharset(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9 ]*$`)
	inputs := []string{
		"ÁÉÍÓÚñ¿?¡!,.;:()",
		"¿Qué es el Servicio Social?",
		"REQUISITOS   DE   TITULACIÓN!!!",
		"práctica(s) — año 2026; ver: anexo №3",
		"\t\n  ",
	}
	for _, in := range inputs {
		got := Normalize(in)
		if !valid.MatchString(got) {
			t.Errorf("Normalize(%q) = %q contains characters outside [a-z0-9 ]", in, got)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"¿Cuáles son los requisitos del Servicio Social?",
		"prácticas profesionales",
		"ÁÉÍÓÚñ¿?¡!,.;:()",
		"  doble   espacio  ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestHasToken(t *testing.T) {
	if !hasToken("requisitos del ss", "ss") {
		t.Error("expected whole-word match for \"ss\"")
	}
	if hasToken("grupos grandes", "ss") {
		t.Error("token matching must not match inside other words")
	}
	if hasToken("", "ss") {
		t.Error("empty message must not match any token")
	}
}
