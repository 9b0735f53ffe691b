package language

import (
	"testing"

	xlanguage "golang.org/x/text/language"
)

func checkAll(t *testing.T, name string, fn func(string) string, cases map[string]string) {
	t.Helper()
	for in, want := range cases {
		if got := fn(in); got != want {
			t.Errorf("%s(%q) = %q, want %q", name, in, got, want)
		}
	}
}

func TestToISO2Codes(t *testing.T) {
	checkAll(t, "ToISO2", ToISO2, map[string]string{
		"en": "en", "EN": "en", "eng": "en", "swa": "sw", "yue": "yue",
		"en-US": "en", "pt-BR": "pt", "zh-Hant": "zh",
	})
}

func TestToISO2Bibliographic(t *testing.T) {
	checkAll(t, "ToISO2", ToISO2, map[string]string{
		"fre": "fr", "ger": "de", "chi": "zh", "dut": "nl", "cze": "cs", "per": "fa",
	})
}

func TestToISO2EnglishNames(t *testing.T) {
	checkAll(t, "ToISO2", ToISO2, map[string]string{
		"english": "en", "GERMAN": "de", "Norwegian": "no", " japanese ": "ja",
	})
}

func TestEnglishNamesCoverEveryNamedCode(t *testing.T) {
	for _, code := range named {
		full := englishName.Name(xlanguage.MustParseBase(code))
		if got := ToISO2(full); got != code {
			t.Errorf("ToISO2(%q) = %q, want %q", full, got, code)
		}
	}
	if got := ToISO2("norwegian bokmål"); got != "no" {
		t.Errorf("ToISO2(full Norwegian name) = %q, want no", got)
	}
}

func TestToISO2Unrecognized(t *testing.T) {
	for _, in := range []string{"und", "", " ", "not a tag"} {
		if got := ToISO2(in); got != "" {
			t.Errorf("ToISO2(%q) = %q, want empty", in, got)
		}
		if !IsUndetermined(in) {
			t.Errorf("IsUndetermined(%q) = false", in)
		}
	}
	if IsUndetermined("eng") {
		t.Fatal("eng should be determined")
	}
}

func TestToISO3(t *testing.T) {
	checkAll(t, "ToISO3", ToISO3, map[string]string{
		"en": "eng", "fr": "fra", "ger": "deu", "chi": "zho", "en-GB": "eng",
		"": "und", "und": "und", "???": "und",
	})
}

func TestTagFallbackOrder(t *testing.T) {
	type args struct {
		preferred, legacy, fallback string
		forced                      bool
	}
	cases := map[args]string{
		{"de-DE", "eng", "en", false}: "de",
		{"", "jpn", "en", false}:      "ja",
		{"", "und", "en", false}:      "en",
		{"und", "spa", "en", false}:   "es",
		{"", "", "", false}:           "und",
		{"", "eng", "en", true}:       "en-forced",
		{"", "", "", true}:            "und-forced",
	}
	for a, want := range cases {
		if got := Tag(a.preferred, a.legacy, a.fallback, a.forced); got != want {
			t.Errorf("Tag(%+v) = %q, want %q", a, got, want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	checkAll(t, "DisplayName", DisplayName, map[string]string{
		"": "Unknown", "eng": "English", "fr": "French", "ger": "German",
		"swa": "Swahili", "xx?": "XX?", "123": "123",
	})
}
