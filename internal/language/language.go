package language

import (
	"strings"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Undetermined is the ISO 639-2 code for an unknown language.
const Undetermined = "und"

// ForcedSuffix marks a forced subtitle or audio track in a tag.
const ForcedSuffix = "-forced"

// bibliographic maps ISO 639-2/B codes, which Matroska files often carry,
// to their terminology form.
var bibliographic = map[string]string{
	"alb": "sqi", "arm": "hye", "baq": "eus", "bur": "mya", "chi": "zho",
	"cze": "ces", "dut": "nld", "fre": "fra", "geo": "kat", "ger": "deu",
	"gre": "ell", "ice": "isl", "mac": "mkd", "mao": "mri", "may": "msa",
	"per": "fas", "rum": "ron", "slo": "slk", "tib": "bod", "wel": "cym",
}

// named lists the languages also recognized by their English name.
var named = strings.Fields(`
	ar bg bn ca cs da de el en es et eu fa fi fr gl he hi hr hu id is it ja
	ko lt lv ms nl no pl pt ro ru sk sl sr sv ta te th tr uk vi zh`)

var (
	byName      = map[string]xlanguage.Base{}
	englishName = display.English.Languages()
	titleCaser  = cases.Title(xlanguage.English)
)

func init() {
	for _, code := range named {
		base := xlanguage.MustParseBase(code)
		name := strings.ToLower(englishName.Name(base))
		byName[name] = base
		// "Norwegian Bokmål" is also known as plain "Norwegian".
		if first, _, ok := strings.Cut(name, " "); ok {
			if _, taken := byName[first]; !taken {
				byName[first] = base
			}
		}
	}
}

// resolve reduces a BCP 47 tag, ISO 639 code or English language name to
// its base language. The boolean is false for empty, undetermined or
// unparseable input.
func resolve(code string) (xlanguage.Base, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || code == Undetermined {
		return xlanguage.Base{}, false
	}
	if base, ok := byName[code]; ok {
		return base, true
	}
	if t, ok := bibliographic[code]; ok {
		code = t
	}
	tag, err := xlanguage.Parse(code)
	if err != nil {
		return xlanguage.Base{}, false
	}
	base, confidence := tag.Base()
	if confidence == xlanguage.No || base.String() == Undetermined {
		return xlanguage.Base{}, false
	}
	return base, true
}

// ToISO2 returns the ISO 639-1 code for code, or the ISO 639-2 code when
// the language has no two-letter form ("yue" stays "yue"). Unrecognized
// input yields "".
func ToISO2(code string) string {
	base, ok := resolve(code)
	if !ok {
		return ""
	}
	return base.String()
}

// ToISO3 returns the ISO 639-2/T code for code, or "und".
func ToISO3(code string) string {
	if base, ok := resolve(code); ok {
		if iso3 := base.ISO3(); iso3 != "" {
			return iso3
		}
	}
	return Undetermined
}

// IsUndetermined reports whether a metadata value carries no usable language.
func IsUndetermined(code string) bool {
	_, ok := resolve(code)
	return !ok
}

// Tag picks the filename language for a track from the first usable of
// preferred (usually language_ietf), legacy and fallback, defaulting to
// "und". Forced tracks get ForcedSuffix.
func Tag(preferred, legacy, fallback string, forced bool) string {
	tag := Undetermined
	for _, candidate := range []string{preferred, legacy, fallback} {
		if iso2 := ToISO2(candidate); iso2 != "" {
			tag = iso2
			break
		}
	}
	if forced {
		tag += ForcedSuffix
	}
	return tag
}

// DisplayName renders code as an English language name. Empty input reads
// "Unknown" and anything unrecognized is echoed upper-cased.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	if base, ok := resolve(trimmed); ok {
		if name := englishName.Name(base); name != "" {
			return titleCaser.String(name)
		}
	}
	return strings.ToUpper(trimmed)
}
