package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// bibliographic maps ISO 639-2/B codes, common in Matroska track metadata, to
// their terminology forms that BCP 47 parsing understands.
var bibliographic = map[string]string{
	"alb": "sqi",
	"arm": "hye",
	"baq": "eus",
	"bur": "mya",
	"chi": "zho",
	"cze": "ces",
	"dut": "nld",
	"fre": "fra",
	"geo": "kat",
	"ger": "deu",
	"gre": "ell",
	"ice": "isl",
	"mac": "mkd",
	"mao": "mri",
	"may": "msa",
	"per": "fas",
	"rum": "ron",
	"slo": "slk",
	"tib": "bod",
	"wel": "cym",
}

var namer = display.English.Languages()

// Parse converts a track language code (ISO 639-1, 639-2/T, 639-2/B or a
// BCP 47 tag) to a language tag. Undetermined and empty codes fail.
func Parse(code string) (language.Tag, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || code == "und" || code == "mul" || code == "zxx" {
		return language.Und, false
	}
	if mapped, ok := bibliographic[code]; ok {
		code = mapped
	}
	tag, err := language.Parse(code)
	if err != nil || tag == language.Und {
		return language.Und, false
	}
	return tag, true
}

// DisplayName returns the English name of a language code, or "" when the
// code is not recognized.
func DisplayName(code string) string {
	tag, ok := Parse(code)
	if !ok {
		return ""
	}
	return namer.Name(tag)
}

// ToISO2 returns the two-letter base language of code, or "" when the
// language has none.
func ToISO2(code string) string {
	tag, ok := Parse(code)
	if !ok {
		return ""
	}
	base, _ := tag.Base()
	s := base.String()
	if len(s) != 2 {
		return ""
	}
	return s
}

// TrackLabel picks the text shown for a track: its title when set, else the
// language display name, else the raw language code.
func TrackLabel(title, code string) string {
	if title = strings.TrimSpace(title); title != "" {
		return title
	}
	if name := DisplayName(code); name != "" {
		return name
	}
	return strings.TrimSpace(code)
}
