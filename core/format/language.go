package format

// Language identifies one localized variant of a sheet's data files.
// LanguageNone marks a language-neutral sheet whose data files carry no
// language suffix.
type Language uint8

const (
	LanguageNone Language = iota
	LanguageJapanese
	LanguageEnglish
	LanguageGerman
	LanguageFrench
	LanguageChineseSimplified
	LanguageChineseTraditional
	LanguageKorean
)

var languageCodes = map[Language]string{
	LanguageNone:               "",
	LanguageJapanese:           "ja",
	LanguageEnglish:            "en",
	LanguageGerman:             "de",
	LanguageFrench:             "fr",
	LanguageChineseSimplified:  "chs",
	LanguageChineseTraditional: "cht",
	LanguageKorean:             "kr",
}

// Code returns the short language code used as the data-file name suffix.
// LanguageNone has no code.
func (l Language) Code() string {
	return languageCodes[l]
}

func (l Language) String() string {
	switch l {
	case LanguageNone:
		return "none"
	case LanguageJapanese:
		return "japanese"
	case LanguageEnglish:
		return "english"
	case LanguageGerman:
		return "german"
	case LanguageFrench:
		return "french"
	case LanguageChineseSimplified:
		return "chinese (simplified)"
	case LanguageChineseTraditional:
		return "chinese (traditional)"
	case LanguageKorean:
		return "korean"
	default:
		return "unknown"
	}
}

// ParseLanguageCode maps a short language code back to its Language.
// The empty string maps to LanguageNone.
func ParseLanguageCode(code string) (Language, bool) {
	for l, c := range languageCodes {
		if c == code {
			return l, true
		}
	}
	return LanguageNone, false
}
