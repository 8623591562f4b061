package openlibrary

// Language labels served to the frontend.
const (
	LabelSpanish = "Español"
	LabelEnglish = "Inglés"
	LabelOther   = "Otro"
)

const (
	languageKeySpanish = "/languages/spa"
	languageKeyEnglish = "/languages/eng"

	// Only the first entries of an edition list are considered when picking
	// a preferred edition; catalogs can return very large result sets.
	preferredEditionWindow = 20
)

// SelectPreferredEdition picks the best edition out of the first 20 entries:
// a Spanish-tagged edition wins, then an English-tagged one, then the first
// entry in original order. Returns nil for an empty window.
func SelectPreferredEdition(editions []Edition) *Edition {
	window := editions
	if len(window) > preferredEditionWindow {
		window = window[:preferredEditionWindow]
	}
	if len(window) == 0 {
		return nil
	}

	for i := range window {
		if hasLanguage(&window[i], languageKeySpanish) {
			return &window[i]
		}
	}
	for i := range window {
		if hasLanguage(&window[i], languageKeyEnglish) {
			return &window[i]
		}
	}
	return &window[0]
}

// LanguageLabel maps an edition's language tags to a display label using the
// same two-tier check as SelectPreferredEdition.
func LanguageLabel(ed *Edition) string {
	switch {
	case hasLanguage(ed, languageKeySpanish):
		return LabelSpanish
	case hasLanguage(ed, languageKeyEnglish):
		return LabelEnglish
	default:
		return LabelOther
	}
}

// LanguageLabelFor applies the same check to a bare language tag list.
func LanguageLabelFor(languages []LanguageRef) string {
	return LanguageLabel(&Edition{Languages: languages})
}

func hasLanguage(ed *Edition, key string) bool {
	for _, lang := range ed.Languages {
		if lang.Key == key {
			return true
		}
	}
	return false
}
