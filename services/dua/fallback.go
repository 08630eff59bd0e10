package dua

import (
	"strings"

	"barakah/models"
)

var generalDua = Sections{
	Arabic:          "رَبَّنَا آتِنَا فِي الدُّنْيَا حَسَنَةً وَفِي الْآخِرَةِ حَسَنَةً وَقِنَا عَذَابَ النَّارِ",
	Transliteration: "Rabbana atina fi'd-dunya hasanatan wa fi'l-akhirati hasanatan wa qina azab an-nar",
	Translation:     "Our Lord, grant us good in this world and good in the Hereafter, and protect us from the punishment of the Fire.",
}

var successDua = Sections{
	Arabic:          "اللَّهُمَّ أَعِنِّي وَلَا تُعِنْ عَلَيَّ وَانْصُرْنِي وَلَا تَنْصُرْ عَلَيَّ",
	Transliteration: "Allahumma a'inni wa la tu'in alayya, wansurni wa la tansur alayya",
	Translation:     "O Allah, help me and do not help against me, support me and do not support against me.",
}

var successKeywords = []string{"success", "work", "business", "job"}

// FallbackDua returns the canned dua for a situation. Situations mentioning
// work or success get the success dua; everything else gets the general one.
func FallbackDua(situation, language string) *models.DuaContent {
	chosen := generalDua
	lower := strings.ToLower(situation)
	for _, kw := range successKeywords {
		if strings.Contains(lower, kw) {
			chosen = successDua
			break
		}
	}
	return &models.DuaContent{
		Arabic:          chosen.Arabic,
		Transliteration: chosen.Transliteration,
		Translation:     chosen.Translation,
		Language:        language,
		Situation:       situation,
		Source:          models.SourceFallback,
	}
}
