package document

import (
	"strconv"
	"strings"
)

type rgb struct{ r, g, b int }

func hexColor(h string) rgb {
	h = strings.TrimPrefix(h, "#")
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil || len(h) != 6 {
		return rgb{}
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}
}

var (
	colorGold     = hexColor("#d4af37")
	colorEmerald  = hexColor("#50C878")
	colorRose     = hexColor("#E8B4B8")
	colorText     = hexColor("#2c3e50")
	colorCream    = hexColor("#fef5e7")
	colorHoneydew = hexColor("#f0fff0")
	colorBlush    = hexColor("#fff0f5")
	colorAzure    = hexColor("#f0ffff")
	colorTeal     = hexColor("#006B6B")
)

const (
	inch = 72.0

	titleText    = "Sacred Islamic Supplication"
	subtitleText = "Generated by BarakahTool Enterprise"
	bismillah    = "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ"
	arabicFamily = "arabic"
)

var guidancePoints = []string{
	"Best times: Last third of the night, between Adhan & Iqamah",
	"Recite with complete sincerity and trust in Allah's mercy",
	"Recommended repetitions: 3, 7, 11, or 33 times",
	"Maintain wudu and face Qiblah for maximum blessing",
	"Follow with personal supplications in your native language",
}

var footerLines = []string{
	"May Allah accept your supplication and grant you success",
	"BarakahTool Enterprise - Premium Islamic Digital Platform",
}

// boxStyle describes a filled, bordered text panel.
type boxStyle struct {
	family      string
	style       string
	size        float64
	text        rgb
	fill        rgb
	border      rgb
	borderWidth float64
	padding     float64
	align       string
	rtl         bool
}
