package document

import (
	"fmt"
	"strings"
	"time"

	"barakah/models"

	"github.com/go-pdf/fpdf"
)

// page wraps an fpdf document with the helpers the dua template needs.
type page struct {
	pdf       *fpdf.Fpdf
	tr        func(string) string
	hasArabic bool
}

func newPage(arabicFont string) *page {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(inch, 2.2*inch, inch)
	pdf.SetAutoPageBreak(true, inch)
	pdf.SetTitle(titleText, true)
	pdf.SetCreator("BarakahTool", true)

	p := &page{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	if arabicFont != "" {
		pdf.AddUTF8Font(arabicFamily, "", arabicFont)
		p.hasArabic = !pdf.Err()
		// An unreadable font only costs the Arabic glyphs.
		pdf.ClearError()
	}
	return p
}

func (p *page) width() float64 {
	w, _ := p.pdf.GetPageSize()
	left, _, right, _ := p.pdf.GetMargins()
	return w - left - right
}

func (p *page) setColor(c rgb) {
	p.pdf.SetTextColor(c.r, c.g, c.b)
}

// lossy reports whether the core font encoding would replace any rune of s.
// The translator emits one byte per rune and '.' for anything it cannot map.
func (p *page) lossy(s string) bool {
	out := p.tr(s)
	i := 0
	for _, r := range s {
		if i < len(out) && out[i] == '.' && r != '.' {
			return true
		}
		i++
	}
	return false
}

// fontFor picks the loaded UTF-8 family for text the core fonts cannot encode.
func (p *page) fontFor(text, style string) (family, fontStyle string) {
	if p.hasArabic && p.lossy(text) {
		return arabicFamily, ""
	}
	return "Helvetica", style
}

func (p *page) encode(family, text string) string {
	if family == arabicFamily {
		return text
	}
	return p.tr(text)
}

// centered writes a single centered line.
func (p *page) centered(text, style string, size float64, c rgb) {
	family, style := p.fontFor(text, style)
	p.pdf.SetFont(family, style, size)
	p.setColor(c)
	p.pdf.CellFormat(0, size*1.4, p.encode(family, text), "", 1, "C", false, 0, "")
}

func (p *page) paragraph(text, style string, size float64, c rgb) {
	family, style := p.fontFor(text, style)
	p.pdf.SetFont(family, style, size)
	p.setColor(c)
	p.pdf.MultiCell(0, size*1.4, p.encode(family, text), "", "L", false)
}

func (p *page) lines(text string, s boxStyle, w float64) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		if s.family == arabicFamily {
			out = append(out, p.pdf.SplitText(para, w)...)
			continue
		}
		for _, l := range p.pdf.SplitLines([]byte(p.tr(para)), w) {
			out = append(out, string(l))
		}
	}
	return out
}

// box draws text inside a filled, bordered panel spanning the text width.
func (p *page) box(text string, s boxStyle) {
	pdf := p.pdf
	w := p.width()
	inner := w - 2*s.padding
	lineH := s.size * 1.5

	pdf.SetFont(s.family, s.style, s.size)
	rows := p.lines(text, s, inner)
	h := float64(len(rows))*lineH + 2*s.padding

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+h > pageH-bottom {
		pdf.AddPage()
	}

	left, _, _, _ := pdf.GetMargins()
	y := pdf.GetY()
	pdf.SetFillColor(s.fill.r, s.fill.g, s.fill.b)
	pdf.SetDrawColor(s.border.r, s.border.g, s.border.b)
	pdf.SetLineWidth(s.borderWidth)
	pdf.Rect(left, y, w, h, "FD")

	p.setColor(s.text)
	if s.rtl {
		pdf.RTL()
		defer pdf.LTR()
	}
	pdf.SetXY(left+s.padding, y+s.padding)
	for _, row := range rows {
		pdf.CellFormat(inner, lineH, row, "", 2, s.align, false, 0, "")
	}
	pdf.SetXY(left, y+h)
}

// decorate draws the border, corner dots, header ornament and page number.
func (p *page) decorate() {
	pdf := p.pdf
	w, h := pdf.GetPageSize()
	margin := 0.5 * inch

	pdf.SetDrawColor(colorGold.r, colorGold.g, colorGold.b)
	pdf.SetLineWidth(3)
	pdf.Rect(margin, margin, w-2*margin, h-2*margin, "D")
	inner := margin + 0.2*inch
	pdf.SetLineWidth(1)
	pdf.Rect(inner, inner, w-2*inner, h-2*inner, "D")

	corner := 0.3 * inch
	pdf.SetFillColor(colorGold.r, colorGold.g, colorGold.b)
	for _, c := range [][2]float64{
		{margin, margin},
		{w - margin - corner, margin},
		{margin, h - margin - corner},
		{w - margin - corner, h - margin - corner},
	} {
		pdf.Circle(c[0]+corner/2, c[1]+corner/2, corner/4, "F")
	}

	if p.hasArabic {
		pdf.SetFont(arabicFamily, "", 16)
		p.setColor(colorGold)
		pdf.RTL()
		pdf.SetXY(0, 1.3*inch)
		pdf.CellFormat(w, 20, bismillah, "", 0, "C", false, 0, "")
		pdf.LTR()
	}
	pdf.SetDrawColor(colorEmerald.r, colorEmerald.g, colorEmerald.b)
	pdf.SetLineWidth(2)
	pdf.Line(1.5*inch, 2*inch, w-1.5*inch, 2*inch)
}

func (p *page) pageNumber() {
	w, h := p.pdf.GetPageSize()
	p.pdf.SetFont("Helvetica", "", 8)
	p.setColor(colorText)
	p.pdf.SetXY(0, h-0.5*inch-10)
	p.pdf.CellFormat(w, 10, fmt.Sprintf("Page %d", p.pdf.PageNo()), "", 0, "C", false, 0, "")
}

func subtitle(p *page, text string) {
	p.centered(text, "I", 12, colorEmerald)
	p.pdf.Ln(4)
}

// renderTemplate lays out the full decorated document.
func renderTemplate(p *page, content models.DuaContent, generated time.Time) {
	pdf := p.pdf
	pdf.SetHeaderFuncMode(p.decorate, true)
	pdf.SetFooterFunc(p.pageNumber)
	pdf.AddPage()

	p.centered(titleText, "B", 24, colorGold)
	subtitle(p, subtitleText)
	pdf.Ln(20)

	p.paragraph("Your Request:", "B", 10, colorText)
	p.paragraph(content.Situation, "", 10, colorText)
	pdf.Ln(15)

	subtitle(p, "Arabic Supplication")
	arabic := boxStyle{
		family: "Helvetica", style: "B", size: 14,
		text: colorGold, fill: colorCream, border: colorGold,
		borderWidth: 2, padding: 15, align: "C",
	}
	arabicText := content.Arabic
	if p.hasArabic {
		arabic.family, arabic.style, arabic.size, arabic.rtl = arabicFamily, "", 20, true
	} else {
		arabicText = "Arabic text is shown in the app. Configure an Arabic font to print it here."
	}
	p.box(arabicText, arabic)
	pdf.Ln(20)

	if strings.TrimSpace(content.Transliteration) != "" {
		subtitle(p, "Pronunciation Guide")
		translit := boxStyle{
			size: 14, text: colorEmerald, fill: colorHoneydew, border: colorEmerald,
			borderWidth: 1, padding: 12, align: "C",
		}
		translit.family, translit.style = p.fontFor(content.Transliteration, "I")
		p.box(content.Transliteration, translit)
		pdf.Ln(15)
	}

	subtitle(p, translationHeading(content.Language))
	translation := boxStyle{
		size: 16, text: colorText, fill: colorBlush, border: colorRose,
		borderWidth: 1, padding: 15, align: "C",
	}
	translation.family, translation.style = p.fontFor(content.Translation, "")
	p.box(`"`+content.Translation+`"`, translation)
	pdf.Ln(20)

	subtitle(p, "Spiritual Guidance")
	bullets := make([]string, len(guidancePoints))
	for i, g := range guidancePoints {
		bullets[i] = "• " + g
	}
	p.box(strings.Join(bullets, "\n"), boxStyle{
		family: "Helvetica", size: 10,
		text: colorText, fill: colorAzure, border: colorTeal,
		borderWidth: 1, padding: 8, align: "L",
	})
	pdf.Ln(30)

	for _, line := range footerLines {
		p.centered(line, "B", 10, colorGold)
	}
	p.centered("Generated on "+generated.Format("January 02, 2006"), "B", 10, colorGold)
}

func translationHeading(language string) string {
	if strings.TrimSpace(language) == "" {
		language = "English"
	}
	return language + " Translation"
}

// renderSimple is the single-page layout used when the template fails.
func renderSimple(content models.DuaContent) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(inch, inch, inch)
	pdf.AddPage()

	line := func(style string, size float64, text string) {
		pdf.SetFont("Helvetica", style, size)
		pdf.MultiCell(0, size*1.5, tr(text), "", "C", false)
	}

	line("B", 20, "BarakahTool - Islamic Dua")
	pdf.Ln(10)
	line("", 12, "Situation: "+content.Situation)
	pdf.Ln(20)
	line("B", 16, "Arabic:")
	line("B", 12, "(Arabic text is available in the app)")
	if content.Transliteration != "" {
		pdf.Ln(10)
		line("I", 14, "Pronunciation:")
		line("I", 12, content.Transliteration)
	}
	pdf.Ln(10)
	line("", 12, "Translation:")
	line("", 12, content.Translation)
	pdf.Ln(30)
	line("B", 10, "BarakahTool Enterprise Platform")
	return pdf
}
