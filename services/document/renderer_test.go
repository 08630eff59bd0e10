package document

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"barakah/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func sampleJob() models.PDFJob {
	return models.PDFJob{
		ID: uuid.New().String(),
		Content: models.DuaContent{
			Arabic:          "رَبَّنَا آتِنَا فِي الدُّنْيَا حَسَنَةً",
			Transliteration: "Rabbana atina fi'd-dunya hasanatan",
			Translation:     "Our Lord, grant us good in this world.",
			Language:        "English",
			Situation:       "Starting a new chapter at the café",
			Source:          models.SourceAIGenerated,
		},
	}
}

func assertPDF(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("file does not look like a PDF: %q", data[:min(len(data), 16)])
	}
}

func TestRenderWritesPDF(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRenderer(dir, "", zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	job := sampleJob()

	if r.Exists(job.ID) {
		t.Fatal("pdf should not exist before rendering")
	}
	path, err := r.Render(context.Background(), job)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if path != filepath.Join(dir, job.ID+".pdf") {
		t.Errorf("path = %q", path)
	}
	assertPDF(t, path)
	if !r.Exists(job.ID) {
		t.Error("Exists() = false after render")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestRenderWithoutTransliteration(t *testing.T) {
	r, _ := NewRenderer(t.TempDir(), "", zap.NewNop())
	job := sampleJob()
	job.Content.Transliteration = ""

	path, err := r.Render(context.Background(), job)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	assertPDF(t, path)
}

func TestRenderMissingFontDegrades(t *testing.T) {
	r, err := NewRenderer(t.TempDir(), "/nonexistent/Amiri-Regular.ttf", zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if r.arabicFont != "" {
		t.Error("missing font should be dropped")
	}
	path, err := r.Render(context.Background(), sampleJob())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	assertPDF(t, path)
}

func TestRenderSimpleLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simple.pdf")
	if err := writePDF(renderSimple(sampleJob().Content), path); err != nil {
		t.Fatalf("writePDF() error = %v", err)
	}
	assertPDF(t, path)
}

func TestFontForNonLatinText(t *testing.T) {
	tests := []struct {
		name       string
		hasArabic  bool
		text       string
		wantFamily string
		wantStyle  string
	}{
		{"latin", true, "My Lord, expand my chest.", "Helvetica", "I"},
		{"accented latin", true, "Rabbī zidnī ʿilmā", arabicFamily, ""},
		{"urdu translation", true, "اے میرے رب", arabicFamily, ""},
		{"dots only", true, "...", "Helvetica", "I"},
		{"no unicode font", false, "اے میرے رب", "Helvetica", "I"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPage("")
			p.hasArabic = tt.hasArabic
			family, style := p.fontFor(tt.text, "I")
			if family != tt.wantFamily || style != tt.wantStyle {
				t.Errorf("fontFor(%q) = %q, %q, want %q, %q", tt.text, family, style, tt.wantFamily, tt.wantStyle)
			}
		})
	}
}

func TestLossy(t *testing.T) {
	p := newPage("")
	if p.lossy("Peace be upon you. é") {
		t.Error("cp1252 text reported as lossy")
	}
	if !p.lossy("مرحبا") {
		t.Error("Arabic text not reported as lossy")
	}
}

func TestPathRejectsTraversal(t *testing.T) {
	r, _ := NewRenderer(t.TempDir(), "", zap.NewNop())
	for _, id := range []string{"../etc/passwd", "abc", ""} {
		if _, err := r.Path(id); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Path(%q) error = %v", id, err)
		}
	}
}

type fakeArchive struct {
	stored map[string]string
	err    error
}

func (f *fakeArchive) Store(_ context.Context, id, localPath string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.stored[id] = localPath
	return "https://cdn.test/" + id, nil
}

func TestPublisher(t *testing.T) {
	r, _ := NewRenderer(t.TempDir(), "", zap.NewNop())
	archive := &fakeArchive{stored: map[string]string{}}
	p := NewPublisher(r, archive, zap.NewNop())
	job := sampleJob()

	if err := p.Publish(context.Background(), job); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if archive.stored[job.ID] == "" {
		t.Error("pdf was not archived")
	}

	archive.err = errors.New("cloud down")
	if err := p.Publish(context.Background(), sampleJob()); err != nil {
		t.Errorf("archive failure must not fail publish: %v", err)
	}
}
