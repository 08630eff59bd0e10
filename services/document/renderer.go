package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"barakah/models"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidID is returned for ids that are not UUIDs.
var ErrInvalidID = errors.New("document: invalid id")

// Renderer writes dua PDFs into a directory as <id>.pdf.
type Renderer struct {
	dir        string
	arabicFont string
	logger     *zap.Logger
	now        func() time.Time
}

// NewRenderer creates dir if needed. arabicFont is an optional TTF path; when
// it cannot be read the template prints a notice in place of Arabic text.
func NewRenderer(dir, arabicFont string, logger *zap.Logger) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create pdf directory: %w", err)
	}
	if arabicFont != "" {
		if _, err := os.Stat(arabicFont); err != nil {
			logger.Warn("arabic font unavailable, PDFs will omit Arabic script", zap.String("font", arabicFont), zap.Error(err))
			arabicFont = ""
		}
	}
	return &Renderer{dir: dir, arabicFont: arabicFont, logger: logger, now: time.Now}, nil
}

// Path returns where the PDF for id lives.
func (r *Renderer) Path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(r.dir, id+".pdf"), nil
}

// Exists reports whether a finished PDF is on disk.
func (r *Renderer) Exists(id string) bool {
	path, err := r.Path(id)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Render lays out job with the decorated template, falling back to the
// simplified layout on any failure. The file appears atomically.
func (r *Renderer) Render(ctx context.Context, job models.PDFJob) (string, error) {
	path, err := r.Path(job.ID)
	if err != nil {
		return "", err
	}
	tmp := path + ".tmp"

	if err := r.renderFull(job.Content, tmp); err != nil {
		r.logger.Warn("pdf template failed, using simplified layout", zap.String("id", job.ID), zap.Error(err))
		if err := writePDF(renderSimple(job.Content), tmp); err != nil {
			os.Remove(tmp)
			return "", fmt.Errorf("fallback pdf failed: %w", err)
		}
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to publish pdf: %w", err)
	}
	r.logger.Info("pdf generated", zap.String("id", job.ID), zap.String("path", path))
	return path, nil
}

func (r *Renderer) renderFull(content models.DuaContent, path string) (err error) {
	// fpdf panics on some malformed font data.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf template panicked: %v", rec)
		}
	}()

	p := newPage(r.arabicFont)
	renderTemplate(p, content, r.now())
	return writePDF(p.pdf, path)
}

func writePDF(pdf *fpdf.Fpdf, path string) error {
	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.OutputFileAndClose(path)
}
