package document

import (
	"context"

	"barakah/models"

	"go.uber.org/zap"
)

// Archive keeps a durable copy of a rendered PDF.
type Archive interface {
	Store(ctx context.Context, id, localPath string) (string, error)
}

// Publisher renders a job and, when an archive is configured, uploads it.
type Publisher struct {
	renderer *Renderer
	archive  Archive
	logger   *zap.Logger
}

// NewPublisher wires a publisher. archive may be nil.
func NewPublisher(renderer *Renderer, archive Archive, logger *zap.Logger) *Publisher {
	return &Publisher{renderer: renderer, archive: archive, logger: logger}
}

// Publish never fails because of the archive; a missing upload only means
// the PDF is served from local disk.
func (p *Publisher) Publish(ctx context.Context, job models.PDFJob) error {
	path, err := p.renderer.Render(ctx, job)
	if err != nil {
		return err
	}
	if p.archive == nil {
		return nil
	}
	url, err := p.archive.Store(ctx, job.ID, path)
	if err != nil {
		p.logger.Warn("pdf archive upload failed", zap.String("id", job.ID), zap.Error(err))
		return nil
	}
	p.logger.Debug("pdf archived", zap.String("id", job.ID), zap.String("url", url))
	return nil
}
