package storage

import "context"

// PDFArchive stores rendered PDFs off-box and resolves their public URLs.
type PDFArchive interface {
	Store(ctx context.Context, id, localPath string) (string, error)
	URL(ctx context.Context, id string) (string, error)
}
