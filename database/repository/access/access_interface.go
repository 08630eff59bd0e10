package accessRepo

import "barakah/models"

// AccessRepository persists access grants derived from completed payments.
type AccessRepository interface {
	// Save stores a grant keyed by checkout session. When the session already
	// has a grant the stored one is returned and created is false.
	Save(grant *models.AccessGrant) (stored *models.AccessGrant, created bool, err error)
	// GetBySession returns nil when no grant exists for the session.
	GetBySession(sessionID string) (*models.AccessGrant, error)
	// GetByEmail returns every grant purchased with an email, newest first.
	GetByEmail(email string) ([]models.AccessGrant, error)
	// GetByAPIKeyHash returns nil when the key is unknown.
	GetByAPIKeyHash(hash string) (*models.AccessGrant, error)
	// ClaimAPIKey attaches a key hash to the session's grant only if none is
	// set yet. claimed is false when another caller got there first.
	ClaimAPIKey(sessionID, hash string) (claimed bool, err error)
}
