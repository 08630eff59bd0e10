package payment

import (
	"context"

	"barakah/models"
)

// Service orchestrates checkout and turns completed payments into grants.
type Service interface {
	Plans() []models.PaymentPlan
	CreateCheckoutSession(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*models.WebhookResult, error)
	VerifySession(ctx context.Context, sessionID string) (*models.WebhookResult, error)
	LookupAccess(ctx context.Context, email string) ([]models.AccessGrant, error)
	Authenticate(ctx context.Context, apiKey string) (*models.AccessGrant, error)
}
