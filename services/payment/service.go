package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	accessRepo "barakah/database/repository/access"
	"barakah/models"
	"barakah/utils"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

const (
	eventCheckoutCompleted = "checkout.session.completed"
	eventPaymentSucceeded  = "payment_intent.succeeded"
)

// DefaultPaymentService implements Service on top of Stripe Checkout.
type DefaultPaymentService struct {
	Gateway       CheckoutGateway
	Repo          accessRepo.AccessRepository
	WebhookSecret string
	FrontendURL   string
	Logger        *zap.Logger
}

func (s *DefaultPaymentService) Plans() []models.PaymentPlan {
	return Plans()
}

func (s *DefaultPaymentService) CreateCheckoutSession(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	plan, ok := PlanByID(req.Plan)
	if !ok {
		return nil, fmt.Errorf("%w: %q", utils.ErrInvalidPlan, req.Plan)
	}

	base := strings.TrimRight(s.FrontendURL, "/")
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(plan.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String("BarakahTool " + plan.Name),
					Description: stripe.String(plan.Description),
				},
				UnitAmount: stripe.Int64(plan.Price),
			},
			Quantity: stripe.Int64(1),
		}},
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(base + "/success?session_id={CHECKOUT_SESSION_ID}&plan=" + string(plan.ID)),
		CancelURL:     stripe.String(base + "/pricing?cancelled=true"),
		CustomerEmail: stripe.String(req.UserEmail),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{
				"plan":       string(plan.ID),
				"user_email": req.UserEmail,
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("plan", string(plan.ID))
	params.AddMetadata("user_name", req.UserName)
	params.AddMetadata("user_email", req.UserEmail)
	params.AddMetadata("purchase_id", uuid.New().String())
	params.AddMetadata("timestamp", time.Now().UTC().Format(time.RFC3339))

	sess, err := s.Gateway.CreateSession(params)
	if err != nil {
		s.Logger.Error("checkout session creation failed", zap.String("plan", req.Plan), zap.Error(err))
		return nil, fmt.Errorf("%w: create checkout session: %v", utils.ErrUpstream, err)
	}

	s.Logger.Info("checkout session created", zap.String("session_id", sess.ID), zap.String("plan", req.Plan))
	return &models.CheckoutSession{CheckoutURL: sess.URL, SessionID: sess.ID}, nil
}

// HandleWebhook never returns an API key; the body goes back to Stripe.
func (s *DefaultPaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*models.WebhookResult, error) {
	if s.WebhookSecret == "" {
		return nil, fmt.Errorf("%w: webhook secret not configured", utils.ErrInvalidSignature)
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidSignature, err)
	}

	eventType := string(event.Type)
	switch eventType {
	case eventCheckoutCompleted:
		if event.Data == nil {
			return nil, fmt.Errorf("%w: event has no data", utils.ErrInvalidRequest)
		}
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("%w: malformed checkout session: %v", utils.ErrInvalidRequest, err)
		}
		result, err := s.completeSession(&sess)
		if err != nil {
			return nil, err
		}
		result.EventType = eventType
		return result, nil
	case eventPaymentSucceeded:
		s.Logger.Info("payment intent succeeded", zap.String("event_id", event.ID))
	default:
		s.Logger.Debug("ignoring webhook event", zap.String("event_type", eventType))
	}
	return &models.WebhookResult{Success: true, EventType: eventType}, nil
}

func (s *DefaultPaymentService) VerifySession(ctx context.Context, sessionID string) (*models.WebhookResult, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := s.Gateway.GetSession(sessionID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", utils.ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("%w: retrieve checkout session: %v", utils.ErrUpstream, err)
	}
	result, err := s.completeSession(sess)
	if err != nil || result.Grant == nil {
		return result, err
	}
	if err := s.issueKey(result.Grant); err != nil {
		return nil, err
	}
	return result, nil
}

// issueKey hands out the API key of a grant the first time the buyer
// verifies the session. Later calls find the hash claimed and get no key.
func (s *DefaultPaymentService) issueKey(grant *models.AccessGrant) error {
	if !grant.APIAccess || grant.APIKeyHash != "" {
		return nil
	}
	issued := *grant
	if _, err := IssueAPIKey(&issued); err != nil {
		return err
	}
	claimed, err := s.Repo.ClaimAPIKey(grant.SessionID, issued.APIKeyHash)
	if err != nil {
		return fmt.Errorf("persist api key: %w", err)
	}
	if !claimed {
		return nil
	}
	s.Logger.Info("api key issued", zap.String("session_id", grant.SessionID))
	*grant = issued
	return nil
}

// completeSession grants access for a paid session. Replays of the same
// session return the stored grant.
func (s *DefaultPaymentService) completeSession(sess *stripe.CheckoutSession) (*models.WebhookResult, error) {
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		s.Logger.Info("checkout session not paid", zap.String("session_id", sess.ID),
			zap.String("payment_status", string(sess.PaymentStatus)))
		return &models.WebhookResult{Success: false, Error: "payment not completed"}, nil
	}

	email := sess.Metadata["user_email"]
	if email == "" {
		email = sess.CustomerEmail
	}
	grant, err := BuildGrant(sess.Metadata["plan"], email, sess.Metadata["user_name"], sess.Metadata["purchase_id"])
	if err != nil {
		return nil, err
	}
	grant.SessionID = sess.ID
	grant.AmountPaid = sess.AmountTotal
	if sess.Currency != "" {
		grant.Currency = string(sess.Currency)
	}

	stored, created, err := s.Repo.Save(grant)
	if err != nil {
		return nil, fmt.Errorf("persist access grant: %w", err)
	}
	if created {
		s.Logger.Info("access granted", zap.String("session_id", sess.ID),
			zap.String("plan", string(grant.AccessLevel)), zap.String("email", grant.Email))
	}
	return &models.WebhookResult{Success: true, Grant: stored}, nil
}

func (s *DefaultPaymentService) LookupAccess(ctx context.Context, email string) ([]models.AccessGrant, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: email is required", utils.ErrInvalidRequest)
	}
	return s.Repo.GetByEmail(email)
}

func (s *DefaultPaymentService) Authenticate(ctx context.Context, apiKey string) (*models.AccessGrant, error) {
	if !strings.HasPrefix(apiKey, "bt_") {
		return nil, utils.ErrInvalidAPIKey
	}
	grant, err := s.Repo.GetByAPIKeyHash(utils.HashToken(apiKey))
	if err != nil {
		return nil, err
	}
	if grant == nil || !grant.APIAccess {
		return nil, utils.ErrInvalidAPIKey
	}
	return grant, nil
}
