package models

import "time"

// PlanID enumerates the purchasable tiers.
type PlanID string

const (
	PlanPremium    PlanID = "premium"
	PlanEnterprise PlanID = "enterprise"
	PlanWhitelabel PlanID = "whitelabel"
)

// PaymentPlan is a static catalogue entry.
type PaymentPlan struct {
	ID          PlanID   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Currency    string   `json:"currency"`
	Features    []string `json:"features"`
}

// CheckoutRequest is the body of POST /api/payment/create-session.
type CheckoutRequest struct {
	Plan      string `json:"plan" binding:"required"`
	UserEmail string `json:"user_email" binding:"required,email"`
	UserName  string `json:"user_name" binding:"required"`
}

// CheckoutSession is what the client needs to redirect to Stripe.
type CheckoutSession struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

// VerifyRequest is the body of POST /api/payment/verify.
type VerifyRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// AccessGrant is derived from one completed payment.
type AccessGrant struct {
	SessionID   string   `json:"session_id" bson:"session_id"`
	PurchaseID  string   `json:"purchase_id" bson:"purchase_id"`
	Email       string   `json:"user_email" bson:"email"`
	Name        string   `json:"user_name" bson:"name"`
	AccessLevel PlanID   `json:"access_level" bson:"access_level"`
	Features    []string `json:"features" bson:"features"`

	UnlimitedDuas     bool `json:"unlimited_duas" bson:"unlimited_duas"`
	PDFDownloads      bool `json:"pdf_downloads" bson:"pdf_downloads"`
	MultipleLanguages bool `json:"multiple_languages" bson:"multiple_languages"`
	PremiumContent    bool `json:"premium_content" bson:"premium_content"`
	CommercialRights  bool `json:"commercial_rights" bson:"commercial_rights"`
	APIAccess         bool `json:"api_access" bson:"api_access"`
	WhiteLabel        bool `json:"white_label" bson:"white_label"`
	SourceCodeAccess  bool `json:"source_code_access" bson:"source_code_access"`
	CustomDomain      bool `json:"custom_domain" bson:"custom_domain"`
	AdminPanel        bool `json:"admin_panel" bson:"admin_panel"`

	// APIKey is only populated on the first session verification.
	APIKey     string `json:"api_key,omitempty" bson:"-"`
	APIKeyHash string `json:"-" bson:"api_key_hash,omitempty"`

	AmountPaid int64      `json:"amount_paid" bson:"amount_paid"`
	Currency   string     `json:"currency" bson:"currency"`
	GrantedAt  time.Time  `json:"granted_at" bson:"granted_at"`
	ExpiresAt  *time.Time `json:"expires_at" bson:"expires_at"`
}

// WebhookResult is the acknowledgment returned to Stripe.
type WebhookResult struct {
	Success   bool         `json:"success"`
	EventType string       `json:"event_type,omitempty"`
	Error     string       `json:"error,omitempty"`
	Grant     *AccessGrant `json:"access_grant,omitempty"`
}
