package payment

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"barakah/models"
	"barakah/utils"
)

// Feature lines granted per tier. Each tier receives its own lines plus
// every line of the tiers below it.
var tierFeatures = map[models.PlanID][]string{
	models.PlanPremium: {
		"Unlimited dua generation",
		"Professional PDF downloads",
		"Multiple language support",
		"Premium Islamic content",
	},
	models.PlanEnterprise: {
		"Commercial usage rights",
		"API access with key",
		"Priority support",
		"Advanced analytics",
	},
	models.PlanWhitelabel: {
		"Complete rebrand rights",
		"Source code access",
		"Custom domain support",
		"Admin panel access",
		"Full commercial rights",
	},
}

var tierOrder = []models.PlanID{models.PlanPremium, models.PlanEnterprise, models.PlanWhitelabel}

// GrantFeatures returns the cumulative feature list for a plan.
func GrantFeatures(plan models.PlanID) []string {
	var features []string
	for _, tier := range tierOrder {
		features = append(features, tierFeatures[tier]...)
		if tier == plan {
			return features
		}
	}
	return nil
}

// BuildGrant derives the access grant for a purchase. Enterprise and
// whitelabel grants get API access; the key itself is issued by IssueAPIKey.
func BuildGrant(plan, email, name, purchaseID string) (*models.AccessGrant, error) {
	p, ok := PlanByID(plan)
	if !ok {
		return nil, fmt.Errorf("%w: %q", utils.ErrInvalidPlan, plan)
	}

	grant := &models.AccessGrant{
		PurchaseID:        purchaseID,
		Email:             email,
		Name:              name,
		AccessLevel:       p.ID,
		Features:          GrantFeatures(p.ID),
		UnlimitedDuas:     true,
		PDFDownloads:      true,
		MultipleLanguages: true,
		PremiumContent:    true,
		Currency:          p.Currency,
		GrantedAt:         time.Now().UTC(),
	}

	switch p.ID {
	case models.PlanWhitelabel:
		grant.WhiteLabel = true
		grant.SourceCodeAccess = true
		grant.CustomDomain = true
		grant.AdminPanel = true
		fallthrough
	case models.PlanEnterprise:
		grant.CommercialRights = true
		grant.APIAccess = true
	}
	return grant, nil
}

// IssueAPIKey mints a key for an API grant and stores only its hash.
func IssueAPIKey(grant *models.AccessGrant) (string, error) {
	key, err := GenerateAPIKey(grant.Email, grant.PurchaseID)
	if err != nil {
		return "", err
	}
	grant.APIKey = key
	grant.APIKeyHash = utils.HashToken(key)
	return key, nil
}

// GenerateAPIKey returns "bt_" followed by 24 hex characters.
func GenerateAPIKey(email, purchaseID string) (string, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	data := fmt.Sprintf("%s:%s:%s", email, purchaseID, base64.RawURLEncoding.EncodeToString(nonce))
	sum := md5.Sum([]byte(data))
	return "bt_" + hex.EncodeToString(sum[:])[:24], nil
}
