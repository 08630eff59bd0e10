package payment

import "barakah/models"

const currencyUSD = "usd"

// plans is the fixed catalogue, cheapest first.
var plans = []models.PaymentPlan{
	{
		ID:          models.PlanPremium,
		Name:        "Premium Access",
		Description: "Lifetime access to all premium features",
		Price:       4999,
		Currency:    currencyUSD,
		Features: []string{
			"Unlimited Dua Generation",
			"Professional PDF Downloads",
			"Multiple Languages",
			"Premium Islamic Content",
			"Lifetime Access",
		},
	},
	{
		ID:          models.PlanEnterprise,
		Name:        "Enterprise License",
		Description: "Commercial usage rights with API access",
		Price:       19999,
		Currency:    currencyUSD,
		Features: []string{
			"Everything in Premium",
			"Commercial Usage Rights",
			"API Access",
			"White-label Options",
			"Priority Support",
		},
	},
	{
		ID:          models.PlanWhitelabel,
		Name:        "White Label Rights",
		Description: "Complete rebrand and commercial rights",
		Price:       49999,
		Currency:    currencyUSD,
		Features: []string{
			"Everything in Enterprise",
			"Complete Rebrand Rights",
			"Source Code Access",
			"Custom Domain",
			"Full Commercial Rights",
		},
	},
}

// Plans returns a copy of the catalogue.
func Plans() []models.PaymentPlan {
	out := make([]models.PaymentPlan, len(plans))
	copy(out, plans)
	return out
}

// PlanByID looks up a plan; ok is false for unknown ids.
func PlanByID(id string) (models.PaymentPlan, bool) {
	for _, p := range plans {
		if string(p.ID) == id {
			return p, true
		}
	}
	return models.PaymentPlan{}, false
}
