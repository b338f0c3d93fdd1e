package pricing

import "fmt"

// ContactForPricing is shown instead of totals for custom plans.
const ContactForPricing = "Contact for pricing"

// QuoteInput selects a plan and its add-ons.
type QuoteInput struct {
	PlanID        string   `json:"plan_id"`
	AddonTiers    []string `json:"addon_tiers"` // tier ids picked from tiered categories
	FlatAddons    []string `json:"flat_addons"`
	BusinessCards int      `json:"business_cards"` // one-time total, 0 when none
}

// Quote is a computed price summary. When Contact is set the totals are
// meaningless and the UI shows ContactForPricing instead.
type Quote struct {
	PlanName   string   `json:"plan_name"`
	Monthly    int      `json:"monthly"`
	OneTime    int      `json:"onetime"`
	FirstMonth int      `json:"first_month"`
	Contact    bool     `json:"contact"`
	Notes      []string `json:"notes,omitempty"`
	SaleName   string   `json:"sale_name,omitempty"`
}

// ComputeQuote prices a plan selection against the current table. Unknown
// plan or add-on ids are skipped rather than rejected, matching the
// calculator's tolerance for stale markup.
func (s *Service) ComputeQuote(in QuoteInput) Quote {
	cfg := s.Load()

	var quote Quote
	plan := findPlan(cfg, in.PlanID)
	if plan != nil {
		quote.PlanName = plan.Name
		if plan.Custom {
			quote.Contact = true
			return quote
		}
		quote.Monthly = plan.Price
		quote.OneTime = plan.Setup
	}

	for _, tierID := range in.AddonTiers {
		tier := findTier(cfg, tierID)
		if tier == nil {
			continue
		}
		if tier.PercentBased {
			quote.Notes = append(quote.Notes, fmt.Sprintf("%s billed at %d%% of ad spend", tier.Name, tier.Percent))
			continue
		}
		if tier.OneTime {
			quote.OneTime += tier.Price
		} else {
			quote.Monthly += tier.Price
		}
	}

	for _, addonID := range in.FlatAddons {
		for _, a := range cfg.FlatAddons {
			if a.ID != addonID {
				continue
			}
			if a.OneTime {
				quote.OneTime += a.Price
			} else {
				quote.Monthly += a.Price
			}
			break
		}
	}

	quote.OneTime += in.BusinessCards

	if sale := s.ActiveSale(); sale != nil {
		quote.Monthly = ApplyDiscount(quote.Monthly, sale.Discount)
		quote.SaleName = sale.Name
	}

	quote.FirstMonth = quote.Monthly + quote.OneTime
	return quote
}

// Strings renders the quote totals for display.
func (q Quote) Strings() (monthly, onetime, firstMonth string) {
	if q.Contact {
		return ContactForPricing, ContactForPricing, ContactForPricing
	}
	return FormatCurrency(q.Monthly), FormatCurrency(q.OneTime), FormatCurrency(q.FirstMonth)
}

// FormatCurrency formats a whole-dollar amount.
func FormatCurrency(v int) string {
	return fmt.Sprintf("$%d", v)
}

func findPlan(cfg Config, id string) *Plan {
	for i := range cfg.Plans {
		if cfg.Plans[i].ID == id {
			return &cfg.Plans[i]
		}
	}
	for i := range cfg.GlamPlans {
		if cfg.GlamPlans[i].ID == id {
			return &cfg.GlamPlans[i]
		}
	}
	return nil
}

func findTier(cfg Config, id string) *Tier {
	for i := range cfg.TieredAddons {
		for j := range cfg.TieredAddons[i].Tiers {
			if cfg.TieredAddons[i].Tiers[j].ID == id {
				return &cfg.TieredAddons[i].Tiers[j]
			}
		}
	}
	return nil
}
