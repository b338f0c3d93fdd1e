package pricing

// Defaults returns the stock pricing table. Every call builds a fresh value,
// so callers can mutate the result freely.
func Defaults() Config {
	return Config{
		Sale: Sale{
			Active:   false,
			Name:     "",
			Discount: 10,
		},
		Plans: []Plan{
			{ID: "starter_lite", Name: "Starter Lite", Price: 0, Setup: 499, Category: "starter", Description: "One-pager website, basic CRM setup, and appointment scheduling"},
			{ID: "starter_standard", Name: "Starter Standard", Price: 0, Setup: 899, Category: "starter", Description: "Multi-page website (up to 5 pages), CRM, scheduling, and basic automation"},
			{ID: "starter_pro", Name: "Starter Pro", Price: 0, Setup: 1499, Featured: true, Category: "starter", Description: "Full custom website, advanced CRM, automation flows, and onboarding support"},
			{ID: "growth_essentials", Name: "Growth Essentials", Price: 599, Setup: 299, Category: "growth", Description: "SEO Starter OR PPC Starter, automated follow-ups, monthly reporting"},
			{ID: "growth_accelerator", Name: "Growth Accelerator", Price: 999, Setup: 499, Featured: true, Category: "growth", Description: "SEO + PPC combo, email campaigns, SMS outreach, conversion optimization"},
			{ID: "growth_dominator", Name: "Growth Dominator", Price: 1599, Setup: 799, Category: "growth", Description: "Full marketing suite, multi-channel campaigns, A/B testing, dedicated strategist"},
			{ID: "operator_core", Name: "Operator Core", Price: 2999, Setup: 0, Category: "operator", Description: "Full pipeline management, weekly optimization, monthly strategy calls"},
			{ID: "operator_plus", Name: "Operator Plus", Price: 4499, Setup: 0, Featured: true, Category: "operator", Description: "Everything in Core plus content creation, social management, priority support"},
			{ID: "operator_elite", Name: "Operator Elite", Price: 0, Setup: 0, Category: "operator", Custom: true, Description: "Custom enterprise solution. Multi-location, custom integrations, dedicated team. Contact for pricing."},
			{ID: "smallbusiness", Name: "Small Business Starter Kit", Price: 99, Setup: 199, Special: true, Description: "For businesses under 10 employees. 1-page site, CRM basics, appointment booking, starter automation, 30-day support."},
		},
		GlamPlans: []Plan{
			{ID: "glam_nano", Name: "GLAM Nano", Price: 149, Setup: 79, Description: "Link-in-bio booking hub, DM auto-replies, reminders, 2 templated posts/mo."},
			{ID: "glam_micro", Name: "GLAM Micro", Price: 299, Setup: 129, Description: "Everything in Nano plus 8 templated posts/mo, story calendar, waitlist & slot-drop SMS."},
			{ID: "glam_pro", Name: "GLAM Pro", Price: 599, Setup: 179, Description: "Everything in Micro plus 20 posts/mo, 2 light clip trims/mo, boosted-post advising."},
		},
		BusinessCards: BusinessCards{
			Template: CardStyle{
				Single: CardQuantities{Qty100: 29, Qty250: 49, Qty1000: 99},
				Double: CardQuantities{Qty100: 39, Qty250: 69, Qty1000: 129},
			},
			Custom: CardStyle{
				Single: CardQuantities{Qty100: 79, Qty250: 99, Qty1000: 149},
				Double: CardQuantities{Qty100: 99, Qty250: 129, Qty1000: 179},
			},
		},
		TieredAddons: []TieredAddon{
			{
				ID:   "websites",
				Name: "Websites (one-time)",
				Tiers: []Tier{
					{ID: "site_onepager", Name: "One-pager", Price: 499, OneTime: true},
					{ID: "site_lp", Name: "Landing Page", Price: 799, OneTime: true},
					{ID: "site_minisite", Name: "Mini-site (3-5 pages)", Price: 1499, OneTime: true},
					{ID: "site_full", Name: "Full site (6-10 pages)", Price: 2999, OneTime: true},
					{ID: "site_custom", Name: "Custom/E-commerce", Price: 4999, OneTime: true},
				},
			},
			{
				ID:   "seo",
				Name: "SEO Services",
				Tiers: []Tier{
					{ID: "seo_starter", Name: "Starter", Price: 299},
					{ID: "seo_growth", Name: "Growth", Price: 599},
					{ID: "seo_pro", Name: "Pro", Price: 999},
					{ID: "seo_enterprise", Name: "Enterprise", Price: 1999},
				},
			},
			{
				ID:   "ppc",
				Name: "PPC/Ads Management",
				Tiers: []Tier{
					{ID: "ppc_starter", Name: "Starter (up to $1k spend)", Price: 299},
					{ID: "ppc_growth", Name: "Growth (up to $3k spend)", Price: 499},
					{ID: "ppc_pro", Name: "Pro (up to $10k spend)", Price: 999},
					{ID: "ppc_scale", Name: "Scale (10%+ of spend)", Price: 0, PercentBased: true, Percent: 10},
				},
			},
			{
				ID:   "automation",
				Name: "Automation Packages",
				Tiers: []Tier{
					{ID: "auto_basic", Name: "Basic (5 workflows)", Price: 199, OneTime: true},
					{ID: "auto_standard", Name: "Standard (15 workflows)", Price: 499, OneTime: true},
					{ID: "auto_advanced", Name: "Advanced (unlimited)", Price: 999, OneTime: true},
				},
			},
		},
		FlatAddons: []FlatAddon{
			{ID: "sms_assistant", Name: "SMS Assistant (text bot)", Price: 99},
			{ID: "ai_chat", Name: "Website AI Chat", Price: 79},
			{ID: "analytics", Name: "Analytics Dashboard", Price: 49},
			{ID: "reputation", Name: "Reputation Management", Price: 149},
			{ID: "social_posting", Name: "Social Media Scheduling", Price: 99},
			{ID: "email_campaigns", Name: "Email Campaign Tool", Price: 79},
			{ID: "crm_migration", Name: "CRM Data Migration", Price: 299, OneTime: true},
			{ID: "training", Name: "1-on-1 Training Session", Price: 149, OneTime: true},
			{ID: "priority_support", Name: "Priority Support", Price: 199},
			{ID: "one_page_portfolio", Name: "One-page Portfolio (GLAM)", Price: 499, OneTime: true},
			{ID: "policy_forms", Name: "Policy/Intake Forms", Price: 99, OneTime: true},
		},
	}
}
