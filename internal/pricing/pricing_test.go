package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bossbooker/portal/internal/kv"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s := NewService(kv.NewMemory())
	s.now = func() time.Time {
		return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestLoadReturnsDefaultsWhenEmpty(t *testing.T) {
	s := newTestService(t)

	cfg := s.Load()
	assert.Len(t, cfg.Plans, 10)
	assert.Len(t, cfg.GlamPlans, 3)
	assert.Len(t, cfg.TieredAddons, 4)
	assert.Len(t, cfg.FlatAddons, 11)
	assert.False(t, cfg.Sale.Active)
	assert.Equal(t, 10, cfg.Sale.Discount)
}

func TestDefaultsAreIndependentCopies(t *testing.T) {
	a := Defaults()
	a.Plans[0].Price = 99999
	b := Defaults()
	assert.Equal(t, 0, b.Plans[0].Price)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	s := newTestService(t)

	cfg := s.Load()
	cfg.Plans[0].Setup = 599
	cfg.Sale = Sale{Active: true, Name: "Spring Special", Discount: 20}
	require.True(t, s.Save(cfg))

	got := s.Load()
	assert.Equal(t, 599, got.Plans[0].Setup)
	assert.Equal(t, "Spring Special", got.Sale.Name)
}

func TestLoadFallsBackOnCorruptBlob(t *testing.T) {
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(Key, []byte("{broken")))

	s := NewService(backend)
	cfg := s.Load()
	assert.Len(t, cfg.Plans, 10)
}

func TestActiveSaleExpiry(t *testing.T) {
	s := newTestService(t)

	cfg := s.Load()
	cfg.Sale = Sale{Active: true, Name: "Expired", Discount: 15, EndDate: "2026-01-01"}
	require.True(t, s.Save(cfg))

	assert.Nil(t, s.ActiveSale())
	// Expiry is persisted.
	assert.False(t, s.Load().Sale.Active)

	cfg = s.Load()
	cfg.Sale = Sale{Active: true, Name: "Running", Discount: 15, EndDate: "2026-12-31"}
	require.True(t, s.Save(cfg))

	sale := s.ActiveSale()
	require.NotNil(t, sale)
	assert.Equal(t, "Running", sale.Name)

	// No end date means no expiry.
	cfg.Sale.EndDate = ""
	require.True(t, s.Save(cfg))
	assert.NotNil(t, s.ActiveSale())
}

func TestApplyDiscount(t *testing.T) {
	assert.Equal(t, 90, ApplyDiscount(100, 10))
	assert.Equal(t, 899, ApplyDiscount(999, 10))
	assert.Equal(t, 100, ApplyDiscount(100, 0))
	assert.Equal(t, 0, ApplyDiscount(0, 50))
}

func TestComputeQuoteBasePlanOnly(t *testing.T) {
	s := newTestService(t)

	q := s.ComputeQuote(QuoteInput{PlanID: "growth_accelerator"})
	assert.Equal(t, "Growth Accelerator", q.PlanName)
	assert.Equal(t, 999, q.Monthly)
	assert.Equal(t, 499, q.OneTime)
	assert.Equal(t, 1498, q.FirstMonth)
	assert.False(t, q.Contact)
}

func TestComputeQuoteWithAddons(t *testing.T) {
	s := newTestService(t)

	q := s.ComputeQuote(QuoteInput{
		PlanID:        "growth_essentials",
		AddonTiers:    []string{"seo_starter", "site_onepager"},
		FlatAddons:    []string{"ai_chat", "crm_migration"},
		BusinessCards: 49,
	})

	// monthly: 599 + 299 (seo) + 79 (ai_chat)
	assert.Equal(t, 977, q.Monthly)
	// one-time: 299 setup + 499 site + 299 migration + 49 cards
	assert.Equal(t, 1146, q.OneTime)
	assert.Equal(t, 977+1146, q.FirstMonth)
}

func TestComputeQuotePercentTierAddsNote(t *testing.T) {
	s := newTestService(t)

	q := s.ComputeQuote(QuoteInput{PlanID: "growth_essentials", AddonTiers: []string{"ppc_scale"}})
	assert.Equal(t, 599, q.Monthly)
	require.Len(t, q.Notes, 1)
	assert.Contains(t, q.Notes[0], "10% of ad spend")
}

func TestComputeQuoteCustomPlan(t *testing.T) {
	s := newTestService(t)

	q := s.ComputeQuote(QuoteInput{PlanID: "operator_elite", FlatAddons: []string{"ai_chat"}})
	assert.True(t, q.Contact)
	assert.Zero(t, q.FirstMonth)

	monthly, onetime, first := q.Strings()
	assert.Equal(t, ContactForPricing, monthly)
	assert.Equal(t, ContactForPricing, onetime)
	assert.Equal(t, ContactForPricing, first)
}

func TestComputeQuoteAppliesActiveSale(t *testing.T) {
	s := newTestService(t)

	cfg := s.Load()
	cfg.Sale = Sale{Active: true, Name: "Spring", Discount: 10, EndDate: "2026-12-31"}
	require.True(t, s.Save(cfg))

	q := s.ComputeQuote(QuoteInput{PlanID: "growth_accelerator"})
	assert.Equal(t, 899, q.Monthly) // 999 less 10%
	assert.Equal(t, 499, q.OneTime) // one-time untouched
	assert.Equal(t, "Spring", q.SaleName)
}

func TestComputeQuoteSkipsUnknownIDs(t *testing.T) {
	s := newTestService(t)

	q := s.ComputeQuote(QuoteInput{
		PlanID:     "growth_essentials",
		AddonTiers: []string{"nope"},
		FlatAddons: []string{"also_nope"},
	})
	assert.Equal(t, 599, q.Monthly)
	assert.Equal(t, 299, q.OneTime)
}

func TestQuoteStrings(t *testing.T) {
	q := Quote{Monthly: 450, OneTime: 250, FirstMonth: 700}
	monthly, onetime, first := q.Strings()
	assert.Equal(t, "$450", monthly)
	assert.Equal(t, "$250", onetime)
	assert.Equal(t, "$700", first)
}
