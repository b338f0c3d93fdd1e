// Package pricing manages the pricing configuration blob: plans, add-ons,
// business cards, and the optional sale banner. The whole table is stored as
// one document and replaced atomically on save.
package pricing

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/bossbooker/portal/internal/kv"
	"github.com/bossbooker/portal/internal/logging"
)

// Key is the storage key for the pricing configuration blob.
const Key = "bb_pricing_config"

// Sale is a time-boxed percentage discount applied to monthly prices.
type Sale struct {
	Active   bool   `json:"active"`
	Name     string `json:"name"`
	Discount int    `json:"discount"`
	EndDate  string `json:"endDate,omitempty"` // YYYY-MM-DD, empty means no expiry
}

// Plan is one purchasable service tier.
type Plan struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"` // monthly, 0 for setup-only plans
	Setup       int    `json:"setup"`
	Featured    bool   `json:"featured"`
	Category    string `json:"category,omitempty"`
	Special     bool   `json:"special,omitempty"`
	Custom      bool   `json:"custom,omitempty"` // contact-for-pricing, no totals
	Description string `json:"description"`
}

// CardQuantities holds per-quantity print prices.
type CardQuantities struct {
	Qty100  int `json:"qty100"`
	Qty250  int `json:"qty250"`
	Qty1000 int `json:"qty1000"`
}

// CardStyle groups single- and double-sided print prices.
type CardStyle struct {
	Single CardQuantities `json:"single"`
	Double CardQuantities `json:"double"`
}

// BusinessCards holds the business card print price matrix.
type BusinessCards struct {
	Template CardStyle `json:"template"`
	Custom   CardStyle `json:"custom"`
}

// Tier is one option inside a tiered add-on category.
type Tier struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        int    `json:"price"`
	OneTime      bool   `json:"onetime,omitempty"`
	PercentBased bool   `json:"percentBased,omitempty"`
	Percent      int    `json:"percent,omitempty"`
}

// TieredAddon is an add-on category where the customer picks one tier.
type TieredAddon struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Tiers []Tier `json:"tiers"`
}

// FlatAddon is a single-price add-on toggle.
type FlatAddon struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Price   int    `json:"price"`
	OneTime bool   `json:"onetime"`
}

// Config is the full pricing table.
type Config struct {
	Sale          Sale          `json:"sale"`
	Plans         []Plan        `json:"plans"`
	GlamPlans     []Plan        `json:"glamPlans"`
	BusinessCards BusinessCards `json:"businessCards"`
	TieredAddons  []TieredAddon `json:"tieredAddons"`
	FlatAddons    []FlatAddon   `json:"flatAddons"`
}

// Service loads and saves the pricing configuration.
type Service struct {
	kv  kv.Store
	log *slog.Logger
	now func() time.Time
}

// NewService returns a pricing service backed by the given key-value store.
func NewService(backend kv.Store) *Service {
	return &Service{
		kv:  backend,
		log: logging.With("component", "pricing"),
		now: time.Now,
	}
}

// Load returns the stored pricing configuration. A missing or corrupt blob
// yields a fresh copy of the defaults.
func (s *Service) Load() Config {
	raw, err := s.kv.Get(Key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.Warn("read failed", "key", Key, "error", err)
		}
		return Defaults()
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		s.log.Warn("corrupt pricing config, using defaults", "error", err)
		return Defaults()
	}
	return cfg
}

// Save replaces the stored pricing configuration.
func (s *Service) Save(cfg Config) bool {
	raw, err := json.Marshal(cfg)
	if err != nil {
		s.log.Warn("marshal failed", "error", err)
		return false
	}
	if err := s.kv.Set(Key, raw); err != nil {
		s.log.Warn("write failed", "key", Key, "error", err)
		return false
	}
	return true
}

// ActiveSale returns the current sale, or nil when no sale is running.
// An expired sale is deactivated and persisted on the way out.
func (s *Service) ActiveSale() *Sale {
	cfg := s.Load()
	if !cfg.Sale.Active {
		return nil
	}
	if cfg.Sale.EndDate != "" {
		end, err := time.Parse("2006-01-02", cfg.Sale.EndDate)
		if err == nil && end.Before(s.now()) {
			cfg.Sale.Active = false
			s.Save(cfg)
			return nil
		}
	}
	sale := cfg.Sale
	return &sale
}

// ApplyDiscount reduces price by discount percent, rounding to the nearest
// whole dollar.
func ApplyDiscount(price, discount int) int {
	return int(float64(price)*(1-float64(discount)/100) + 0.5)
}
