// Package settings holds the shop profile: identity shown on invoices,
// the GST rate applied at checkout and the staff roster.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
	"github.com/meridian-pos/meridian-pos/internal/platform/kv"
)

// TeamMember is a staff entry on the shop profile.
type TeamMember struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// AppSettings is the shop profile persisted as a single record.
type AppSettings struct {
	ShopName       string       `json:"shopName"`
	Address        string       `json:"address"`
	Phone          string       `json:"phone"`
	CurrencySymbol string       `json:"currencySymbol"`
	GSTRate        float64      `json:"gstRate"`
	Team           []TeamMember `json:"team"`
}

// Defaults returns the profile used until the operator saves their own.
func Defaults() AppSettings {
	return AppSettings{
		ShopName:       "Meridian Store",
		Address:        "12 Market Road",
		Phone:          "9000000000",
		CurrencySymbol: "₹",
		GSTRate:        5,
		Team:           []TeamMember{},
	}
}

// Service loads the profile once and serves reads from memory, writing
// every update back through the blob store.
type Service struct {
	logger *slog.Logger
	blobs  kv.Store

	mu      sync.RWMutex
	current AppSettings
}

// NewService reads the stored profile, falling back to defaults when the
// record is absent or unreadable.
func NewService(ctx context.Context, logger *slog.Logger, blobs kv.Store) *Service {
	s := &Service{logger: logger, blobs: blobs, current: Defaults()}

	raw, err := blobs.Get(ctx, kv.KeySettings)
	switch {
	case errors.Is(err, kv.ErrKeyNotFound):
		if err := s.persist(ctx, s.current); err != nil {
			logger.Error("seed settings", slog.Any("error", err))
		}
	case err != nil:
		logger.Error("load settings", slog.Any("error", err))
	default:
		var stored AppSettings
		if err := json.Unmarshal(raw, &stored); err != nil {
			logger.Error("decode settings, using defaults", slog.Any("error", err))
		} else {
			s.current = stored
		}
	}
	return s
}

// Get returns the current profile.
func (s *Service) Get(context.Context) AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// GSTRate returns the rate applied to cart totals.
func (s *Service) GSTRate(context.Context) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.GSTRate
}

// Update validates and persists a new profile.
func (s *Service) Update(ctx context.Context, next AppSettings) (AppSettings, error) {
	next.ShopName = strings.TrimSpace(next.ShopName)
	if next.ShopName == "" {
		return AppSettings{}, fmt.Errorf("%w: shop name is required", httpx.ErrValidation)
	}
	if next.GSTRate < 0 || next.GSTRate > 100 {
		return AppSettings{}, fmt.Errorf("%w: gst rate must be between 0 and 100", httpx.ErrValidation)
	}
	if next.CurrencySymbol == "" {
		next.CurrencySymbol = Defaults().CurrencySymbol
	}
	if next.Team == nil {
		next.Team = []TeamMember{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(ctx, next); err != nil {
		return AppSettings{}, err
	}
	s.current = next
	return next, nil
}

func (s *Service) persist(ctx context.Context, v AppSettings) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return s.blobs.Set(ctx, kv.KeySettings, raw)
}
