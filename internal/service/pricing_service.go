package service

import (
	"context"
	"fmt"
	"log"

	"github.com/parkhub/parkhub-backend/internal/cache"
	"github.com/parkhub/parkhub-backend/internal/pricing"
)

// TierStore is the persistence surface PricingService needs.
type TierStore interface {
	ListActive() ([]pricing.Tier, error)
	ListAll() ([]pricing.Tier, error)
	GetByID(id string) (*pricing.Tier, error)
	Create(t *pricing.Tier) error
	Update(t *pricing.Tier) error
	SetActive(id string, active bool) error
	Delete(id string) error
}

// PricingService matches bookings to tiers and prices them. Active
// tiers are served from the Redis cache when one is configured.
type PricingService struct {
	repo      TierStore
	tierCache *cache.TierCache
}

func NewPricingService(repo TierStore, tierCache *cache.TierCache) *PricingService {
	return &PricingService{repo: repo, tierCache: tierCache}
}

// Quote prices a candidate booking. A nil quote with a nil error means
// no tier matched, which is a normal outcome.
func (s *PricingService) Quote(ctx context.Context, req pricing.Request) (*pricing.Quote, error) {
	tiers, err := s.activeTiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading pricing tiers: %w", err)
	}

	tier := pricing.SelectTier(tiers, req)
	if tier == nil {
		return nil, nil
	}
	quote := pricing.Calculate(tier, req)
	return &quote, nil
}

// activeTiers serves the active-flag tier list, cache-aside. The list
// carries every active tier regardless of validity window so one
// request's start time never shapes what another request sees.
func (s *PricingService) activeTiers(ctx context.Context) ([]pricing.Tier, error) {
	if tiers, ok := s.tierCache.GetActiveTiers(ctx); ok {
		return tiers, nil
	}
	tiers, err := s.repo.ListActive()
	if err != nil {
		return nil, err
	}
	s.tierCache.SetActiveTiers(ctx, tiers)
	return tiers, nil
}

func (s *PricingService) ListTiers() ([]pricing.Tier, error) {
	return s.repo.ListAll()
}

func (s *PricingService) GetTier(id string) (*pricing.Tier, error) {
	return s.repo.GetByID(id)
}

func (s *PricingService) CreateTier(ctx context.Context, t *pricing.Tier) error {
	if err := validateTier(t); err != nil {
		return err
	}
	if err := s.repo.Create(t); err != nil {
		return err
	}
	s.tierCache.Invalidate(ctx)
	return nil
}

func (s *PricingService) UpdateTier(ctx context.Context, t *pricing.Tier) error {
	if err := validateTier(t); err != nil {
		return err
	}
	if err := s.repo.Update(t); err != nil {
		return err
	}
	s.tierCache.Invalidate(ctx)
	return nil
}

func (s *PricingService) SetTierActive(ctx context.Context, id string, active bool) error {
	if err := s.repo.SetActive(id, active); err != nil {
		return err
	}
	s.tierCache.Invalidate(ctx)
	return nil
}

func (s *PricingService) DeleteTier(ctx context.Context, id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.tierCache.Invalidate(ctx)
	log.Printf("Pricing tier %s deleted", id)
	return nil
}

func validateTier(t *pricing.Tier) error {
	if t.BasePrice < 0 {
		return fmt.Errorf("base price must be non-negative")
	}
	if t.DurationRange.Min < 0 || t.DurationRange.Max < t.DurationRange.Min {
		return fmt.Errorf("invalid duration range [%v, %v]", t.DurationRange.Min, t.DurationRange.Max)
	}
	for _, sc := range t.Surcharges {
		if sc.Multiplier < 1 {
			return fmt.Errorf("surcharge multiplier must be >= 1")
		}
	}
	for _, d := range t.Discounts {
		if d.Value < 0 {
			return fmt.Errorf("discount value must be non-negative")
		}
		if d.Type == pricing.DiscountPercentage && d.Value > 100 {
			return fmt.Errorf("percentage discount cannot exceed 100")
		}
	}
	return nil
}
