package service

import (
	"errors"
	"fmt"

	"earnly/internal/domain"
	"earnly/internal/models"
	"earnly/internal/notify"
	"earnly/internal/repository"

	"gorm.io/gorm"
)

// CatalogService manages the admin-owned task catalog: reward assets and the
// ads posted against them.
type CatalogService struct {
	assets   *repository.AssetRepository
	ads      *repository.AdRepository
	notifier *notify.Dispatcher
}

func NewCatalogService(assets *repository.AssetRepository, ads *repository.AdRepository, notifier *notify.Dispatcher) *CatalogService {
	return &CatalogService{assets: assets, ads: ads, notifier: notifier}
}

// UpsertAsset creates or replaces an asset definition. Editing an asset
// changes the payout of future approvals against its ads, so the change is
// announced to admins.
func (s *CatalogService) UpsertAsset(a *models.Asset) error {
	if a.ID == "" || a.RewardCents < 0 || a.PenaltyCents < 0 {
		return fmt.Errorf("%w: asset id required, amounts must be non-negative", domain.ErrValidation)
	}
	if err := s.assets.Upsert(a); err != nil {
		return err
	}
	s.notifier.SendAdmins("asset_updated",
		fmt.Sprintf("Asset %s (%s) saved: reward %s, penalty %s.",
			a.ID, a.Type, domain.FormatCents(a.RewardCents), domain.FormatCents(a.PenaltyCents)))
	return nil
}

func (s *CatalogService) GetAsset(id string) (*models.Asset, error) {
	a, err := s.assets.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}
	return a, err
}

func (s *CatalogService) ListAssets() ([]models.Asset, error) {
	return s.assets.List()
}

// CreateAd posts a new task offer against an existing, ad-enabled asset and
// announces it on the owner channel with a claim affordance.
func (s *CatalogService) CreateAd(creatorID int64, assetID string, budgetCents int64, slots int, text string) (*models.Ad, error) {
	if budgetCents <= 0 || slots <= 0 {
		return nil, fmt.Errorf("%w: budget and worker slots must be positive", domain.ErrValidation)
	}
	asset, err := s.assets.GetByID(assetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("asset %s: %w", assetID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !asset.AdEnabled {
		return nil, fmt.Errorf("asset %s has ads disabled: %w", assetID, domain.ErrInvalidState)
	}
	ad := &models.Ad{
		AssetID:     assetID,
		CreatorID:   creatorID,
		BudgetCents: budgetCents,
		WorkerSlots: slots,
		Text:        text,
		Status:      domain.AdStatusActive,
	}
	if err := s.ads.Create(ad); err != nil {
		return nil, err
	}
	s.notifier.SendChannel("ad_posted",
		fmt.Sprintf("New task #%d (%s)\nBudget: %s, slots: %d\n\n%s",
			ad.ID, assetID, domain.FormatCents(budgetCents), slots, text),
		notify.Action{Label: "Claim", Data: fmt.Sprintf("claim:%d", ad.ID)},
	)
	return ad, nil
}

// CancelAd retires an ad; existing non-terminal claims against it can still
// be adjudicated, new claims are refused.
func (s *CatalogService) CancelAd(id uint) error {
	ok, err := s.ads.Cancel(id)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := s.ads.GetByID(id); errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("ad %d: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("ad %d: %w", id, domain.ErrAlreadyProcessed)
	}
	s.notifier.SendAdmins("ad_cancelled", fmt.Sprintf("Ad #%d cancelled.", id))
	return nil
}

func (s *CatalogService) ListActiveAds() ([]models.Ad, error) {
	return s.ads.ListActive()
}
