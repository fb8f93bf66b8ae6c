package services

import (
	"context"

	"storefront-api/internal/models"
	"storefront-api/internal/storage"
	"storefront-api/internal/transport/dto"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type merchantService struct {
	store    storage.Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewMerchantService creates a new instance of MerchantService.
func NewMerchantService(store storage.Store, validate *validator.Validate, logger *zap.Logger) MerchantService {
	return &merchantService{store: store, validate: validate, logger: logger}
}

func (s *merchantService) ListMerchants(ctx context.Context) ([]models.Merchant, error) {
	merchants, err := s.store.Merchants().GetAll(ctx)
	if err != nil {
		return nil, mapRepoError(s.logger, err, ErrMerchantNotFound, "listing merchants")
	}
	return merchants, nil
}

func (s *merchantService) GetMerchant(ctx context.Context, id int64) (*models.Merchant, error) {
	merchant, err := s.store.Merchants().GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(s.logger, err, ErrMerchantNotFound, "getting merchant")
	}
	return merchant, nil
}

func (s *merchantService) CreateMerchant(ctx context.Context, req *dto.CreateMerchantRequest) (*models.Merchant, error) {
	messages, err := structMessages(s.validate, req)
	if err != nil {
		return nil, err
	}
	if err := NewValidationError(collect(messages, "name")...).OrNil(); err != nil {
		return nil, err
	}

	merchant, err := s.store.Merchants().Create(ctx, req.Name)
	if err != nil {
		return nil, mapRepoError(s.logger, err, ErrMerchantNotFound, "creating merchant")
	}
	return merchant, nil
}
