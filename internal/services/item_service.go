package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-api/internal/itemquery"
	"storefront-api/internal/models"
	"storefront-api/internal/storage"
	"storefront-api/internal/transport/dto"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SortByPrice is the value of the `sorted` list parameter that orders items by price.
const SortByPrice = "price"

type itemService struct {
	store    storage.Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewItemService creates a new instance of ItemService.
func NewItemService(store storage.Store, validate *validator.Validate, logger *zap.Logger) ItemService {
	return &itemService{store: store, validate: validate, logger: logger}
}

func (s *itemService) ListItems(ctx context.Context, req *dto.ListItemsRequest) ([]models.Item, error) {
	var items []models.Item
	var err error
	if req.MerchantID != nil {
		if _, err := s.store.Merchants().GetByID(ctx, *req.MerchantID); err != nil {
			return nil, mapRepoError(s.logger, err, ErrMerchantNotFound, "getting merchant for item list")
		}
		items, err = s.store.Items().ListByMerchant(ctx, *req.MerchantID)
	} else {
		items, err = s.store.Items().GetAll(ctx)
	}
	if err != nil {
		return nil, mapRepoError(s.logger, err, ErrItemNotFound, "listing items")
	}

	if req.Sorted == SortByPrice {
		items = itemquery.SortByPrice(items)
	}
	return items, nil
}

func (s *itemService) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.store.Items().GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(s.logger, err, ErrItemNotFound, "getting item")
	}
	return item, nil
}

func (s *itemService) CreateItem(ctx context.Context, req *dto.CreateItemRequest) (*models.Item, error) {
	messages, err := structMessages(s.validate, req)
	if err != nil {
		return nil, err
	}
	price, priceMessages := numericMessages("unit_price", req.UnitPrice, true)
	priceMessages = append(priceMessages, unitPriceMessages(price)...)

	verr := NewValidationError(collect(messages, "name", "description")...).
		Add(priceMessages...).
		Add(collect(messages, "merchant_id")...)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	item, err := s.store.Items().Create(ctx, &models.Item{
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   *price,
		MerchantID:  req.MerchantID,
	})
	if err != nil {
		if errors.Is(err, storage.ErrForeignKey) {
			return nil, NewValidationError("Merchant must exist")
		}
		return nil, mapRepoError(s.logger, err, ErrItemNotFound, "creating item")
	}
	return item, nil
}

func (s *itemService) UpdateItem(ctx context.Context, req *dto.UpdateItemRequest) (*models.Item, error) {
	var updated *models.Item
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx storage.Store) error {
		if _, err := tx.Items().GetByID(ctx, req.ID); err != nil {
			return mapRepoError(s.logger, err, ErrItemNotFound, "getting item for update")
		}

		messages, err := structMessages(s.validate, req)
		if err != nil {
			return err
		}
		update := models.ItemUpdate{
			Name:        req.Name,
			Description: req.Description,
			MerchantID:  req.MerchantID,
		}
		var priceMessages []string
		if req.UnitPrice.Present {
			update.UnitPrice, priceMessages = numericMessages("unit_price", req.UnitPrice, true)
			priceMessages = append(priceMessages, unitPriceMessages(update.UnitPrice)...)
		}
		verr := NewValidationError(collect(messages, "name", "description")...).Add(priceMessages...)
		if err := verr.OrNil(); err != nil {
			return err
		}

		item, err := tx.Items().Update(ctx, req.ID, update)
		if err != nil {
			if errors.Is(err, storage.ErrForeignKey) && req.MerchantID != nil {
				s.logger.Info("Item update references unknown merchant",
					zap.Int64("item_id", req.ID), zap.Int64("merchant_id", *req.MerchantID))
				return fmt.Errorf("%w: merchant %d does not exist", ErrConstraintViolation, *req.MerchantID)
			}
			return mapRepoError(s.logger, err, ErrItemNotFound, "updating item")
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *itemService) DeleteItem(ctx context.Context, id int64) error {
	if err := s.store.Items().Delete(ctx, id); err != nil {
		return mapRepoError(s.logger, err, ErrItemNotFound, "deleting item")
	}
	return nil
}

func (s *itemService) FindItem(ctx context.Context, req *dto.FindItemsRequest) (item *models.Item, err error) {
	ctx, span := startSpan(ctx, "ItemService.FindItem")
	defer func() { endSpan(span, err) }()

	q, err := parseItemSearch(req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Bool("search.by_name", q.byName))

	items, err := s.store.Items().GetAll(ctx)
	if err != nil {
		return nil, mapRepoError(s.logger, err, ErrItemNotFound, "loading items for search")
	}

	var found *models.Item
	if q.byName {
		found, _ = itemquery.FindOneByName(items, q.name)
	} else {
		found, _ = itemquery.FindOneByPrice(items, q.price)
	}
	return found, nil
}

func (s *itemService) FindAllItems(ctx context.Context, req *dto.FindItemsRequest) (items []models.Item, err error) {
	ctx, span := startSpan(ctx, "ItemService.FindAllItems")
	defer func() { endSpan(span, err) }()

	q, err := parseItemSearch(req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Bool("search.by_name", q.byName))

	all, err := s.store.Items().GetAll(ctx)
	if err != nil {
		return nil, mapRepoError(s.logger, err, ErrItemNotFound, "loading items for search")
	}

	if q.byName {
		return itemquery.FindAllByName(all, q.name), nil
	}
	return itemquery.FindAllByPrice(all, q.price), nil
}

type itemSearch struct {
	byName bool
	name   string
	price  itemquery.PriceRange
}

// parseItemSearch enforces the search contract: a non-empty name or at least one
// non-negative numeric price bound, never both.
func parseItemSearch(req *dto.FindItemsRequest) (itemSearch, error) {
	hasName := req.Name != nil
	hasPrice := req.MinPrice != nil || req.MaxPrice != nil

	switch {
	case hasName && hasPrice:
		return itemSearch{}, NewValidationError("Cannot search by both name and price")
	case !hasName && !hasPrice:
		return itemSearch{}, NewValidationError("Must provide a name or a min_price/max_price to search by")
	case hasName:
		if strings.TrimSpace(*req.Name) == "" {
			return itemSearch{}, NewValidationError("Name cannot be empty")
		}
		return itemSearch{byName: true, name: *req.Name}, nil
	}

	verr := NewValidationError()
	minPrice := parseBound("Min price", req.MinPrice, verr)
	maxPrice := parseBound("Max price", req.MaxPrice, verr)
	if err := verr.OrNil(); err != nil {
		return itemSearch{}, err
	}
	return itemSearch{price: itemquery.PriceRange{Min: minPrice, Max: maxPrice}}, nil
}

// maxUnitPrice is the exclusive bound of the NUMERIC(12, 2) price columns.
var maxUnitPrice = decimal.New(1, 10)

// unitPriceMessages rejects prices the price columns would round or overflow.
func unitPriceMessages(price *decimal.Decimal) []string {
	if price == nil {
		return nil
	}
	var messages []string
	if price.IsNegative() {
		messages = append(messages, "Unit price must be greater than or equal to 0")
	}
	if !price.Equal(price.Truncate(2)) {
		messages = append(messages, "Unit price must have at most 2 decimal places")
	}
	if price.Abs().GreaterThanOrEqual(maxUnitPrice) {
		messages = append(messages, "Unit price must be less than 10000000000")
	}
	return messages
}

func parseBound(label string, raw *string, verr *ValidationError) *decimal.Decimal {
	if raw == nil {
		return nil
	}
	value, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		verr.Add(label + " must be a number")
		return nil
	}
	if value.IsNegative() {
		verr.Add(label + " cannot be less than 0")
		return nil
	}
	return &value
}
