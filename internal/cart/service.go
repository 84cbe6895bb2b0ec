package cart

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vignerons/storefront-backend/pkg/db"
	"github.com/vignerons/storefront-backend/pkg/db/models"
	pkgerrors "github.com/vignerons/storefront-backend/pkg/errors"
	"github.com/vignerons/storefront-backend/pkg/woocommerce"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RemoteSyncer mirrors cart additions into the commerce backend's own cart
// session. The local store is the source of truth; the sync is best-effort
// with a compensating rollback when it fails.
type RemoteSyncer interface {
	SyncAddItem(ctx context.Context, token, productID, variationID string, quantity int) error
}

// Service is the single source of truth for the shopping cart.
type Service interface {
	AddItem(ctx context.Context, token string, input AddItemInput) (*Summary, error)
	UpdateQuantity(ctx context.Context, token, productID, variationID string, quantity int) (*Summary, error)
	RemoveItem(ctx context.Context, token, productID, variationID string) (*Summary, error)
	Clear(ctx context.Context, token string) error
	GetSummary(ctx context.Context, token string) (*Summary, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	remote RemoteSyncer
}

// NewService builds the cart service. The remote syncer is optional.
func NewService(repo Repository, tx txRunner, remote RemoteSyncer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		remote: remote,
	}, nil
}

// AddItemInput snapshots the product at the moment it enters the cart. The
// price is the display price at add time and is never re-fetched.
type AddItemInput struct {
	ProductID   string
	Name        string
	Price       decimal.Decimal
	Image       string
	Categories  []string
	Quantity    int
	VariationID string
	Variation   map[string]string
	VendorID    string
	OnSale      bool
}

// Summary is the derived read model over the current line items. The total
// is recomputed from the lines on every read so it can never drift.
type Summary struct {
	Items     []models.CartLineItem `json:"items"`
	Total     decimal.Decimal       `json:"total"`
	LineCount int                   `json:"line_count"`
	UnitCount int                   `json:"unit_count"`
}

// AddItem merges the product into the cart: an existing
// (product_id, variation_id) line has its quantity incremented, anything
// else appends a new line. The local write happens first; the remote cart
// sync runs afterward and is compensated on failure.
func (s *service) AddItem(ctx context.Context, token string, input AddItemInput) (*Summary, error) {
	if err := validateToken(token); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		line, err := txRepo.FindLine(ctx, token, input.ProductID, input.VariationID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if line != nil {
			line.Quantity += input.Quantity
			return txRepo.Save(ctx, line)
		}
		return txRepo.Create(ctx, &models.CartLineItem{
			CartToken:   token,
			ProductID:   input.ProductID,
			VariationID: input.VariationID,
			Name:        input.Name,
			Quantity:    input.Quantity,
			Price:       input.Price,
			Image:       input.Image,
			Categories:  input.Categories,
			Variation:   input.Variation,
			VendorID:    input.VendorID,
			OnSale:      input.OnSale,
		})
	}); err != nil {
		// Two tabs adding the same product can race past FindLine; the
		// unique line index catches the second insert.
		if db.IsUniqueViolation(err, "idx_cart_line_identity") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart was updated concurrently, retry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart line")
	}

	if s.remote != nil {
		if err := s.remote.SyncAddItem(ctx, token, input.ProductID, input.VariationID, input.Quantity); err != nil {
			if rollbackErr := s.compensateAdd(ctx, token, input); rollbackErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, rollbackErr, "roll back cart line after failed sync")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync cart with commerce backend")
		}
	}

	return s.GetSummary(ctx, token)
}

// compensateAdd undoes exactly the quantity added by the failed AddItem.
func (s *service) compensateAdd(ctx context.Context, token string, input AddItemInput) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		line, err := txRepo.FindLine(ctx, token, input.ProductID, input.VariationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if line.Quantity > input.Quantity {
			line.Quantity -= input.Quantity
			return txRepo.Save(ctx, line)
		}
		_, err = txRepo.DeleteLine(ctx, token, input.ProductID, input.VariationID)
		return err
	})
}

// UpdateQuantity replaces the quantity of the exact
// (product_id, variation_id) line; a non-positive quantity removes it.
func (s *service) UpdateQuantity(ctx context.Context, token, productID, variationID string, quantity int) (*Summary, error) {
	if err := validateToken(token); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return s.RemoveItem(ctx, token, productID, variationID)
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		line, err := txRepo.FindLine(ctx, token, productID, variationID)
		if err != nil {
			return err
		}
		line.Quantity = quantity
		return txRepo.Save(ctx, line)
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}

	return s.GetSummary(ctx, token)
}

// RemoveItem deletes the matching line.
func (s *service) RemoveItem(ctx context.Context, token, productID, variationID string) (*Summary, error) {
	if err := validateToken(token); err != nil {
		return nil, err
	}

	rows, err := s.repo.DeleteLine(ctx, token, productID, variationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	return s.GetSummary(ctx, token)
}

// Clear empties the cart; called after an order is successfully placed.
func (s *service) Clear(ctx context.Context, token string) error {
	if err := validateToken(token); err != nil {
		return err
	}
	if err := s.repo.DeleteAll(ctx, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// GetSummary rehydrates the cart and recomputes the derived totals.
func (s *service) GetSummary(ctx context.Context, token string) (*Summary, error) {
	if err := validateToken(token); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByToken(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	return buildSummary(items), nil
}

func buildSummary(items []models.CartLineItem) *Summary {
	summary := &Summary{
		Items:     items,
		Total:     decimal.Zero,
		LineCount: len(items),
	}
	for _, item := range items {
		summary.UnitCount += item.Quantity
		summary.Total = summary.Total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	summary.Total = summary.Total.Round(2)
	return summary
}

func validateToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	return nil
}

// storeSyncer adapts the WooCommerce Store API client to the RemoteSyncer
// contract. Product ids that are not numeric cannot exist on the backend and
// are skipped rather than failed.
type storeSyncer struct {
	client *woocommerce.Client
}

// NewStoreSyncer wraps the WooCommerce client as a RemoteSyncer.
func NewStoreSyncer(client *woocommerce.Client) RemoteSyncer {
	return &storeSyncer{client: client}
}

func (s *storeSyncer) SyncAddItem(ctx context.Context, token, productID, variationID string, quantity int) error {
	id, err := strconv.ParseInt(productID, 10, 64)
	if err != nil {
		return nil
	}
	var variation int64
	if variationID != "" {
		if parsed, parseErr := strconv.ParseInt(variationID, 10, 64); parseErr == nil {
			variation = parsed
		}
	}
	return s.client.AddStoreCartItem(ctx, token, id, variation, quantity)
}
