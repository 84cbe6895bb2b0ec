package cart

import (
	"context"

	"gorm.io/gorm"

	"github.com/vignerons/storefront-backend/pkg/db/models"
)

// Repository persists cart line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByToken(ctx context.Context, token string) ([]models.CartLineItem, error)
	FindLine(ctx context.Context, token, productID, variationID string) (*models.CartLineItem, error)
	Create(ctx context.Context, item *models.CartLineItem) error
	Save(ctx context.Context, item *models.CartLineItem) error
	DeleteLine(ctx context.Context, token, productID, variationID string) (int64, error)
	DeleteAll(ctx context.Context, token string) error
}

type repository struct {
	conn *gorm.DB
}

// NewRepository builds the gorm-backed cart repository.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{conn: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{conn: tx}
}

func (r *repository) ListByToken(ctx context.Context, token string) ([]models.CartLineItem, error) {
	var items []models.CartLineItem
	err := r.conn.WithContext(ctx).
		Where("cart_token = ?", token).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindLine(ctx context.Context, token, productID, variationID string) (*models.CartLineItem, error) {
	var item models.CartLineItem
	err := r.conn.WithContext(ctx).
		Where("cart_token = ? AND product_id = ? AND variation_id = ?", token, productID, variationID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) Create(ctx context.Context, item *models.CartLineItem) error {
	return r.conn.WithContext(ctx).Create(item).Error
}

func (r *repository) Save(ctx context.Context, item *models.CartLineItem) error {
	return r.conn.WithContext(ctx).Save(item).Error
}

func (r *repository) DeleteLine(ctx context.Context, token, productID, variationID string) (int64, error) {
	result := r.conn.WithContext(ctx).
		Where("cart_token = ? AND product_id = ? AND variation_id = ?", token, productID, variationID).
		Delete(&models.CartLineItem{})
	return result.RowsAffected, result.Error
}

func (r *repository) DeleteAll(ctx context.Context, token string) error {
	return r.conn.WithContext(ctx).
		Where("cart_token = ?", token).
		Delete(&models.CartLineItem{}).Error
}
