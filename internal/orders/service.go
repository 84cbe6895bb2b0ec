package orders

import (
	"context"
	"fmt"

	"github.com/vignerons/storefront-backend/pkg/woocommerce"
)

type orderSource interface {
	GetOrder(ctx context.Context, id int64) (*woocommerce.Order, error)
	ListCustomerOrders(ctx context.Context, customerID int64) ([]woocommerce.Order, error)
}

// Service reads orders back from the commerce backend. Order state after
// submission belongs to the backend; this is a read-only window.
type Service interface {
	GetOrder(ctx context.Context, id int64) (*woocommerce.Order, error)
	ListForCustomer(ctx context.Context, customerID int64) ([]woocommerce.Order, error)
}

type service struct {
	source orderSource
}

func NewService(source orderSource) (Service, error) {
	if source == nil {
		return nil, fmt.Errorf("order source required")
	}
	return &service{source: source}, nil
}

func (s *service) GetOrder(ctx context.Context, id int64) (*woocommerce.Order, error) {
	return s.source.GetOrder(ctx, id)
}

func (s *service) ListForCustomer(ctx context.Context, customerID int64) ([]woocommerce.Order, error) {
	return s.source.ListCustomerOrders(ctx, customerID)
}
