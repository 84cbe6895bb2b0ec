package auth

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/vignerons/storefront-backend/pkg/errors"
	"github.com/vignerons/storefront-backend/pkg/woocommerce"
)

type identityProvider interface {
	Login(ctx context.Context, username, password string) (*woocommerce.LoginResult, error)
	Register(ctx context.Context, email, username, password, firstName, lastName string) (*woocommerce.Customer, error)
}

// Service proxies authentication to the WordPress JWT plugin. No local
// credential storage: the token the plugin mints is the session.
type Service interface {
	Login(ctx context.Context, username, password string) (*woocommerce.LoginResult, error)
	Register(ctx context.Context, input RegisterInput) (*woocommerce.Customer, error)
}

type service struct {
	idp identityProvider
}

func NewService(idp identityProvider) (Service, error) {
	if idp == nil {
		return nil, fmt.Errorf("identity provider required")
	}
	return &service{idp: idp}, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*woocommerce.LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password are required")
	}
	return s.idp.Login(ctx, username, password)
}

// RegisterInput is the new-customer form.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*woocommerce.Customer, error) {
	username := input.Email
	if at := strings.Index(username, "@"); at > 0 {
		username = username[:at]
	}
	return s.idp.Register(ctx, input.Email, username, input.Password, input.FirstName, input.LastName)
}
