package woocommerce

import (
	"context"
	"net/http"
)

// LoginResult is the token response of the WordPress JWT plugin.
type LoginResult struct {
	Token       string `json:"token"`
	UserEmail   string `json:"user_email"`
	DisplayName string `json:"user_display_name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a WordPress-issued JWT.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.doJSON(ctx, requestSpec{
		method: http.MethodPost,
		path:   jwtAuthPath,
		body:   loginRequest{Username: username, Password: password},
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Customer is the WooCommerce customer record created on registration.
type Customer struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type registerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// Register creates a customer account on the commerce backend.
func (c *Client) Register(ctx context.Context, email, username, password, firstName, lastName string) (*Customer, error) {
	var customer Customer
	err := c.doJSON(ctx, requestSpec{
		method: http.MethodPost,
		path:   restAPIPath + "/customers",
		body: registerRequest{
			Email:     email,
			Username:  username,
			Password:  password,
			FirstName: firstName,
			LastName:  lastName,
		},
		keyedAuth: true,
	}, &customer)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
