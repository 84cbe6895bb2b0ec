package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/multierr"

	"github.com/vignerons/storefront-backend/pkg/types"
)

// Checkout advances through three gated steps.
const (
	StepContact  = 1
	StepDelivery = 2
	StepPayment  = 3
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// StepInput carries everything the step gates look at. Fields for later
// steps may stay zero while validating an earlier one.
type StepInput struct {
	Email string `json:"email"`
	Phone string `json:"phone"`

	DeliveryMethod DeliveryMethod    `json:"delivery_method"`
	Address        types.Address     `json:"address"`
	RelayPoint     *types.RelayPoint `json:"relay_point,omitempty"`
}

// ValidateStep returns the aggregated field errors blocking the given
// step, or nil when the step is complete. Step 3 has no gate of its own;
// it only requires the earlier steps.
func ValidateStep(step int, input StepInput) error {
	switch step {
	case StepContact:
		return validateContact(input)
	case StepDelivery:
		return validateDelivery(input)
	case StepPayment:
		return nil
	default:
		return fmt.Errorf("unknown checkout step %d", step)
	}
}

// IsStepComplete reports whether every gate up to and including step
// passes.
func IsStepComplete(step int, input StepInput) bool {
	for s := StepContact; s <= step; s++ {
		if ValidateStep(s, input) != nil {
			return false
		}
	}
	return true
}

func validateContact(input StepInput) error {
	var err error
	if !emailPattern.MatchString(strings.TrimSpace(input.Email)) {
		err = multierr.Append(err, fmt.Errorf("email: invalid address"))
	}
	if strings.TrimSpace(input.Phone) == "" {
		err = multierr.Append(err, fmt.Errorf("phone: required"))
	}
	return err
}

func validateDelivery(input StepInput) error {
	if input.DeliveryMethod == DeliveryPickup {
		return validateRelayPoint(input.RelayPoint)
	}
	return validateAddress(input.Address)
}

func validateAddress(addr types.Address) error {
	var err error
	for field, value := range map[string]string{
		"first_name": addr.FirstName,
		"last_name":  addr.LastName,
		"address_1":  addr.Address1,
		"city":       addr.City,
		"postcode":   addr.Postcode,
	} {
		if strings.TrimSpace(value) == "" {
			err = multierr.Append(err, fmt.Errorf("%s: required", field))
		}
	}
	return err
}

func validateRelayPoint(relay *types.RelayPoint) error {
	if relay == nil {
		return fmt.Errorf("relay_point: required for pickup delivery")
	}
	var err error
	if strings.TrimSpace(relay.ID) == "" {
		err = multierr.Append(err, fmt.Errorf("relay_point.id: required"))
	}
	if strings.TrimSpace(relay.Address) == "" {
		err = multierr.Append(err, fmt.Errorf("relay_point.address: required"))
	}
	if strings.TrimSpace(relay.City) == "" {
		err = multierr.Append(err, fmt.Errorf("relay_point.city: required"))
	}
	if strings.TrimSpace(relay.Postcode) == "" {
		err = multierr.Append(err, fmt.Errorf("relay_point.postcode: required"))
	}
	return err
}
