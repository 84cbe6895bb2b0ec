package checkout

import (
	"strings"
	"testing"

	"github.com/vignerons/storefront-backend/pkg/types"
)

func validContact() StepInput {
	return StepInput{Email: "client@example.fr", Phone: "0612345678"}
}

func validDelivery() StepInput {
	input := validContact()
	input.DeliveryMethod = DeliveryStandard
	input.Address = types.Address{
		FirstName: "Jeanne",
		LastName:  "Martin",
		Address1:  "3 rue des Vignes",
		City:      "Lyon",
		Postcode:  "69002",
	}
	return input
}

func TestValidateContactStep(t *testing.T) {
	if err := ValidateStep(StepContact, validContact()); err != nil {
		t.Fatalf("valid contact rejected: %v", err)
	}

	for _, email := range []string{"", "plain", "a@b", "two words@x.fr", "a@b.", "@x.fr"} {
		input := validContact()
		input.Email = email
		if err := ValidateStep(StepContact, input); err == nil {
			t.Fatalf("email %q should be rejected", email)
		}
	}

	input := validContact()
	input.Phone = "   "
	err := ValidateStep(StepContact, input)
	if err == nil || !strings.Contains(err.Error(), "phone") {
		t.Fatalf("expected phone error, got %v", err)
	}
}

func TestValidateContactAggregatesFieldErrors(t *testing.T) {
	err := ValidateStep(StepContact, StepInput{})
	if err == nil {
		t.Fatalf("expected errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "email") || !strings.Contains(msg, "phone") {
		t.Fatalf("expected both field errors aggregated, got %q", msg)
	}
}

func TestValidateDeliveryStandardAddress(t *testing.T) {
	if err := ValidateStep(StepDelivery, validDelivery()); err != nil {
		t.Fatalf("valid address rejected: %v", err)
	}

	input := validDelivery()
	input.Address.Postcode = ""
	input.Address.City = ""
	err := ValidateStep(StepDelivery, input)
	if err == nil {
		t.Fatalf("missing fields must fail")
	}
	if !strings.Contains(err.Error(), "postcode") || !strings.Contains(err.Error(), "city") {
		t.Fatalf("expected aggregated address errors, got %q", err.Error())
	}
}

func TestValidateDeliveryPickupRelay(t *testing.T) {
	input := validContact()
	input.DeliveryMethod = DeliveryPickup

	if err := ValidateStep(StepDelivery, input); err == nil {
		t.Fatalf("pickup without relay point must fail")
	}

	input.RelayPoint = &types.RelayPoint{ID: "R-12", Name: "Relais Centre", Address: "8 place du Marché", City: "Lyon", Postcode: "69001"}
	if err := ValidateStep(StepDelivery, input); err != nil {
		t.Fatalf("valid relay point rejected: %v", err)
	}

	// A pickup order ignores the street address entirely.
	input.Address = types.Address{}
	if err := ValidateStep(StepDelivery, input); err != nil {
		t.Fatalf("pickup must not require a street address: %v", err)
	}
}

func TestPaymentStepHasNoGateOfItsOwn(t *testing.T) {
	if err := ValidateStep(StepPayment, StepInput{}); err != nil {
		t.Fatalf("step 3 should have no own gate, got %v", err)
	}
}

func TestIsStepCompleteRequiresEarlierSteps(t *testing.T) {
	if IsStepComplete(StepPayment, validContact()) {
		t.Fatalf("step 3 must require step 2")
	}
	if !IsStepComplete(StepPayment, validDelivery()) {
		t.Fatalf("all gates pass, step 3 should be reachable")
	}
	if IsStepComplete(StepDelivery, StepInput{}) {
		t.Fatalf("step 2 must require step 1")
	}
}

func TestValidateDeliveryRelayPointNeedsCityAndPostcode(t *testing.T) {
	input := validDelivery()
	input.DeliveryMethod = DeliveryPickup
	input.Address = types.Address{}
	input.RelayPoint = &types.RelayPoint{ID: "R-12", Name: "Relais Centre", Address: "8 place du Marché"}

	err := ValidateStep(StepDelivery, input)
	if err == nil {
		t.Fatalf("relay point without city/postcode must not pass the gate")
	}
	msg := err.Error()
	if !strings.Contains(msg, "relay_point.city") || !strings.Contains(msg, "relay_point.postcode") {
		t.Fatalf("expected both missing relay fields reported, got %q", msg)
	}
	if IsStepComplete(StepDelivery, input) {
		t.Fatalf("step must be incomplete with a partial relay point")
	}
}
