package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hostelhub/snackshop-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateSnackCreate validates snack creation business rules
func (bv *BusinessValidator) ValidateSnackCreate(req *models.SnackCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if strings.TrimSpace(req.Name) == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "cannot be blank",
			Value:   req.Name,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateOrderPlacement validates an order request against current stock.
// The quantity bound check here is advisory; the authoritative check is the
// conditional decrement inside the placement transaction.
func (bv *BusinessValidator) ValidateOrderPlacement(quantity, stock int) ValidationErrors {
	var errors ValidationErrors

	if quantity <= 0 {
		errors = append(errors, ValidationError{
			Field:   "quantity",
			Message: "must be a positive integer",
			Value:   quantity,
			Rule:    "business_logic",
		})
	}

	if quantity > 0 && quantity > stock {
		errors = append(errors, ValidationError{
			Field:   "quantity",
			Message: "exceeds available stock",
			Value:   quantity,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateStatusTransition validates order status transitions
func (bv *BusinessValidator) ValidateStatusTransition(currentStatus, newStatus models.OrderStatus) ValidationErrors {
	var errors ValidationErrors

	// Pending -> Completed is the only allowed transition; Completed is terminal
	allowedTransitions := map[models.OrderStatus][]models.OrderStatus{
		models.OrderStatusPending:   {models.OrderStatusCompleted},
		models.OrderStatusCompleted: {},
	}

	allowed := false
	for _, allowedStatus := range allowedTransitions[currentStatus] {
		if newStatus == allowedStatus {
			allowed = true
			break
		}
	}

	if !allowed {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "cannot transition from " + string(currentStatus) + " to " + string(newStatus),
			Value:   newStatus,
			Rule:    "status_transition",
		})
	}

	return errors
}

// ValidateDeletePermission validates whether a snack can be deleted
func (bv *BusinessValidator) ValidateDeletePermission(hasPendingOrders bool) ValidationErrors {
	var errors ValidationErrors

	if hasPendingOrders {
		errors = append(errors, ValidationError{
			Field:   "orders",
			Message: "cannot delete snack with pending orders",
			Value:   hasPendingOrders,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Price validation (positive, capped at a sane shop maximum)
	bv.validate.RegisterValidation("snack_price", func(fl validator.FieldLevel) bool {
		price := fl.Field().Float()
		return price > 0 && price <= 10000
	})

	// Stock quantity validation (non-negative)
	bv.validate.RegisterValidation("stock_quantity", func(fl validator.FieldLevel) bool {
		quantity := fl.Field().Int()
		return quantity >= 0
	})

	// Order quantity validation (positive)
	bv.validate.RegisterValidation("order_quantity", func(fl validator.FieldLevel) bool {
		quantity := fl.Field().Int()
		return quantity > 0
	})
}
