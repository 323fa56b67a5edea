package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/joyner-app/backend-pricing/internal/common"
	"github.com/joyner-app/backend-pricing/internal/marketplace"
	"github.com/joyner-app/backend-pricing/internal/money"
	"github.com/joyner-app/backend-pricing/internal/pricing"
)

// Handler exposes the pricing endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type voucherPayload struct {
	ID         string  `json:"id" validate:"required"`
	Kind       string  `json:"kind" validate:"required,oneof=fixed percentage"`
	Amount     int64   `json:"amount"`
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
}

type sizeFeePayload struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount" validate:"gte=0"`
}

type orderDataPayload struct {
	DeliveryMethod           string           `json:"deliveryMethod" validate:"omitempty,oneof=shipping pickup"`
	StockReservationQuantity int64            `json:"stockReservationQuantity" validate:"gte=0"`
	BookingStart             *time.Time       `json:"bookingStart"`
	BookingEnd               *time.Time       `json:"bookingEnd"`
	Seats                    int64            `json:"seats" validate:"gte=0"`
	TimeZone                 string           `json:"timeZone"`
	VoucherFee               *voucherPayload  `json:"voucherFee"`
	SizeFees                 []sizeFeePayload `json:"fee" validate:"dive"`
}

type pricingRequest struct {
	ListingID string           `json:"listingId" validate:"required,uuid"`
	OrderData orderDataPayload `json:"orderData"`
}

func (p orderDataPayload) toOrderData() pricing.OrderData {
	order := pricing.OrderData{
		DeliveryMethod:           pricing.DeliveryMethod(p.DeliveryMethod),
		StockReservationQuantity: p.StockReservationQuantity,
		BookingStart:             p.BookingStart,
		BookingEnd:               p.BookingEnd,
		Seats:                    p.Seats,
		TimeZone:                 p.TimeZone,
	}
	if p.VoucherFee != nil {
		order.VoucherFee = &pricing.VoucherSpec{
			ID:         p.VoucherFee.ID,
			Kind:       pricing.VoucherKind(p.VoucherFee.Kind),
			Amount:     p.VoucherFee.Amount,
			Percentage: p.VoucherFee.Percentage,
		}
	}
	for _, fee := range p.SizeFees {
		order.SizeFees = append(order.SizeFees, pricing.SizeFeeSpec{Label: fee.Label, Amount: fee.Amount})
	}
	return order
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (uuid.UUID, pricing.OrderData, bool) {
	var payload pricingRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return uuid.Nil, pricing.OrderData{}, false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid request", validationDetails(err))
			return uuid.Nil, pricing.OrderData{}, false
		}
	}
	listingID, err := uuid.Parse(payload.ListingID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "listingId must be a UUID", nil)
		return uuid.Nil, pricing.OrderData{}, false
	}
	return listingID, payload.OrderData.toOrderData(), true
}

// Speculate prices an order without creating a transaction.
func (h *Handler) Speculate(w http.ResponseWriter, r *http.Request) {
	listingID, order, ok := h.decode(w, r)
	if !ok {
		return
	}
	breakdown, err := h.Svc.Speculate(r.Context(), listingID, order)
	if err != nil {
		writePricingError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": breakdown})
}

// Initiate prices the order and starts a transaction on the hosted backend.
func (h *Handler) Initiate(w http.ResponseWriter, r *http.Request) {
	listingID, order, ok := h.decode(w, r)
	if !ok {
		return
	}
	result, err := h.Svc.Initiate(r.Context(), listingID, order)
	if err != nil {
		writePricingError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": result})
}

func writePricingError(w http.ResponseWriter, err error) {
	var missing *pricing.MissingQuantityError
	var appErr *common.AppError
	switch {
	case errors.As(err, &missing):
		common.JSONError(w, http.StatusBadRequest, "MISSING_QUANTITY_INFORMATION", missing.Error(), nil)
	case errors.Is(err, pricing.ErrUnknownUnitType):
		common.JSONError(w, http.StatusBadRequest, "UNKNOWN_UNIT_TYPE", err.Error(), nil)
	case errors.Is(err, marketplace.ErrListingNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "listing not found", nil)
	case errors.Is(err, money.ErrCurrencyMismatch):
		common.JSONError(w, http.StatusInternalServerError, "CURRENCY_MISMATCH", "listing and fee currencies disagree", nil)
	case errors.As(err, &appErr):
		common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "pricing failed", nil)
	}
}

func validationDetails(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
