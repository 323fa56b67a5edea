package override

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/joyner-app/backend-pricing/internal/common"
)

// Handler exposes administrative override management endpoints.
type Handler struct {
	Store *Store
	Svc   *Service
}

type listingOverridePayload struct {
	Percentage float64 `json:"percentage"`
}

// List returns the current override table as seen by pricing.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "override service not configured", nil)
		return
	}
	table := h.Svc.Resolve(r.Context())
	common.JSON(w, http.StatusOK, map[string]any{"data": table})
}

// UpsertListing sets the forced provider commission for a listing.
func (h *Handler) UpsertListing(w http.ResponseWriter, r *http.Request) {
	listingID := strings.TrimSpace(chi.URLParam(r, "listingId"))
	if listingID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "listing id is required", nil)
		return
	}
	var payload listingOverridePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if payload.Percentage < 0 || payload.Percentage > 100 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "percentage must be between 0 and 100", nil)
		return
	}
	if err := h.Store.UpsertListing(r.Context(), listingID, payload.Percentage); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to save override", nil)
		return
	}
	h.invalidate(r)
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"listingId":  listingID,
		"percentage": payload.Percentage,
	}})
}

// DeleteListing removes a listing override.
func (h *Handler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	listingID := strings.TrimSpace(chi.URLParam(r, "listingId"))
	if listingID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "listing id is required", nil)
		return
	}
	if err := h.Store.DeleteListing(r.Context(), listingID); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete override", nil)
		return
	}
	h.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

// UpsertVoucher marks a voucher as waiving the provider commission.
func (h *Handler) UpsertVoucher(w http.ResponseWriter, r *http.Request) {
	voucherID := strings.TrimSpace(chi.URLParam(r, "voucherId"))
	if voucherID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "voucher id is required", nil)
		return
	}
	if err := h.Store.UpsertVoucher(r.Context(), voucherID); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to save override", nil)
		return
	}
	h.invalidate(r)
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"voucherId":          voucherID,
		"providerCommission": 0,
	}})
}

// DeleteVoucher removes a voucher override.
func (h *Handler) DeleteVoucher(w http.ResponseWriter, r *http.Request) {
	voucherID := strings.TrimSpace(chi.URLParam(r, "voucherId"))
	if voucherID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "voucher id is required", nil)
		return
	}
	if err := h.Store.DeleteVoucher(r.Context(), voucherID); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete override", nil)
		return
	}
	h.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

// Mount registers the admin override routes.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/overrides", h.List)
	r.Put("/overrides/listings/{listingId}", h.UpsertListing)
	r.Delete("/overrides/listings/{listingId}", h.DeleteListing)
	r.Put("/overrides/vouchers/{voucherId}", h.UpsertVoucher)
	r.Delete("/overrides/vouchers/{voucherId}", h.DeleteVoucher)
}

func (h *Handler) invalidate(r *http.Request) {
	if h.Svc != nil {
		_ = h.Svc.Invalidate(r.Context())
	}
}
