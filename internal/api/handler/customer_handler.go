package handler

import (
	"bank-ledger/internal/api/handler/dto"
	"bank-ledger/internal/domain/account"
	"bank-ledger/internal/domain/customer"
	"bank-ledger/internal/domain/ledger"
	"bank-ledger/internal/pkg/apperrors"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type CustomerHandler struct {
	service ledger.LedgerService
	logger  *slog.Logger
}

func NewCustomerHandler(s ledger.LedgerService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("ledger service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

func getCustomerIDFromURL(r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "customerID"))
	if id == "" {
		return "", fmt.Errorf("%w: customerID not found in URL path", apperrors.ErrInvalidArgument)
	}
	return id, nil
}

// requestConfirmer answers the removal prompts from the DELETE body.
type requestConfirmer struct {
	req dto.RemoveCustomerRequest
}

func (c requestConfirmer) ConfirmClosure(context.Context, *customer.Customer, []account.State) (bool, error) {
	return c.req.CloseAccounts, nil
}

func (c requestConfirmer) ConfirmBalanceLoss(context.Context, []account.State) (string, error) {
	return c.req.Confirmation, nil
}

// CreateCustomer handles POST /customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create customer request")

	var req dto.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Create customer validation failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	created, err := h.service.AddCustomer(r.Context(), req.ToDomain())
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to add customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCustomerResponse(created)
	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.String("customerID", resp.CustomerID))
	respondJSON(w, http.StatusCreated, resp)
}

// GetCustomer handles GET /customers/{customerID}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	cust, err := h.service.GetCustomer(r.Context(), customerID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to get customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(cust))
}

// ListCustomers handles GET /customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list customers", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.CustomerResponse, len(customers))
	for i, cust := range customers {
		resp[i] = dto.NewCustomerResponse(cust)
	}

	h.logger.DebugContext(r.Context(), "Customers listed", slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}

// UpdateCustomerAddress handles PUT /customers/{customerID}/address
func (h *CustomerHandler) UpdateCustomerAddress(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	var req dto.UpdateCustomerAddressRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Update address validation failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	cust, err := h.service.UpdateCustomerAddress(r.Context(), customerID, req.Address)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to update customer address", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer address updated successfully", slog.String("customerID", customerID))
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(cust))
}

// RemoveCustomer handles DELETE /customers/{customerID}. A customer without
// accounts needs no body.
func (h *CustomerHandler) RemoveCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	var req dto.RemoveCustomerRequest
	if r.ContentLength != 0 && r.Body != nil && r.Body != http.NoBody {
		if err := decodeJSON(r, &req); err != nil {
			h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
			respondError(w, err)
			return
		}
	}

	if err := h.service.RemoveCustomer(r.Context(), customerID, requestConfirmer{req: req}); err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to remove customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer removed successfully", slog.String("customerID", customerID))
	respondJSON(w, http.StatusNoContent, nil)
}

// ListCustomerAccounts handles GET /customers/{customerID}/accounts
func (h *CustomerHandler) ListCustomerAccounts(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	states, err := h.service.GetCustomerAccounts(r.Context(), customerID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to list customer accounts", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewAccountResponses(states))
}
