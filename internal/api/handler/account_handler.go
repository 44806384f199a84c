package handler

import (
	"bank-ledger/internal/api/handler/dto"
	"bank-ledger/internal/domain/ledger"
	"bank-ledger/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type AccountHandler struct {
	service ledger.LedgerService
	logger  *slog.Logger
}

func NewAccountHandler(s ledger.LedgerService, l *slog.Logger) *AccountHandler {
	if s == nil {
		panic("ledger service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &AccountHandler{
		service: s,
		logger:  l.With("component", "AccountHandler"),
	}
}

func getAccountNumberFromURL(r *http.Request) (string, error) {
	number := strings.TrimSpace(chi.URLParam(r, "accountNumber"))
	if number == "" {
		return "", fmt.Errorf("%w: accountNumber not found in URL path", apperrors.ErrInvalidArgument)
	}
	return number, nil
}

// CreateAccount handles POST /accounts
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err)
		return
	}
	domainReq, err := req.ToDomain()
	if err != nil {
		h.logger.WarnContext(r.Context(), "Create account validation failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	st, err := h.service.CreateAccount(r.Context(), domainReq)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to create account", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Account created successfully", "accountNumber", st.Number, "customerID", st.OwnerID)
	respondJSON(w, http.StatusCreated, dto.NewAccountResponse(st))
}

// GetAccount handles GET /accounts/{accountNumber}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	number, err := getAccountNumberFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	st, err := h.service.GetAccount(r.Context(), number)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to get account", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewAccountResponse(st))
}

// ListAccounts handles GET /accounts
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	states, err := h.service.ListAccounts(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list accounts", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewAccountResponses(states))
}

// Deposit handles POST /accounts/{accountNumber}/deposit
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	number, err := getAccountNumberFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.AmountRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err)
		return
	}
	amount, err := req.ParseAmount()
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid deposit amount", "accountNumber", number, slog.Any("error", err))
		respondError(w, err)
		return
	}

	st, err := h.service.Deposit(r.Context(), number, amount)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to deposit", "accountNumber", number, slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Deposit successful", "accountNumber", number)
	respondJSON(w, http.StatusOK, dto.NewAccountResponse(st))
}

// Withdraw handles POST /accounts/{accountNumber}/withdraw. The password in
// the body answers the single verification prompt.
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	number, err := getAccountNumberFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.WithdrawRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err)
		return
	}
	amount, err := req.ParseAmount()
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid withdrawal amount", "accountNumber", number, slog.Any("error", err))
		respondError(w, err)
		return
	}

	st, err := h.service.Withdraw(r.Context(), number, amount, ledger.StaticSecret(req.Password))
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to withdraw", "accountNumber", number, slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Withdrawal successful", "accountNumber", number)
	respondJSON(w, http.StatusOK, dto.NewAccountResponse(st))
}

// Transfer handles POST /transfers
func (h *AccountHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}
	amount, err := req.ParseAmount()
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid transfer amount", slog.Any("error", err))
		respondError(w, err)
		return
	}

	receipt, err := h.service.TransferFunds(r.Context(), req.FromAccount, req.ToAccount, amount, ledger.StaticSecret(req.Password))
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to transfer funds",
			"from", req.FromAccount, "to", req.ToAccount, slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Transfer successful", "from", req.FromAccount, "to", req.ToAccount)
	respondJSON(w, http.StatusOK, dto.NewTransferResponse(receipt))
}

// ApplyInterest handles POST /interest/apply
func (h *AccountHandler) ApplyInterest(w http.ResponseWriter, r *http.Request) {
	credited, err := h.service.ApplyAllInterest(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to apply interest", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Interest applied", "accounts", credited)
	respondJSON(w, http.StatusOK, dto.InterestResponse{AccountsCredited: credited})
}
