package handler

import (
	"bank-ledger/internal/api/handler/dto"
	"bank-ledger/internal/pkg/apperrors"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("%w: no request body", apperrors.ErrInvalidArgument)
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", apperrors.ErrInvalidArgument, err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// errorStatus maps a ledger error onto the HTTP status and the error body
// returned to the client.
func errorStatus(err error) (int, dto.ErrorDetail) {
	var (
		authErr         *apperrors.AuthError
		validationError *apperrors.ValidationError
		appErr          *apperrors.AppError
	)

	switch {
	case errors.Is(err, apperrors.ErrPersistence):
		code := "STORAGE_ERROR"
		if errors.As(err, &appErr) && appErr.Code != "" {
			code = appErr.Code
		}
		return http.StatusInternalServerError, dto.ErrorDetail{Code: code, Message: "Failed to persist ledger state."}
	case errors.As(err, &authErr):
		detail := dto.ErrorDetail{AccountNumber: authErr.AccountNumber, Message: authErr.Error()}
		if authErr.Locked {
			detail.Code = "ACCOUNT_LOCKED"
			return http.StatusLocked, detail
		}
		remaining := authErr.RemainingAttempts
		detail.Code = "AUTHENTICATION_FAILED"
		detail.RemainingAttempts = &remaining
		return http.StatusUnauthorized, detail
	case errors.Is(err, apperrors.ErrAccountLocked):
		return http.StatusLocked, dto.ErrorDetail{Code: "ACCOUNT_LOCKED", Message: err.Error()}
	case errors.Is(err, apperrors.ErrAuthenticationFailed):
		return http.StatusUnauthorized, dto.ErrorDetail{Code: "AUTHENTICATION_FAILED", Message: err.Error()}
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, dto.ErrorDetail{Code: "NOT_FOUND", Message: err.Error()}
	case errors.As(err, &validationError):
		code := "VALIDATION_FAILED"
		if errors.Is(err, apperrors.ErrInvalidAmount) {
			code = "INVALID_AMOUNT"
		}
		return http.StatusBadRequest, dto.ErrorDetail{Code: code, Message: validationError.Message, Field: validationError.Field}
	case errors.Is(err, apperrors.ErrInvalidAmount):
		return http.StatusBadRequest, dto.ErrorDetail{Code: "INVALID_AMOUNT", Message: err.Error()}
	case errors.Is(err, apperrors.ErrUnsupportedAccountType):
		return http.StatusBadRequest, dto.ErrorDetail{Code: "UNSUPPORTED_ACCOUNT_TYPE", Message: err.Error()}
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, dto.ErrorDetail{Code: "INVALID_ARGUMENT", Message: err.Error()}
	case errors.Is(err, apperrors.ErrAlreadyExists):
		return http.StatusConflict, dto.ErrorDetail{Code: "ALREADY_EXISTS", Message: err.Error()}
	case errors.Is(err, apperrors.ErrCancelled):
		return http.StatusConflict, dto.ErrorDetail{Code: "CANCELLED", Message: err.Error()}
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, dto.ErrorDetail{Code: "INSUFFICIENT_FUNDS", Message: err.Error()}
	case errors.Is(err, apperrors.ErrOverdraftExceeded):
		return http.StatusUnprocessableEntity, dto.ErrorDetail{Code: "OVERDRAFT_EXCEEDED", Message: err.Error()}
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, dto.ErrorDetail{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	default:
		return http.StatusInternalServerError, dto.ErrorDetail{Code: "INTERNAL", Message: "An unexpected error occurred."}
	}
}

func respondError(w http.ResponseWriter, err error) {
	status, detail := errorStatus(err)
	if status == http.StatusInternalServerError {
		slog.Default().Error("Unhandled internal error", "error", err)
	}
	respondJSON(w, status, dto.ErrorResponse{Error: detail})
}

// logLevelFor keeps expected business rejections out of the error log.
func logLevelFor(err error) slog.Level {
	if status, _ := errorStatus(err); status >= http.StatusInternalServerError {
		return slog.LevelError
	}
	return slog.LevelWarn
}
