package dto

type ErrorDetail struct {
	Code              string `json:"code,omitempty"`
	Message           string `json:"message"`
	Field             string `json:"field,omitempty"`
	AccountNumber     string `json:"accountNumber,omitempty"`
	RemainingAttempts *int   `json:"remainingAttempts,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}
