package domain

// AuthResult is the uniform response envelope returned by every auth
// operation. Success=false implies Data is nil. Errors is populated only for
// structured creation failures; simple rejections carry a message alone.
type AuthResult struct {
	Success bool     `json:"success"`
	Data    any      `json:"data"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// OkResult builds a successful envelope with an optional payload.
func OkResult(data any, message string) AuthResult {
	return AuthResult{Success: true, Data: data, Message: message}
}

// FailResult builds a failed envelope carrying a message only.
func FailResult(message string) AuthResult {
	return AuthResult{Success: false, Message: message}
}

// FailResultWithErrors builds a failed envelope with structured error
// descriptions, used when the identity store rejects a creation.
func FailResultWithErrors(message string, errs []string) AuthResult {
	return AuthResult{Success: false, Message: message, Errors: errs}
}

// SessionCredential is the login payload: the authenticated username together
// with a freshly signed access token. Stateless; nothing is retained.
type SessionCredential struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}
