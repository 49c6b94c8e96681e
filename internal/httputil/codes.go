package httputil

// Machine-readable error codes returned alongside error messages.
const (
	CodeInvalidRequestBody  = "invalid_request_body"
	CodeMalformedVersion    = "malformed_client_version"
	CodeVersionTooOld       = "client_version_too_old"
	CodeInvalidRecoveryCode = "invalid_recovery_code"
	CodeInvalidPassword     = "invalid_password_length"
	CodeProfileNotFound     = "profile_not_found"
	CodeInvalidCredentials  = "invalid_credentials"
	CodeOldPasswordMismatch = "old_password_mismatch"
	CodeInvalidLanguage     = "invalid_language"
	CodeInvalidAuthHeader   = "invalid_auth_header"
	CodeMissingAuth         = "missing_auth"
	CodeInvalidToken        = "invalid_token"
	CodeTokenExpired        = "token_expired"
	CodeStoreUnavailable    = "store_unavailable"
	CodeInternalError       = "internal_error"
)
