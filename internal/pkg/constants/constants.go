package constants

import "net/http"

const (
	CookieKeyAuthToken = "auth_token"
	CtxKeyUserID       = "user_id"
	CtxKeyUserEmail    = "user_email"

	ViperKeyListenAddr      = "listen_addr"
	ViperKeyMasterFileURL   = "data.master_url"
	ViperKeyStagingFileURL  = "data.staging_url"
	ViperKeyCatalogURL      = "data.catalog_url"
	ViperKeyLocalStorePath  = "local_store_path"
	ViperSecretKey          = "auth_secret"
	ViperKeySubmitDelayMS   = "reports.submit_delay_ms"
	ViperKeyAllowedOrigins  = "cors.allowed_origins"
)

// CodedError carries an http status code up to the central error handler.
type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string { return e.msg }

func (e *CodedError) Code() int { return e.code }

var (
	ErrDBNotFound       = NewCodedError("not found", http.StatusNotFound)
	ErrUnauthorized     = NewCodedError("unauthorized", http.StatusUnauthorized)
	ErrMissingAuthToken = NewCodedError("missing auth token", http.StatusUnauthorized)
	ErrSessionNotReady  = NewCodedError("analytical session is not ready", http.StatusServiceUnavailable)
	ErrNoSelection      = NewCodedError("nothing selected", http.StatusBadRequest)
	ErrAlreadyVoted     = NewCodedError("already voted for this report", http.StatusConflict)
)
