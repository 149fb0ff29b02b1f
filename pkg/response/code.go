package response

// Business status codes.
const (
	CodeSuccess = 0
	CodeError   = 1

	// Auth errors 100xx
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005

	// Order errors 300xx
	ErrOrderNotFound      = 30001
	ErrEmptyOrder         = 30002
	ErrMissingShipping    = 30003
	ErrInsufficientStock  = 30004
	ErrProductUnavailable = 30005
	ErrInvalidTransition  = 30006
	ErrInvalidVoucher     = 30007

	// Payment errors 400xx
	ErrWebhookRejected = 40001

	// System errors 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
