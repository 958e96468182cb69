package errs

import "errors"

// Domain-specific sentinel errors for the usecase layers
var (
	// Catalog errors
	ErrLabNotFound         = errors.New("lab not found")
	ErrTestNotAvailable    = errors.New("test not available at this lab")
	ErrPackageNotAvailable = errors.New("package not available at this lab")
	ErrPriceMismatch       = errors.New("submitted price does not match catalog")

	// Booking errors
	ErrBookingNotFound      = errors.New("booking not found")
	ErrBookingInactive      = errors.New("booking is no longer active")
	ErrConcurrentUpdate     = errors.New("booking was modified concurrently")
	ErrResultsNotAcceptable = errors.New("booking does not accept results in its current status")
	ErrReportNotAcceptable  = errors.New("booking does not accept a report in its current status")
	ErrInvalidReportFile    = errors.New("report file type or size not allowed")

	// Payment errors
	ErrInvalidPaymentState = errors.New("payment operation not valid for booking state")
	ErrPaymentAlreadyDone  = errors.New("payment already processed")
	ErrInvalidSignature    = errors.New("payment signature verification failed")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")

	// Validation / operation errors
	ErrDomainValidation        = errors.New("domain validation error")
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
