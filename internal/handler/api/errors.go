package api

import (
	"errors"
	"net/http"

	"lab-booking-api/internal/domain/booking"
	"lab-booking-api/internal/handler/httperr"
	"lab-booking-api/internal/pkg/errs"
	"lab-booking-api/internal/usecase/authz"

	"github.com/gin-gonic/gin"
)

// respondError translates usecase and domain sentinels into the envelope.
// Anything unrecognized is an internal error with a sanitized message.
func respondError(c *gin.Context, err error) {
	var forbidden *authz.ForbiddenError
	if errors.As(err, &forbidden) {
		httperr.AbortWithError(c, http.StatusForbidden, err, forbidden.Reason, nil)
		return
	}

	switch {
	case errors.Is(err, errs.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errors.Is(err, errs.ErrLabNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Lab not found", nil)

	case errors.Is(err, errs.ErrTestNotAvailable):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Selected test is not available at this lab", nil)
	case errors.Is(err, errs.ErrPackageNotAvailable):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Selected package is not available at this lab", nil)
	case errors.Is(err, errs.ErrPriceMismatch):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Item price does not match the lab catalog", nil)
	case errors.Is(err, errs.ErrBookingInactive):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Booking is no longer active", nil)

	case errors.Is(err, booking.ErrCancellationTooLate):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Bookings can only be cancelled at least 24 hours before the appointment", nil)
	case errors.Is(err, booking.ErrNotCancellable):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Booking can no longer be cancelled", nil)
	case errors.Is(err, booking.ErrNotReschedulable):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Booking can no longer be rescheduled", nil)
	case errors.Is(err, booking.ErrNotEditable):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Booking can no longer be modified", nil)
	case errors.Is(err, booking.ErrStatusNotAssignable):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Requested status is not assignable", nil)
	case errors.Is(err, booking.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Status transition not allowed", nil)
	case errors.Is(err, booking.ErrInvalidStatus):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown booking status", nil)
	case errors.Is(err, booking.ErrResultsNotAccepted):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Booking does not accept results in its current status", nil)
	case errors.Is(err, booking.ErrPaymentMethodMismatch):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Operation not valid for this payment method", nil)
	case errors.Is(err, booking.ErrPaymentCompleted), errors.Is(err, errs.ErrPaymentAlreadyDone):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Payment has already been processed", nil)
	case errors.Is(err, booking.ErrOrderMismatch):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Payment order does not belong to this booking", nil)

	case errors.Is(err, errs.ErrResultsNotAcceptable):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Booking does not accept results in its current status", nil)
	case errors.Is(err, errs.ErrReportNotAcceptable):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Booking does not accept a report in its current status", nil)
	case errors.Is(err, errs.ErrInvalidReportFile):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Report must be a PDF, JPEG or PNG file up to 10MB", nil)

	case errors.Is(err, errs.ErrInvalidPaymentState):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Payment operation not valid for this booking", nil)
	case errors.Is(err, errs.ErrInvalidSignature):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Payment signature verification failed", nil)
	case errors.Is(err, errs.ErrConcurrentUpdate):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Booking was modified by another request, please retry", nil)
	case errors.Is(err, errs.ErrGatewayUnavailable):
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Payment gateway is unavailable", nil)

	case errors.Is(err, errs.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Validation failed", []string{rootMessage(err)})

	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

// rootMessage digs for the innermost cause so validation responses carry the
// specific field message instead of the wrap chain.
func rootMessage(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}

func bindError(c *gin.Context, err error) {
	httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", []string{err.Error()})
}

func internalError(c *gin.Context) {
	httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing authenticated context"), "Internal server error", nil)
}
