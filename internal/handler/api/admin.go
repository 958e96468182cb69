package api

import (
	"net/http"

	"lab-booking-api/internal/domain/booking"
	reqdto "lab-booking-api/internal/handler/dto/request"
	resdto "lab-booking-api/internal/handler/dto/response"
	"lab-booking-api/internal/handler/httperr"
	"lab-booking-api/internal/handler/middleware"
	"lab-booking-api/internal/usecase/commands"
	"lab-booking-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	commands commands.BookingCommands
	queries  queries.BookingQueries
}

func NewAdminHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *AdminHandler {
	return &AdminHandler{
		commands: bookingCommands,
		queries:  bookingQueries,
	}
}

func (h *AdminHandler) ListAll(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	status, ok := parseStatusFilter(c)
	if !ok {
		return
	}

	paged, err := h.queries.ListAll(c.Request.Context(), actor, status, parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}

	httperr.OK(c, http.StatusOK, "", resdto.FromPagedBookings(paged))
}

// OverrideStatus assigns any valid status outside the forward-only table.
// Terminal bookings still refuse to move.
func (h *AdminHandler) OverrideStatus(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	var req reqdto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	b, err := h.commands.AdminOverrideStatus(c.Request.Context(), actor, id, booking.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	httperr.OK(c, http.StatusOK, "Booking status updated", resdto.FromBooking(b))
}

func (h *AdminHandler) Delete(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	if err := h.commands.AdminDelete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}

	httperr.OK(c, http.StatusOK, "Booking deleted successfully", nil)
}
