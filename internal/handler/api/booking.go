package api

import (
	"errors"
	"net/http"
	"strconv"

	"lab-booking-api/internal/domain/booking"
	reqdto "lab-booking-api/internal/handler/dto/request"
	resdto "lab-booking-api/internal/handler/dto/response"
	"lab-booking-api/internal/handler/httperr"
	"lab-booking-api/internal/handler/middleware"
	"lab-booking-api/internal/usecase/commands"
	"lab-booking-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	commands commands.BookingCommands
	queries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		commands: bookingCommands,
		queries:  bookingQueries,
	}
}

func (h *BookingHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	b, err := h.commands.Create(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}

	httperr.OK(c, http.StatusCreated, "Booking created successfully", resdto.FromBooking(b))
}

func (h *BookingHandler) List(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	status, ok := parseStatusFilter(c)
	if !ok {
		return
	}

	paged, err := h.queries.ListForUser(c.Request.Context(), actor.ID, status, parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}

	httperr.OK(c, http.StatusOK, "", resdto.FromPagedBookings(paged))
}

func (h *BookingHandler) Get(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	httperr.OK(c, http.StatusOK, "", resdto.FromBookingView(view))
}

func (h *BookingHandler) Update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	var req reqdto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	b, err := h.commands.Update(c.Request.Context(), actor, id, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}

	httperr.OK(c, http.StatusOK, "Booking updated successfully", resdto.FromBooking(b))
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	b, err := h.commands.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	httperr.OK(c, http.StatusOK, "Booking cancelled successfully", resdto.FromBooking(b))
}

func parseBookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}

func parsePage(c *gin.Context) queries.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return queries.NewPage(page, limit)
}

var errInvalidStatusFilter = errors.New("invalid status filter")

func parseStatusFilter(c *gin.Context) (*booking.Status, bool) {
	raw := c.Query("status")
	if raw == "" {
		return nil, true
	}
	status := booking.Status(raw)
	if !status.IsValid() {
		httperr.AbortWithError(c, http.StatusBadRequest, errInvalidStatusFilter, "Unknown booking status", nil)
		return nil, false
	}
	return &status, true
}
