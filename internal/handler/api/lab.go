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
	"github.com/google/uuid"
)

// LabHandler serves the lab-operator surface: lab booking lists, status
// updates, result submission and report upload.
type LabHandler struct {
	bookingCommands commands.BookingCommands
	resultCommands  commands.ResultCommands
	queries         queries.BookingQueries
}

func NewLabHandler(
	bookingCommands commands.BookingCommands,
	resultCommands commands.ResultCommands,
	bookingQueries queries.BookingQueries,
) *LabHandler {
	return &LabHandler{
		bookingCommands: bookingCommands,
		resultCommands:  resultCommands,
		queries:         bookingQueries,
	}
}

func (h *LabHandler) ListLabBookings(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	labID, err := uuid.Parse(c.Param("labId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid lab ID format", nil)
		return
	}

	status, ok := parseStatusFilter(c)
	if !ok {
		return
	}

	paged, err := h.queries.ListForLab(c.Request.Context(), actor, labID, status, parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}

	httperr.OK(c, http.StatusOK, "", resdto.FromPagedBookings(paged))
}

func (h *LabHandler) UpdateStatus(c *gin.Context) {
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

	b, err := h.bookingCommands.UpdateStatus(c.Request.Context(), actor, id, booking.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	httperr.OK(c, http.StatusOK, "Booking status updated", resdto.FromBooking(b))
}

func (h *LabHandler) SubmitResults(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	var req reqdto.SubmitResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	b, err := h.resultCommands.SubmitResults(c.Request.Context(), actor, id, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}

	httperr.OK(c, http.StatusOK, "Results submitted successfully", resdto.FromBooking(b))
}

func (h *LabHandler) UploadReport(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("report")
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Report file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Failed to read report file", nil)
		return
	}
	defer file.Close()

	upload := commands.ReportUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	}

	b, err := h.resultCommands.UploadReport(c.Request.Context(), actor, id, upload)
	if err != nil {
		respondError(c, err)
		return
	}

	httperr.OK(c, http.StatusOK, "Report uploaded successfully", resdto.FromBooking(b))
}
