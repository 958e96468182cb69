package response

import (
	"time"

	"lab-booking-api/internal/domain/booking"
	"lab-booking-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type LineItemResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price int64     `json:"price"`
}

type ResultEntryResponse struct {
	Label          string `json:"label"`
	Value          string `json:"value"`
	Unit           string `json:"unit,omitempty"`
	ReferenceRange string `json:"referenceRange,omitempty"`
	Type           string `json:"type,omitempty"`
	Required       bool   `json:"required,omitempty"`
}

type ResultSetResponse struct {
	TestID      uuid.UUID             `json:"testId"`
	Entries     []ResultEntryResponse `json:"entries"`
	SubmittedBy uuid.UUID             `json:"submittedBy"`
	SubmittedAt time.Time             `json:"submittedAt"`
}

type BookingResponse struct {
	ID               uuid.UUID           `json:"id"`
	UserID           uuid.UUID           `json:"userId"`
	UserEmail        string              `json:"userEmail,omitempty"`
	LabID            uuid.UUID           `json:"labId"`
	LabName          string              `json:"labName,omitempty"`
	SelectedTests    []LineItemResponse  `json:"selectedTests"`
	SelectedPackages []LineItemResponse  `json:"selectedPackages"`
	AppointmentDate  time.Time           `json:"appointmentDate"`
	AppointmentTime  string              `json:"appointmentTime"`
	PaymentMethod    string              `json:"paymentMethod"`
	PaymentStatus    string              `json:"paymentStatus"`
	OrderID          *string             `json:"orderId,omitempty"`
	PaymentID        *string             `json:"paymentId,omitempty"`
	PaidAmount       int64               `json:"paidAmount"`
	PaymentDate      *time.Time          `json:"paymentDate,omitempty"`
	TotalAmount      int64               `json:"totalAmount"`
	Status           string              `json:"status"`
	TestResults      []ResultSetResponse `json:"testResults,omitempty"`
	ReportFile       *string             `json:"reportFile,omitempty"`
	ReportUploadDate *time.Time          `json:"reportUploadDate,omitempty"`
	Notes            string              `json:"notes,omitempty"`
	UserLocation     string              `json:"userLocation,omitempty"`
	IsActive         bool                `json:"isActive"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

type BookingListItemResponse struct {
	ID              uuid.UUID `json:"id"`
	LabID           uuid.UUID `json:"labId"`
	LabName         string    `json:"labName"`
	AppointmentDate time.Time `json:"appointmentDate"`
	AppointmentTime string    `json:"appointmentTime"`
	Status          string    `json:"status"`
	PaymentMethod   string    `json:"paymentMethod"`
	PaymentStatus   string    `json:"paymentStatus"`
	TotalAmount     int64     `json:"totalAmount"`
	CreatedAt       time.Time `json:"createdAt"`
}

type PagedBookingsResponse struct {
	Items []*BookingListItemResponse `json:"items"`
	Total int64                      `json:"total"`
	Page  int                        `json:"page"`
	Limit int                        `json:"limit"`
}

// FromBooking maps the aggregate straight after a command; the read-side join
// fields (userEmail, labName) stay empty.
func FromBooking(b *booking.Booking) *BookingResponse {
	return &BookingResponse{
		ID:               b.ID(),
		UserID:           b.UserID(),
		LabID:            b.LabID(),
		SelectedTests:    lineItemsFromDomain(b.Tests()),
		SelectedPackages: lineItemsFromDomain(b.Packages()),
		AppointmentDate:  b.Schedule().Date(),
		AppointmentTime:  b.Schedule().TimeOfDay(),
		PaymentMethod:    b.PaymentMethod().String(),
		PaymentStatus:    b.PaymentStatus().String(),
		OrderID:          b.OrderID(),
		PaymentID:        b.PaymentID(),
		PaidAmount:       b.PaidAmount().Amount(),
		PaymentDate:      b.PaymentDate(),
		TotalAmount:      b.TotalAmount().Amount(),
		Status:           b.Status().String(),
		TestResults:      resultSetsFromDomain(b.Results()),
		ReportFile:       b.ReportFile(),
		ReportUploadDate: b.ReportUploadedAt(),
		Notes:            b.Notes(),
		UserLocation:     b.UserLocation(),
		IsActive:         b.IsActive(),
		CreatedAt:        b.CreatedAt(),
		UpdatedAt:        b.UpdatedAt(),
	}
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:               view.ID,
		UserID:           view.UserID,
		UserEmail:        view.UserEmail,
		LabID:            view.LabID,
		LabName:          view.LabName,
		SelectedTests:    lineItemsFromView(view.SelectedTests),
		SelectedPackages: lineItemsFromView(view.SelectedPackages),
		AppointmentDate:  view.AppointmentDate,
		AppointmentTime:  view.AppointmentTime,
		PaymentMethod:    view.PaymentMethod,
		PaymentStatus:    view.PaymentStatus,
		OrderID:          view.OrderID,
		PaymentID:        view.PaymentID,
		PaidAmount:       view.PaidAmount,
		PaymentDate:      view.PaymentDate,
		TotalAmount:      view.TotalAmount,
		Status:           view.Status,
		TestResults:      resultSetsFromView(view.TestResults),
		ReportFile:       view.ReportFile,
		ReportUploadDate: view.ReportUploadDate,
		Notes:            view.Notes,
		UserLocation:     view.UserLocation,
		IsActive:         view.IsActive,
		CreatedAt:        view.CreatedAt,
		UpdatedAt:        view.UpdatedAt,
	}
}

func FromPagedBookings(paged *queries.PagedBookings) *PagedBookingsResponse {
	items := make([]*BookingListItemResponse, len(paged.Items))
	for i, item := range paged.Items {
		items[i] = &BookingListItemResponse{
			ID:              item.ID,
			LabID:           item.LabID,
			LabName:         item.LabName,
			AppointmentDate: item.AppointmentDate,
			AppointmentTime: item.AppointmentTime,
			Status:          item.Status,
			PaymentMethod:   item.PaymentMethod,
			PaymentStatus:   item.PaymentStatus,
			TotalAmount:     item.TotalAmount,
			CreatedAt:       item.CreatedAt,
		}
	}
	return &PagedBookingsResponse{
		Items: items,
		Total: paged.Total,
		Page:  paged.Page,
		Limit: paged.Limit,
	}
}

func lineItemsFromDomain(items []booking.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, item := range items {
		out[i] = LineItemResponse{ID: item.ID(), Name: item.Name(), Price: item.Price().Amount()}
	}
	return out
}

func lineItemsFromView(items []queries.LineItemView) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, item := range items {
		out[i] = LineItemResponse{ID: item.ID, Name: item.Name, Price: item.Price}
	}
	return out
}

func resultSetsFromDomain(sets map[uuid.UUID]booking.ResultSet) []ResultSetResponse {
	out := make([]ResultSetResponse, 0, len(sets))
	for _, set := range sets {
		entries := make([]ResultEntryResponse, len(set.Entries()))
		for i, e := range set.Entries() {
			entries[i] = ResultEntryResponse(e)
		}
		out = append(out, ResultSetResponse{
			TestID:      set.TestID(),
			Entries:     entries,
			SubmittedBy: set.SubmittedBy(),
			SubmittedAt: set.SubmittedAt(),
		})
	}
	return out
}

func resultSetsFromView(sets []queries.ResultSetView) []ResultSetResponse {
	out := make([]ResultSetResponse, len(sets))
	for i, set := range sets {
		entries := make([]ResultEntryResponse, len(set.Entries))
		for j, e := range set.Entries {
			entries[j] = ResultEntryResponse(e)
		}
		out[i] = ResultSetResponse{
			TestID:      set.TestID,
			Entries:     entries,
			SubmittedBy: set.SubmittedBy,
			SubmittedAt: set.SubmittedAt,
		}
	}
	return out
}
