package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type LineItemView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price int64     `json:"price"`
}

type ResultEntryView struct {
	Label          string `json:"label"`
	Value          string `json:"value"`
	Unit           string `json:"unit,omitempty"`
	ReferenceRange string `json:"referenceRange,omitempty"`
	Type           string `json:"type,omitempty"`
	Required       bool   `json:"required,omitempty"`
}

type ResultSetView struct {
	TestID      uuid.UUID         `json:"testId"`
	Entries     []ResultEntryView `json:"entries"`
	SubmittedBy uuid.UUID         `json:"submittedBy"`
	SubmittedAt time.Time         `json:"submittedAt"`
}

type BookingView struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"userId"`
	UserEmail        string          `json:"userEmail"`
	LabID            uuid.UUID       `json:"labId"`
	LabName          string          `json:"labName"`
	SelectedTests    []LineItemView  `json:"selectedTests"`
	SelectedPackages []LineItemView  `json:"selectedPackages"`
	AppointmentDate  time.Time       `json:"appointmentDate"`
	AppointmentTime  string          `json:"appointmentTime"`
	PaymentMethod    string          `json:"paymentMethod"`
	PaymentStatus    string          `json:"paymentStatus"`
	OrderID          *string         `json:"orderId,omitempty"`
	PaymentID        *string         `json:"paymentId,omitempty"`
	PaidAmount       int64           `json:"paidAmount"`
	PaymentDate      *time.Time      `json:"paymentDate,omitempty"`
	TotalAmount      int64           `json:"totalAmount"`
	Status           string          `json:"status"`
	TestResults      []ResultSetView `json:"testResults,omitempty"`
	ReportFile       *string         `json:"reportFile,omitempty"`
	ReportUploadDate *time.Time      `json:"reportUploadDate,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	UserLocation     string          `json:"userLocation,omitempty"`
	IsActive         bool            `json:"isActive"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type BookingListItem struct {
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

// Page is the offset pagination the external contract fixes (?page=&limit=).
type Page struct {
	Number int
	Limit  int
}

func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

type PagedBookings struct {
	Items []*BookingListItem `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
