package request

import (
	"time"

	"lab-booking-api/internal/domain/booking"
	"lab-booking-api/internal/usecase/commands"

	"github.com/google/uuid"
)

type SelectedTest struct {
	TestID   uuid.UUID `json:"testId" binding:"required"`
	TestName string    `json:"testName"`
	Price    int64     `json:"price"`
}

type SelectedPackage struct {
	PackageID   uuid.UUID `json:"packageId" binding:"required"`
	PackageName string    `json:"packageName"`
	Price       int64     `json:"price"`
}

type CreateBookingRequest struct {
	LabID            uuid.UUID         `json:"labId" binding:"required"`
	SelectedTests    []SelectedTest    `json:"selectedTests"`
	SelectedPackages []SelectedPackage `json:"selectedPackages"`
	AppointmentDate  time.Time         `json:"appointmentDate" binding:"required"`
	AppointmentTime  string            `json:"appointmentTime" binding:"required"`
	PaymentMethod    string            `json:"paymentMethod" binding:"required,oneof=pay_now pay_later"`
	Notes            string            `json:"notes"`
	UserLocation     string            `json:"userLocation"`
}

func (r CreateBookingRequest) ToInput() commands.CreateBookingInput {
	tests := make([]commands.SelectedTestInput, len(r.SelectedTests))
	for i, t := range r.SelectedTests {
		tests[i] = commands.SelectedTestInput{TestID: t.TestID, Name: t.TestName, Price: t.Price}
	}
	packages := make([]commands.SelectedPackageInput, len(r.SelectedPackages))
	for i, p := range r.SelectedPackages {
		packages[i] = commands.SelectedPackageInput{PackageID: p.PackageID, Name: p.PackageName, Price: p.Price}
	}

	return commands.CreateBookingInput{
		LabID:            r.LabID,
		SelectedTests:    tests,
		SelectedPackages: packages,
		AppointmentDate:  r.AppointmentDate,
		AppointmentTime:  r.AppointmentTime,
		PaymentMethod:    booking.PaymentMethod(r.PaymentMethod),
		Notes:            r.Notes,
		UserLocation:     r.UserLocation,
	}
}

type UpdateBookingRequest struct {
	AppointmentDate *time.Time `json:"appointmentDate"`
	AppointmentTime *string    `json:"appointmentTime"`
	Notes           *string    `json:"notes"`
}

func (r UpdateBookingRequest) ToInput() commands.UpdateBookingInput {
	return commands.UpdateBookingInput{
		AppointmentDate: r.AppointmentDate,
		AppointmentTime: r.AppointmentTime,
		Notes:           r.Notes,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
