//go:build unit || e2e

package builder

import (
	"time"

	dombooking "lab-booking-api/internal/domain/booking"
	reqdto "lab-booking-api/internal/handler/dto/request"
	"lab-booking-api/internal/pkg/clock"
	"lab-booking-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	UserID          uuid.UUID
	LabID           uuid.UUID
	LabName         string
	TestID          uuid.UUID
	TestName        string
	TestPrice       int64
	PackageID       uuid.UUID
	PackageName     string
	PackagePrice    int64
	AppointmentDate time.Time
	AppointmentTime string
	PaymentMethod   dombooking.PaymentMethod
	OrderID         *string
	Notes           string
	UserLocation    string
	Now             time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		UserID:          uuid.New(),
		LabID:           uuid.New(),
		LabName:         "City Diagnostics",
		TestID:          uuid.New(),
		TestName:        "Complete Blood Count",
		TestPrice:       450,
		PackageID:       uuid.New(),
		PackageName:     "Full Body Checkup",
		PackagePrice:    1999,
		AppointmentDate: now.Add(48 * time.Hour),
		AppointmentTime: "09:30 AM",
		PaymentMethod:   dombooking.PayNow,
		Notes:           "fasting sample",
		UserLocation:    "sector 5",
		Now:             now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) LineItems() ([]dombooking.LineItem, []dombooking.LineItem) {
	var tests, packages []dombooking.LineItem
	if b.TestID != uuid.Nil {
		price, _ := dombooking.NewMoney(b.TestPrice)
		item, _ := dombooking.NewLineItem(b.TestID, b.TestName, price)
		tests = append(tests, item)
	}
	if b.PackageID != uuid.Nil {
		price, _ := dombooking.NewMoney(b.PackagePrice)
		item, _ := dombooking.NewLineItem(b.PackageID, b.PackageName, price)
		packages = append(packages, item)
	}
	return tests, packages
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	tests, packages := b.LineItems()
	schedule, err := dombooking.NewSchedule(b.AppointmentDate, b.AppointmentTime)
	if err != nil {
		return nil, err
	}
	services := &dombooking.Services{Clock: clock.NewMockClock(b.Now)}
	return dombooking.NewBooking(services, b.UserID, b.LabID, tests, packages, schedule, b.PaymentMethod, b.Notes, b.UserLocation)
}

// BuildReconstructed rehydrates a booking in an arbitrary lifecycle state, the
// way the write repository does when loading a stored row.
func (b *BookingBuilder) BuildReconstructed(status dombooking.Status, payStatus dombooking.PaymentStatus) *dombooking.Booking {
	tests, packages := b.LineItems()
	schedule := dombooking.ReconstructSchedule(b.AppointmentDate, b.AppointmentTime)
	return dombooking.ReconstructBooking(
		uuid.New(), b.UserID, b.LabID,
		tests, packages,
		schedule,
		b.PaymentMethod, payStatus,
		b.OrderID, nil, nil,
		dombooking.ReconstructMoney(0), nil,
		status,
		nil,
		nil, nil,
		b.Notes, b.UserLocation,
		true,
		b.Now, b.Now,
	)
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		LabID: b.LabID,
		SelectedTests: []reqdto.SelectedTest{
			{TestID: b.TestID, TestName: b.TestName, Price: b.TestPrice},
		},
		SelectedPackages: []reqdto.SelectedPackage{
			{PackageID: b.PackageID, PackageName: b.PackageName, Price: b.PackagePrice},
		},
		AppointmentDate: b.AppointmentDate,
		AppointmentTime: b.AppointmentTime,
		PaymentMethod:   b.PaymentMethod.String(),
		Notes:           b.Notes,
		UserLocation:    b.UserLocation,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:      uuid.New(),
		UserID:  b.UserID,
		LabID:   b.LabID,
		LabName: b.LabName,
		SelectedTests: []queries.LineItemView{
			{ID: b.TestID, Name: b.TestName, Price: b.TestPrice},
		},
		SelectedPackages: []queries.LineItemView{
			{ID: b.PackageID, Name: b.PackageName, Price: b.PackagePrice},
		},
		AppointmentDate: b.AppointmentDate,
		AppointmentTime: b.AppointmentTime,
		PaymentMethod:   b.PaymentMethod.String(),
		PaymentStatus:   dombooking.PaymentPending.String(),
		TotalAmount:     b.TestPrice + b.PackagePrice,
		Status:          dombooking.StatusPending.String(),
		IsActive:        true,
		CreatedAt:       b.Now,
		UpdatedAt:       b.Now,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:              uuid.New(),
		LabID:           b.LabID,
		LabName:         b.LabName,
		AppointmentDate: b.AppointmentDate,
		AppointmentTime: b.AppointmentTime,
		Status:          dombooking.StatusPending.String(),
		PaymentMethod:   b.PaymentMethod.String(),
		PaymentStatus:   dombooking.PaymentPending.String(),
		TotalAmount:     b.TestPrice + b.PackagePrice,
		CreatedAt:       b.Now,
	}
}
