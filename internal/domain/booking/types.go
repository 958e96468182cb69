package booking

type Status string

const (
	StatusPending         Status = "pending"
	StatusConfirmed       Status = "confirmed"
	StatusInProgress      Status = "in_progress"
	StatusSampleCollected Status = "sample_collected"
	StatusReportUploaded  Status = "report_uploaded"
	StatusResultPublished Status = "result_published"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusSampleCollected,
		StatusReportUploaded, StatusResultPublished, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// transitions is the single source of truth for the booking lifecycle. Every
// status mutation outside the admin override path is validated against it.
var transitions = map[Status][]Status{
	StatusPending:         {StatusConfirmed, StatusCancelled},
	StatusConfirmed:       {StatusSampleCollected, StatusInProgress, StatusResultPublished, StatusCancelled},
	StatusInProgress:      {StatusSampleCollected, StatusResultPublished},
	StatusSampleCollected: {StatusReportUploaded, StatusResultPublished},
	StatusReportUploaded:  {StatusResultPublished, StatusCompleted},
	StatusResultPublished: {StatusCompleted},
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// StaffAssignable reports whether the status is a legal target for the staff
// status-update operation. completed and cancelled are deliberately excluded;
// they are reserved for the payment, override, and cancellation flows.
func (s Status) StaffAssignable() bool {
	switch s {
	case StatusConfirmed, StatusSampleCollected, StatusResultPublished:
		return true
	default:
		return false
	}
}

// AcceptsResults reports whether clinical results or a report may be attached.
func (s Status) AcceptsResults() bool {
	return s == StatusConfirmed || s == StatusSampleCollected
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (p PaymentStatus) String() string {
	return string(p)
}

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	default:
		return false
	}
}

type PaymentMethod string

const (
	PayNow   PaymentMethod = "pay_now"
	PayLater PaymentMethod = "pay_later"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) IsValid() bool {
	return m == PayNow || m == PayLater
}
