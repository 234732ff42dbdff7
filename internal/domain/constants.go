package domain

const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"
)

const (
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
)

const (
	PurchaseTypeSingleCourse = "single_course"
	PurchaseTypeBundle       = "bundle"
)

const (
	EnrollmentStatusActive = "active"
)

const (
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

const ProviderStripe = "stripe"

const DefaultCurrency = "usd"
