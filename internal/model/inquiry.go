package model

import "time"

// InquiryCategory classifies a contact-form submission.
type InquiryCategory string

const (
	CategoryGeneral     InquiryCategory = "general"
	CategoryService     InquiryCategory = "service"
	CategoryPartnership InquiryCategory = "partnership"
	CategorySupport     InquiryCategory = "support"
	CategoryOther       InquiryCategory = "other"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c InquiryCategory) bool {
	switch c {
	case CategoryGeneral, CategoryService, CategoryPartnership, CategorySupport, CategoryOther:
		return true
	}
	return false
}

// InquiryStatus is the admin-side handling state of an inquiry.
type InquiryStatus string

const (
	InquiryPending InquiryStatus = "pending"
	InquiryRead    InquiryStatus = "read"
	InquiryReplied InquiryStatus = "replied"
)

// Inquiry is a contact-form message. It is NOT owned by a user — anonymous
// visitors submit them. Content is immutable; only the status changes
// (pending → read on first admin view).
type Inquiry struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Subject   string          `json:"subject"`
	Message   string          `json:"message"`
	Category  InquiryCategory `json:"category"`
	Status    InquiryStatus   `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
