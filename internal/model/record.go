package model

import "time"

// ServiceType distinguishes the two mutually exclusive shapes of a
// contracted service.
type ServiceType string

const (
	ServiceGeneral      ServiceType = "general"
	ServiceSubscription ServiceType = "subscription"
)

// ServiceStatus is the progress state of a contracted service.
type ServiceStatus string

const (
	StatusProgress  ServiceStatus = "progress"
	StatusCompleted ServiceStatus = "completed"
)

// ServiceRecord is a purchased/contracted service owned by exactly one user.
//
// The subscription variant additionally carries SubscriptionType and
// ModificationMemo; those fields stay empty on general records.
type ServiceRecord struct {
	ID               string        `json:"id"`
	UserID           string        `json:"userId"`
	ServiceType      ServiceType   `json:"serviceType"`
	Status           ServiceStatus `json:"status"`
	ContractDate     time.Time     `json:"contractDate"`
	CompanyName      string        `json:"companyName"`
	ManagerName      string        `json:"managerName"`
	ProjectName      string        `json:"projectName"`
	TotalAmount      float64       `json:"totalAmount"` // non-negative, 0 when omitted
	ModificationList string        `json:"modificationList"`
	SubscriptionType string        `json:"subscriptionType,omitempty"`
	ModificationMemo string        `json:"modificationMemo,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// DCRecord tracks a referral/discount negotiation owned by exactly one user.
// The status fields are free-text — the admin console shows them verbatim.
type DCRecord struct {
	ID                     string    `json:"id"`
	UserID                 string    `json:"userId"`
	RecommendedCompanyName string    `json:"recommendedCompanyName"`
	ManagerName            string    `json:"managerName"`
	MeetingStatus          string    `json:"meetingStatus"`
	ContractStatus         string    `json:"contractStatus"`
	ContractName           string    `json:"contractName"`
	DiscountRate           float64   `json:"discountRate"`           // percentage
	CumulativeDiscountRate float64   `json:"cumulativeDiscountRate"` // percentage
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}
