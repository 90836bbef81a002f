package enums

import "fmt"

// TenderApplicationStatus tracks admin review of a transport tender application.
type TenderApplicationStatus string

const (
	TenderApplicationStatusPending  TenderApplicationStatus = "pending"
	TenderApplicationStatusApproved TenderApplicationStatus = "approved"
	TenderApplicationStatusRejected TenderApplicationStatus = "rejected"
)

var validTenderApplicationStatuses = []TenderApplicationStatus{
	TenderApplicationStatusPending,
	TenderApplicationStatusApproved,
	TenderApplicationStatusRejected,
}

// IsValid reports whether the value is a known TenderApplicationStatus.
func (t TenderApplicationStatus) IsValid() bool {
	for _, candidate := range validTenderApplicationStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTenderApplicationStatus converts raw input into a TenderApplicationStatus.
func ParseTenderApplicationStatus(value string) (TenderApplicationStatus, error) {
	for _, candidate := range validTenderApplicationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tender application status %q", value)
}
