package enums

import "fmt"

// ContractStatus tracks the lifecycle of a contract between buyer and seller.
type ContractStatus string

const (
	ContractStatusPending  ContractStatus = "PENDING"
	ContractStatusApproved ContractStatus = "APPROVED"
	ContractStatusRejected ContractStatus = "REJECTED"
)

var validContractStatuses = []ContractStatus{
	ContractStatusPending,
	ContractStatusApproved,
	ContractStatusRejected,
}

// String implements fmt.Stringer.
func (c ContractStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContractStatus.
func (c ContractStatus) IsValid() bool {
	for _, candidate := range validContractStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContractStatus converts raw input into a ContractStatus.
func ParseContractStatus(value string) (ContractStatus, error) {
	for _, candidate := range validContractStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contract status %q", value)
}
