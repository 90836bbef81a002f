package enums

import "fmt"

// PaymentStage distinguishes the two installments a buyer pays per order.
type PaymentStage string

const (
	PaymentStageAdvance PaymentStage = "advance"
	PaymentStageFinal   PaymentStage = "final"
)

var validPaymentStages = []PaymentStage{
	PaymentStageAdvance,
	PaymentStageFinal,
}

// IsValid reports whether the value is a known PaymentStage.
func (p PaymentStage) IsValid() bool {
	for _, candidate := range validPaymentStages {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStage converts raw input into a PaymentStage.
func ParsePaymentStage(value string) (PaymentStage, error) {
	for _, candidate := range validPaymentStages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment stage %q", value)
}

// PaymentStatus mirrors the gateway's payment lifecycle.
type PaymentStatus string

const (
	PaymentStatusCreated    PaymentStatus = "created"
	PaymentStatusAuthorized PaymentStatus = "authorized"
	PaymentStatusCaptured   PaymentStatus = "captured"
	PaymentStatusRefunded   PaymentStatus = "refunded"
	PaymentStatusFailed     PaymentStatus = "failed"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusCreated,
	PaymentStatusAuthorized,
	PaymentStatusCaptured,
	PaymentStatusRefunded,
	PaymentStatusFailed,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}

// PaymentMethod is the instrument reported back by the gateway.
type PaymentMethod string

const (
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodNetbanking PaymentMethod = "netbanking"
	PaymentMethodWallet     PaymentMethod = "wallet"
	PaymentMethodEMI        PaymentMethod = "emi"
	PaymentMethodUPI        PaymentMethod = "upi"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodNetbanking,
	PaymentMethodWallet,
	PaymentMethodEMI,
	PaymentMethodUPI,
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}
