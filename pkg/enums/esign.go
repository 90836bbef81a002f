package enums

import "fmt"

// SignerParty identifies which side of a contract an e-sign session covers.
type SignerParty string

const (
	SignerPartyBuyer  SignerParty = "buyer"
	SignerPartySeller SignerParty = "seller"
)

// IsValid reports whether the value is a known SignerParty.
func (s SignerParty) IsValid() bool {
	return s == SignerPartyBuyer || s == SignerPartySeller
}

// ParseSignerParty converts raw input into a SignerParty.
func ParseSignerParty(value string) (SignerParty, error) {
	switch SignerParty(value) {
	case SignerPartyBuyer:
		return SignerPartyBuyer, nil
	case SignerPartySeller:
		return SignerPartySeller, nil
	}
	return "", fmt.Errorf("invalid signer party %q", value)
}

// EsignStatus is the provider-reported state of a signature session.
type EsignStatus string

const (
	EsignStatusPending   EsignStatus = "pending"
	EsignStatusInitiated EsignStatus = "initiated"
	EsignStatusSuccess   EsignStatus = "SUCCESS"
	EsignStatusFailed    EsignStatus = "FAILED"
	EsignStatusExpired   EsignStatus = "EXPIRED"
)

// Signed reports whether the session reached a successfully-signed state.
func (e EsignStatus) Signed() bool {
	return e == EsignStatusSuccess
}
