package enums

import "fmt"

// PaymentMethod is the top-level choice made at checkout. Cash is settled
// with the courier on delivery; every other detail settles out of band.
type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodOther PaymentMethod = "other"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodOther,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
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

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

// PaymentDetail refines the "other" payment method.
type PaymentDetail string

const (
	PaymentDetailBankDeposit  PaymentDetail = "bank_deposit"
	PaymentDetailBankTransfer PaymentDetail = "bank_transfer"
	PaymentDetailCreditCard   PaymentDetail = "credit_card"
	PaymentDetailPix          PaymentDetail = "pix"
)

var validPaymentDetails = []PaymentDetail{
	PaymentDetailBankDeposit,
	PaymentDetailBankTransfer,
	PaymentDetailCreditCard,
	PaymentDetailPix,
}

// String implements fmt.Stringer.
func (p PaymentDetail) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentDetail.
func (p PaymentDetail) IsValid() bool {
	for _, candidate := range validPaymentDetails {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentDetail converts raw input into a PaymentDetail.
func ParsePaymentDetail(value string) (PaymentDetail, error) {
	for _, candidate := range validPaymentDetails {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment detail %q", value)
}
