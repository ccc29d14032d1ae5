package checkout

import (
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

// PaymentInput is the raw payment choice submitted at checkout.
type PaymentInput struct {
	Method          string  `json:"method"`
	Detail          *string `json:"detail,omitempty"`
	CashInHandCents *int    `json:"cash_in_hand_cents,omitempty"`
}

// PaymentSelection is the validated payment outcome recorded on the order.
type PaymentSelection struct {
	Method          enums.PaymentMethod
	Detail          *enums.PaymentDetail
	CashInHandCents *int
	ChangeDueCents  *int
}

// SelectPayment validates the payment choice against the order total. Cash
// must cover the total and yields the change due; any other method must name
// a settlement detail and carries no cash fields.
func SelectPayment(input PaymentInput, totalCents int) (*PaymentSelection, error) {
	method, err := enums.ParsePaymentMethod(input.Method)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	switch method {
	case enums.PaymentMethodCash:
		if input.Detail != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cash payments do not take a detail")
		}
		if input.CashInHandCents == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cash in hand is required for cash payments")
		}
		cash := *input.CashInHandCents
		if cash < totalCents {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cash in hand is below the order total")
		}
		change := cash - totalCents
		return &PaymentSelection{
			Method:          method,
			CashInHandCents: &cash,
			ChangeDueCents:  &change,
		}, nil

	case enums.PaymentMethodOther:
		if input.CashInHandCents != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cash in hand only applies to cash payments")
		}
		if input.Detail == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment detail is required")
		}
		detail, err := enums.ParsePaymentDetail(*input.Detail)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment detail")
		}
		return &PaymentSelection{
			Method: method,
			Detail: &detail,
		}, nil

	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
}
