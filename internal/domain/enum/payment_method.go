package enum

import "fmt"

// PaymentMethod is how the customer settled the bill
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodQRIS     PaymentMethod = "qris"
)

// PaymentMethods lists every accepted method
var PaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodTransfer,
	PaymentMethodCard,
	PaymentMethodQRIS,
}

func (m PaymentMethod) IsValid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

func ParsePaymentMethod(str string) (PaymentMethod, error) {
	m := PaymentMethod(str)
	if !m.IsValid() {
		return "", fmt.Errorf("unknown payment method %q", str)
	}
	return m, nil
}
