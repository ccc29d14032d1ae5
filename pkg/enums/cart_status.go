package enums

import "fmt"

// CartStatus tracks the lifecycle of a cart record. Only active carts accept
// edits; a successful checkout marks the cart converted.
type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusConverted CartStatus = "converted"
	CartStatusAbandoned CartStatus = "abandoned"
)

var cartStatusSet = map[CartStatus]struct{}{
	CartStatusActive:    {},
	CartStatusConverted: {},
	CartStatusAbandoned: {},
}

func (c CartStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartStatus.
func (c CartStatus) IsValid() bool {
	_, ok := cartStatusSet[c]
	return ok
}

// ParseCartStatus converts raw input into a CartStatus.
func ParseCartStatus(value string) (CartStatus, error) {
	status := CartStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid cart status %q", value)
	}
	return status, nil
}
