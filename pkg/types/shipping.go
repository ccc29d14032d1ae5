package types

// ShippingLine snapshots the quote the buyer accepted at checkout.
type ShippingLine struct {
	Carrier       string `json:"carrier"`
	Service       string `json:"service"`
	FeeCents      int    `json:"fee_cents"`
	EstimatedDays int    `json:"estimated_days,omitempty"`
}
