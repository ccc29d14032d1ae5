package types

// Address is the JSON value shape stored on accounts and snapshotted onto
// orders. Street/neighborhood/city/state come back from the postal lookup;
// number and complement are always user supplied.
type Address struct {
	PostalCode   string `json:"postal_code"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
}
