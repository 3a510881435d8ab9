package models

// Bill statuses.
const (
	BillStatusUnpaid = "unpaid"
	BillStatusPaid   = "paid"
)

// Bill represents an amount a tenant owes.
// Status is the only field that changes in normal flow (unpaid -> paid).
type Bill struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	// Type is the kind of charge, e.g. "Rent", "Water", "Electricity".
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
	Status string  `json:"status"`

	// DueDate is an RFC 3339 date-time string. Lexical order matches
	// chronological order for the UTC values the app writes.
	DueDate string `json:"dueDate"`
}

func (b Bill) RecordID() string { return b.ID }
func (b Bill) OwnerID() string  { return b.UserID }

func (b Bill) IsPaid() bool   { return equalFold(b.Status, BillStatusPaid) }
func (b Bill) IsUnpaid() bool { return equalFold(b.Status, BillStatusUnpaid) }

// TotalUnpaid sums the amounts of all unpaid bills.
func TotalUnpaid(bills []Bill) float64 {
	var total float64
	for _, b := range bills {
		if b.IsUnpaid() {
			total += b.Amount
		}
	}
	return total
}
