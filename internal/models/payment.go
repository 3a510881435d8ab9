package models

import "strings"

// Payment methods offered when paying a bill.
const (
	MethodMPesa = "M-Pesa"
	MethodBank  = "Bank Transfer"
	MethodCard  = "Card"
)

// PaymentStatusSuccessful marks a completed (mock) payment.
const PaymentStatusSuccessful = "successful"

// Payment records a settled bill.
// Amount mirrors the bill's amount at the time of payment.
type Payment struct {
	ID     string  `json:"id"`
	UserID string  `json:"userId"`
	BillID string  `json:"billId"`
	Amount float64 `json:"amount"`
	Method string  `json:"method"`

	// Reference is the receipt code shown to the tenant.
	Reference string `json:"reference"`
	Status    string `json:"status"`
	DatePaid  string `json:"datePaid"`
}

func (p Payment) RecordID() string { return p.ID }
func (p Payment) OwnerID() string  { return p.UserID }

// HasMethod reports whether the payment used method. Spellings are
// compared after canonicalization, so "bank" matches "Bank Transfer".
func (p Payment) HasMethod(method string) bool {
	want, ok := CanonicalPaymentMethod(method)
	if !ok {
		return equalFold(p.Method, method)
	}
	got, _ := CanonicalPaymentMethod(p.Method)
	return got == want
}

// CanonicalPaymentMethod maps a user-supplied method name to one of the
// accepted methods. Older records use "Bank" for bank transfers.
func CanonicalPaymentMethod(method string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "m-pesa", "mpesa":
		return MethodMPesa, true
	case "bank transfer", "bank":
		return MethodBank, true
	case "card":
		return MethodCard, true
	}
	return "", false
}

// TotalPaid sums payment amounts.
func TotalPaid(payments []Payment) float64 {
	var total float64
	for _, p := range payments {
		total += p.Amount
	}
	return total
}
