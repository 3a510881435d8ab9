package models

import "testing"

func TestBillStatus(t *testing.T) {
	bills := []Bill{
		{ID: "b1", Amount: 1000, Status: "unpaid"},
		{ID: "b2", Amount: 250, Status: "Unpaid"},
		{ID: "b3", Amount: 400, Status: "PAID"},
	}
	if !bills[1].IsUnpaid() || bills[1].IsPaid() {
		t.Errorf("mixed-case unpaid status not recognized")
	}
	if !bills[2].IsPaid() {
		t.Errorf("upper-case paid status not recognized")
	}
	if got := TotalUnpaid(bills); got != 1250 {
		t.Errorf("TotalUnpaid = %v, want 1250", got)
	}
}

func TestCanonicalPaymentMethod(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"M-Pesa", MethodMPesa, true},
		{"mpesa", MethodMPesa, true},
		{" bank ", MethodBank, true},
		{"Bank Transfer", MethodBank, true},
		{"card", MethodCard, true},
		{"cash", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CanonicalPaymentMethod(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("CanonicalPaymentMethod(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}

	p := Payment{Method: "Bank"}
	if !p.HasMethod(MethodBank) {
		t.Errorf("legacy Bank method should match %q", MethodBank)
	}
	if p.HasMethod(MethodCard) {
		t.Errorf("Bank should not match Card")
	}
}

func TestMaintenanceRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     MaintenanceRequest
		wantErr error
	}{
		{"valid", MaintenanceRequest{Title: "Leak", Description: "Kitchen tap"}, nil},
		{"empty title", MaintenanceRequest{Title: "", Description: "Kitchen tap"}, ErrEmptyTitle},
		{"blank title", MaintenanceRequest{Title: "   ", Description: "Kitchen tap"}, ErrEmptyTitle},
		{"empty description", MaintenanceRequest{Title: "Leak"}, ErrEmptyDescription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	reqs := []MaintenanceRequest{{Status: "Pending"}, {Status: "in progress"}, {Status: "resolved"}}
	if got := CountActive(reqs); got != 2 {
		t.Errorf("CountActive = %d, want 2", got)
	}
}

func TestNormalizeMaintenanceStatus(t *testing.T) {
	tests := map[string]string{
		"pending":     MaintenanceStatusPending,
		"in-progress": MaintenanceStatusInProgress,
		"In Progress": MaintenanceStatusInProgress,
		"RESOLVED":    MaintenanceStatusResolved,
	}
	for in, want := range tests {
		got, ok := NormalizeMaintenanceStatus(in)
		if !ok || got != want {
			t.Errorf("NormalizeMaintenanceStatus(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := NormalizeMaintenanceStatus("closed"); ok {
		t.Error("unknown status should not normalize")
	}
}

func TestUserHasEmail(t *testing.T) {
	u := User{Email: "Jane@Example.com"}
	if !u.HasEmail("jane@example.com") {
		t.Error("email match should ignore case")
	}
	if u.HasEmail("") {
		t.Error("empty email should never match")
	}
}
