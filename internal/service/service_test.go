package service

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/mmynk/rentalmanager/internal/models"
	"github.com/mmynk/rentalmanager/internal/storage"
	"github.com/mmynk/rentalmanager/internal/storage/jsonstore"
	"github.com/mmynk/rentalmanager/internal/storage/seeddata"
)

// setupStore opens a store seeded from the bundled templates in a temp dir.
func setupStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(t.TempDir(), seeddata.FS, jsonstore.Options{})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return store
}

// setupScenarioStore seeds a single unpaid bill b1 for u1.
func setupScenarioStore(t *testing.T) *storage.Store {
	t.Helper()
	templates := fstest.MapFS{
		"users.json":               {Data: []byte(`[{"id":"u1","name":"Jane","email":"jane@example.com"}]`)},
		"bills.json":               {Data: []byte(`[{"id":"b1","userId":"u1","type":"Rent","amount":1000,"status":"unpaid","dueDate":"2025-12-01T00:00:00Z"}]`)},
		"payments.json":            {Data: []byte(`[]`)},
		"maintenanceRequests.json": {Data: []byte(`[]`)},
		"notifications.json":       {Data: []byte(`[]`)},
	}
	store, err := storage.Open(t.TempDir(), templates, jsonstore.Options{})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return store
}

func TestPayBill(t *testing.T) {
	ctx := context.Background()
	store := setupScenarioStore(t)
	svc := NewBillService(store)

	payment, err := svc.PayBill(ctx, "u1", "b1", "M-Pesa")
	if err != nil {
		t.Fatalf("PayBill failed: %v", err)
	}

	bill, ok := store.Bills.Get(ctx, "b1")
	if !ok {
		t.Fatal("bill b1 missing after payment")
	}
	if bill.Status != models.BillStatusPaid {
		t.Errorf("bill status: expected 'paid', got '%s'", bill.Status)
	}

	payments := store.Payments.Load(ctx)
	if len(payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(payments))
	}
	p := payments[0]
	if p.BillID != "b1" {
		t.Errorf("billId: expected 'b1', got '%s'", p.BillID)
	}
	if p.Amount != 1000 {
		t.Errorf("amount: expected 1000, got %v", p.Amount)
	}
	if p.Status != models.PaymentStatusSuccessful {
		t.Errorf("status: expected 'successful', got '%s'", p.Status)
	}
	if p.Method != models.MethodMPesa {
		t.Errorf("method: expected 'M-Pesa', got '%s'", p.Method)
	}
	if p.ID != payment.ID || p.Reference == "" || p.DatePaid == "" {
		t.Errorf("unexpected stored payment: %+v", p)
	}
}

func TestPayBillRejections(t *testing.T) {
	ctx := context.Background()
	store := setupScenarioStore(t)
	svc := NewBillService(store)

	tests := []struct {
		name    string
		owner   string
		billID  string
		method  string
		wantErr error
	}{
		{"unknown method", "u1", "b1", "Cash", ErrInvalidArgument},
		{"unknown bill", "u1", "b9", "Card", ErrNotFound},
		{"another tenant's bill", "u2", "b1", "Card", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PayBill(ctx, tt.owner, tt.billID, tt.method)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
	if n := len(store.Payments.Load(ctx)); n != 0 {
		t.Errorf("rejected payments must not write; got %d payments", n)
	}

	if _, err := svc.PayBill(ctx, "u1", "b1", "card"); err != nil {
		t.Fatalf("PayBill failed: %v", err)
	}
	if _, err := svc.PayBill(ctx, "u1", "b1", "card"); !errors.Is(err, ErrAlreadyPaid) {
		t.Errorf("expected ErrAlreadyPaid, got %v", err)
	}
}

// failingBills fails every Replace, leaving the rest of the collection intact.
type failingBills struct {
	storage.Collection[models.Bill]
}

func (failingBills) Replace(context.Context, models.Bill) (bool, error) {
	return false, errors.New("disk full")
}

func TestPayBillIsNotAtomic(t *testing.T) {
	ctx := context.Background()
	store := setupScenarioStore(t)
	store.Bills = failingBills{store.Bills}
	svc := NewBillService(store)

	payment, err := svc.PayBill(ctx, "u1", "b1", "Card")
	if err == nil {
		t.Fatal("expected error when bill update fails")
	}
	if payment == nil {
		t.Fatal("expected the recorded payment to be returned")
	}
	if n := len(store.Payments.Load(ctx)); n != 1 {
		t.Errorf("payment should stay recorded; got %d payments", n)
	}
	bill, _ := store.Bills.Get(ctx, "b1")
	if !bill.IsUnpaid() {
		t.Errorf("bill should still be unpaid, got %s", bill.Status)
	}
}

func TestListBills(t *testing.T) {
	ctx := context.Background()
	svc := NewBillService(setupStore(t))

	all := svc.ListBills(ctx, "u1", BillFilterAll)
	if len(all) != 3 {
		t.Fatalf("expected 3 bills for u1, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].DueDate > all[i].DueDate {
			t.Errorf("bills not sorted by due date: %s before %s", all[i-1].DueDate, all[i].DueDate)
		}
	}

	unpaid := svc.ListBills(ctx, "u1", BillFilterUnpaid)
	if len(unpaid) != 2 {
		t.Errorf("expected 2 unpaid bills, got %d", len(unpaid))
	}
	paid := svc.ListBills(ctx, "u1", BillFilterPaid)
	if len(paid) != 1 || paid[0].ID != "b3" {
		t.Errorf("expected paid bill b3, got %+v", paid)
	}

	if got := svc.TotalUnpaid(ctx, "u1"); got != 26200 {
		t.Errorf("TotalUnpaid: expected 26200, got %v", got)
	}
}

func TestParseBillFilter(t *testing.T) {
	for in, want := range map[string]BillFilter{"": BillFilterAll, "All": BillFilterAll, "PAID": BillFilterPaid, "unpaid": BillFilterUnpaid} {
		got, err := ParseBillFilter(in)
		if err != nil || got != want {
			t.Errorf("ParseBillFilter(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseBillFilter("overdue"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestListPayments(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	bills := NewBillService(store)
	svc := NewPaymentService(store)

	if _, err := bills.PayBill(ctx, "u1", "b2", "Bank"); err != nil {
		t.Fatalf("PayBill failed: %v", err)
	}

	all := svc.ListPayments(ctx, "u1", "All")
	if len(all) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(all))
	}
	if all[0].BillID != "b2" {
		t.Errorf("expected newest payment first, got %s", all[0].BillID)
	}

	bank := svc.ListPayments(ctx, "u1", "Bank")
	if len(bank) != 1 || bank[0].Method != models.MethodBank {
		t.Errorf("expected one bank payment, got %+v", bank)
	}
	if got := svc.TotalPaid(ctx, "u1"); got != 4200 {
		t.Errorf("TotalPaid: expected 4200, got %v", got)
	}

	if _, err := svc.GetPayment(ctx, "u2", all[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for another tenant, got %v", err)
	}
}

func TestSubmitRequest(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	svc := NewMaintenanceService(store)
	before := len(store.Maintenance.Load(ctx))

	t.Run("empty title is rejected before any write", func(t *testing.T) {
		_, err := svc.SubmitRequest(ctx, "u1", "", "Water everywhere")
		if !errors.Is(err, ErrInvalidArgument) || !errors.Is(err, models.ErrEmptyTitle) {
			t.Errorf("expected invalid argument (empty title), got %v", err)
		}
		_, err = svc.SubmitRequest(ctx, "u1", "Leak", "  ")
		if !errors.Is(err, models.ErrEmptyDescription) {
			t.Errorf("expected empty description error, got %v", err)
		}
		if n := len(store.Maintenance.Load(ctx)); n != before {
			t.Errorf("collection changed: %d -> %d", before, n)
		}
	})

	t.Run("valid request is stored as Pending", func(t *testing.T) {
		req, err := svc.SubmitRequest(ctx, "u1", "  Broken window ", "Bedroom window cracked")
		if err != nil {
			t.Fatalf("SubmitRequest failed: %v", err)
		}
		if req.Status != models.MaintenanceStatusPending || req.Title != "Broken window" {
			t.Errorf("unexpected request: %+v", req)
		}
		stored, ok := store.Maintenance.Get(ctx, req.ID)
		if !ok || stored.UserID != "u1" {
			t.Errorf("request not stored for u1: %+v", stored)
		}
	})
}

func TestResolveRequest(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	svc := NewMaintenanceService(store)

	active := svc.ListRequests(ctx, "u1", true)
	if len(active) != 1 || active[0].ID != "m1" {
		t.Fatalf("expected only m1 active, got %+v", active)
	}

	req, err := svc.ResolveRequest(ctx, "u1", "m1")
	if err != nil {
		t.Fatalf("ResolveRequest failed: %v", err)
	}
	if req.Status != models.MaintenanceStatusResolved {
		t.Errorf("expected Resolved, got %s", req.Status)
	}
	if n := len(svc.ListRequests(ctx, "u1", true)); n != 0 {
		t.Errorf("expected no active requests, got %d", n)
	}
	if n := len(svc.ListRequests(ctx, "u1", false)); n != 2 {
		t.Errorf("expected 2 requests in total, got %d", n)
	}

	if _, err := svc.ResolveRequest(ctx, "u1", "m3"); !errors.Is(err, ErrNotFound) {
		t.Errorf("resolving another tenant's request: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.SetStatus(ctx, "u2", "m3", "closed"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for unknown status, got %v", err)
	}
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	svc := NewProfileService(store)

	u, err := svc.GetProfileByEmail(ctx, "JANE.WANJIKU@example.com")
	if err != nil {
		t.Fatalf("GetProfileByEmail failed: %v", err)
	}
	if u.ID != "u1" {
		t.Errorf("expected u1, got %s", u.ID)
	}

	if got := svc.ResolveOwner(ctx, "jane.wanjiku@example.com", "uid-x"); got != "u1" {
		t.Errorf("ResolveOwner: expected u1, got %s", got)
	}
	if got := svc.ResolveOwner(ctx, "ghost@example.com", "uid-x"); got != "uid-x" {
		t.Errorf("ResolveOwner fallback: expected uid-x, got %s", got)
	}

	t.Run("edit keeps email and creation time", func(t *testing.T) {
		edit := u
		edit.Phone = "+254700000000"
		edit.Email = "changed@example.com"
		edit.CreatedAt = ""
		updated, err := svc.UpdateProfile(ctx, edit)
		if err != nil {
			t.Fatalf("UpdateProfile failed: %v", err)
		}
		if updated.Email != u.Email || updated.CreatedAt != u.CreatedAt {
			t.Errorf("immutable fields changed: %+v", updated)
		}
		stored, _ := svc.GetProfile(ctx, "u1")
		if stored.Phone != "+254700000000" {
			t.Errorf("phone not saved: %s", stored.Phone)
		}
		if n := len(store.Users.Load(ctx)); n != 2 {
			t.Errorf("expected 2 users, got %d", n)
		}
	})

	t.Run("first edit of a placeholder profile creates it", func(t *testing.T) {
		created, err := svc.UpdateProfile(ctx, models.User{ID: "uid-new", Name: "New Tenant", Email: "new@example.com", UnitNumber: "Unit 1A"})
		if err != nil {
			t.Fatalf("UpdateProfile failed: %v", err)
		}
		if created.CreatedAt == "" {
			t.Error("expected CreatedAt to be set")
		}
		if _, err := svc.GetProfileByEmail(ctx, "new@example.com"); err != nil {
			t.Errorf("created profile not found: %v", err)
		}
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, models.User{ID: "u1", Name: " "})
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	svc := NewNotificationService(setupStore(t))

	items := svc.ListNotifications(ctx, "u1", false)
	if len(items) != 2 || items[0].ID != "n1" {
		t.Errorf("expected n1 newest of 2, got %+v", items)
	}
	if unread := svc.ListNotifications(ctx, "u1", true); len(unread) != 1 {
		t.Errorf("expected 1 unread, got %d", len(unread))
	}
	if got := svc.UnreadCount(ctx, "u2"); got != 1 {
		t.Errorf("UnreadCount u2: expected 1, got %d", got)
	}
}

func TestDashboardSummary(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	svc := NewDashboardService(store, "")

	got := svc.Summary(ctx, "u1")
	want := DashboardSummary{
		UserID:              "u1",
		TotalUnpaid:         26200,
		TotalPaid:           3000,
		ActiveMaintenance:   1,
		UnreadNotifications: 1,
		TotalUnpaidDisplay:  "KES 26200",
		TotalPaidDisplay:    "KES 3000",
	}
	if got != want {
		t.Errorf("Summary mismatch:\n got  %+v\n want %+v", got, want)
	}

	byEmail, err := svc.SummaryForEmail(ctx, "Brian.Otieno@example.com")
	if err != nil {
		t.Fatalf("SummaryForEmail failed: %v", err)
	}
	if byEmail.UserID != "u2" || byEmail.TotalUnpaid != 18000 {
		t.Errorf("unexpected summary for u2: %+v", byEmail)
	}

	if _, err := svc.SummaryForEmail(ctx, "ghost@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	empty := svc.Summary(ctx, "nobody")
	if empty.TotalUnpaidDisplay != "KES 0" || empty.ActiveMaintenance != 0 {
		t.Errorf("unexpected empty summary: %+v", empty)
	}
}
