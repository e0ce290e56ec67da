package enums

import "testing"

func TestParseUserRole(t *testing.T) {
	role, err := ParseUserRole("admin")
	if err != nil || role != UserRoleAdmin {
		t.Fatalf("expected admin role, got %q err=%v", role, err)
	}
	if _, err := ParseUserRole("owner"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
	if UserRole("").IsValid() {
		t.Fatalf("empty role must be invalid")
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	if !OrderStatusPending.CanTransitionTo(OrderStatusCompleted) {
		t.Fatalf("pending -> completed should be allowed")
	}
	if OrderStatusCompleted.CanTransitionTo(OrderStatusPending) {
		t.Fatalf("completed -> pending should be rejected")
	}
	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}
