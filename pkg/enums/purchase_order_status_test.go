package enums

import "testing"

func TestParsePurchaseOrderStatus(t *testing.T) {
	for _, raw := range PurchaseOrderStatusValues() {
		status, err := ParsePurchaseOrderStatus(raw)
		if err != nil {
			t.Fatalf("expected %q to parse: %v", raw, err)
		}
		if !status.IsValid() {
			t.Fatalf("expected %q to be valid", raw)
		}
	}

	if _, err := ParsePurchaseOrderStatus("shipped"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
	if PurchaseOrderStatus("Pending").IsValid() {
		t.Fatal("status parsing is case sensitive")
	}
}

func TestPurchaseOrderStatusTerminal(t *testing.T) {
	if PurchaseOrderStatusPending.IsTerminal() || PurchaseOrderStatusAcknowledged.IsTerminal() {
		t.Fatal("pending and acknowledged are not terminal")
	}
	if !PurchaseOrderStatusCompleted.IsTerminal() || !PurchaseOrderStatusCancelled.IsTerminal() {
		t.Fatal("completed and cancelled are terminal")
	}
}
