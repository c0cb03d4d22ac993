package enums

import "fmt"

// PurchaseOrderStatus tracks the lifecycle of a purchase order.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending      PurchaseOrderStatus = "pending"
	PurchaseOrderStatusAcknowledged PurchaseOrderStatus = "acknowledged"
	PurchaseOrderStatusCompleted    PurchaseOrderStatus = "completed"
	PurchaseOrderStatusCancelled    PurchaseOrderStatus = "cancelled"
)

var validPurchaseOrderStatuses = []PurchaseOrderStatus{
	PurchaseOrderStatusPending,
	PurchaseOrderStatusAcknowledged,
	PurchaseOrderStatusCompleted,
	PurchaseOrderStatusCancelled,
}

// String implements fmt.Stringer.
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PurchaseOrderStatus.
func (s PurchaseOrderStatus) IsValid() bool {
	for _, candidate := range validPurchaseOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition can leave the status.
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusCompleted || s == PurchaseOrderStatusCancelled
}

// ParsePurchaseOrderStatus converts raw input into a PurchaseOrderStatus.
func ParsePurchaseOrderStatus(value string) (PurchaseOrderStatus, error) {
	for _, candidate := range validPurchaseOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchase order status %q", value)
}

// PurchaseOrderStatusValues lists the accepted raw values, in lifecycle order.
func PurchaseOrderStatusValues() []string {
	out := make([]string, 0, len(validPurchaseOrderStatuses))
	for _, s := range validPurchaseOrderStatuses {
		out = append(out, string(s))
	}
	return out
}
