package purchaseorders

import (
	"time"

	"github.com/angelmondragon/vendorscore-backend/pkg/db/models"
	"github.com/angelmondragon/vendorscore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendorscore-backend/pkg/errors"
)

// Transition messages returned to callers.
const (
	MsgAlreadyAcknowledged = "Purchase order already acknowledged"
	MsgNotAcknowledged     = "Purchase order is not acknowledged."
	MsgAlreadyCompleted    = "Purchase order already completed."
	MsgIsCompleted         = "Purchase order is completed."
	MsgIsCancelled         = "Purchase order is cancelled."
	MsgAlreadyCancelled    = "Purchase order already cancelled."
)

// pending -> acknowledged -> completed, or acknowledged -> cancelled. Completed and
// cancelled are terminal. Each transition stamps its timestamp from now.

func acknowledge(o *models.PurchaseOrder, now time.Time) error {
	if o.AcknowledgmentDate != nil {
		return stateConflict(MsgAlreadyAcknowledged)
	}
	if err := rejectTerminal(o); err != nil {
		return err
	}
	ts := now.UTC()
	o.AcknowledgmentDate = &ts
	o.Status = enums.PurchaseOrderStatusAcknowledged
	return nil
}

// complete applies rating before flipping the status so the whole change is one write.
func complete(o *models.PurchaseOrder, rating *float64, now time.Time) error {
	if o.AcknowledgmentDate == nil {
		return stateConflict(MsgNotAcknowledged)
	}
	switch o.Status {
	case enums.PurchaseOrderStatusCompleted:
		return stateConflict(MsgAlreadyCompleted)
	case enums.PurchaseOrderStatusCancelled:
		return stateConflict(MsgIsCancelled)
	}
	if rating != nil {
		r := *rating
		o.QualityRating = &r
	}
	ts := now.UTC()
	o.Status = enums.PurchaseOrderStatusCompleted
	o.CompletedAt = &ts
	return nil
}

func cancel(o *models.PurchaseOrder, now time.Time) error {
	if o.AcknowledgmentDate == nil {
		return stateConflict(MsgNotAcknowledged)
	}
	switch o.Status {
	case enums.PurchaseOrderStatusCompleted:
		return stateConflict(MsgIsCompleted)
	case enums.PurchaseOrderStatusCancelled:
		return stateConflict(MsgAlreadyCancelled)
	}
	ts := now.UTC()
	o.Status = enums.PurchaseOrderStatusCancelled
	o.CompletedAt = &ts
	return nil
}

func rejectTerminal(o *models.PurchaseOrder) error {
	switch o.Status {
	case enums.PurchaseOrderStatusCompleted:
		return stateConflict(MsgIsCompleted)
	case enums.PurchaseOrderStatusCancelled:
		return stateConflict(MsgIsCancelled)
	}
	return nil
}

func stateConflict(msg string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, msg)
}
