package request

import "github.com/google/uuid"

// PaymentCallback is the payload posted by the payment collaborator after a
// charge attempt settles.
type PaymentCallback struct {
	ReservationID uuid.UUID `json:"reservation_id" binding:"required"`
	Status        string    `json:"status" binding:"required,oneof=success failed"`
}

func (r PaymentCallback) Succeeded() bool {
	return r.Status == "success"
}
