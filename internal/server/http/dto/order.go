package dto

// UpdateStatusRequest moves an order to a new status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// RefundRequest carries the refund note shown to the customer.
type RefundRequest struct {
	Message string `json:"message"`
}
