package model

type DishPurchaseRequest struct {
	ItemID   int64 `json:"itemId" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,gt=0"`
}

type Purchase struct {
	PurchaseID           int64    `json:"purchaseId"`
	UserID               int64    `json:"userId"`
	UserEmail            string   `json:"userEmail"`
	MenuItem             MenuItem `json:"menuItem"`
	Quantity             int      `json:"quantity"`
	TotalAmount          float64  `json:"totalAmount"`
	PurchaseDate         string   `json:"purchaseDate"`
	PaymentTransactionID string   `json:"paymentTransactionId,omitempty"`
}

func (p Purchase) ID() int64 {
	return p.PurchaseID
}

// CheckoutSession is returned to the browser so it can redirect to the payment
// provider with the publishable key.
type CheckoutSession struct {
	SessionID      string `json:"sessionId"`
	PublishableKey string `json:"publishableKey"`
}
