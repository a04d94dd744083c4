package domain

import "time"

type PaymentStatus string

const (
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentProcessing, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

// PaymentValidityWindow is how long a processing payment stays payable before
// it is considered expired.
const PaymentValidityWindow = 15 * time.Minute

// Payment is a listing-fee charge. It either completes or fails; it may
// independently become expired via IsExpired, which is checked but never
// produced by the workflow layer.
type Payment struct {
	ID               string
	Provider         string
	Method           string
	Status           PaymentStatus
	Amount           Price
	Receipt          string
	ProviderResponse string
	FailureReason    string
	CreatedAt        time.Time
	CompletedAt      time.Time
	ValidUntil       time.Time
}

// NewPayment creates a processing payment at the given fee amount.
func NewPayment(id, provider, method string, amount Price, now time.Time) *Payment {
	return &Payment{
		ID:         id,
		Provider:   provider,
		Method:     method,
		Status:     PaymentProcessing,
		Amount:     amount,
		CreatedAt:  now,
		ValidUntil: now.Add(PaymentValidityWindow),
	}
}

// IsExpired reports whether a still-processing payment is past its validity
// window.
func (p *Payment) IsExpired(now time.Time) bool {
	return p.Status == PaymentProcessing && now.After(p.ValidUntil)
}

func (p *Payment) Complete(now time.Time, receipt, providerResponse string) {
	p.Status = PaymentCompleted
	p.CompletedAt = now
	p.Receipt = receipt
	p.ProviderResponse = providerResponse
}

func (p *Payment) Fail(now time.Time, reason, providerResponse string) {
	p.Status = PaymentFailed
	p.CompletedAt = now
	p.FailureReason = reason
	p.ProviderResponse = providerResponse
}
