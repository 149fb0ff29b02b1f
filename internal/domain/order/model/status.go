package model

// Order statuses. COMPLETED, CANCELED and EXPIRED are terminal.
const (
	StatusPending         = "PENDING"
	StatusAwaitingPayment = "AWAITING_PAYMENT"
	StatusPaid            = "PAID"
	StatusShipped         = "SHIPPED"
	StatusCompleted       = "COMPLETED"
	StatusCanceled        = "CANCELED"
	StatusExpired         = "EXPIRED"
)

// Payment status is tracked separately from the order status: a canceled
// order may still read pending, a PAID order always reads paid.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Payment method tags accepted at checkout. sepay and showroom are normalized
// to a storage-level method before persistence.
const (
	MethodCOD          = "cod"
	MethodSePay        = "sepay"
	MethodShowroom     = "showroom"
	MethodBankTransfer = "bank_transfer" // storage form of sepay
)

// transitions maps each status to the set of statuses it may legally become.
var transitions = map[string][]string{
	StatusPending:         {StatusPaid, StatusCanceled},
	StatusAwaitingPayment: {StatusPaid, StatusCanceled, StatusExpired},
	StatusPaid:            {StatusShipped, StatusCanceled},
	StatusShipped:         {StatusCompleted},
}

// CanTransition reports whether from -> to is a legal edge. Requesting the
// current status is not a transition and is handled by the caller as a no-op.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s is a known order status.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAwaitingPayment, StatusPaid,
		StatusShipped, StatusCompleted, StatusCanceled, StatusExpired:
		return true
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions.
func IsTerminal(s string) bool {
	return len(transitions[s]) == 0 && IsValidStatus(s)
}
