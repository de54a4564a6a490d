package order

// Status values follow the fulfillment path
// received -> validating -> processing_payment -> shipping ->
// sending_confirmation -> completed, with failed reachable from the three
// checked steps. Transitions never move backwards and terminal states
// accept no further transitions.
type Status string

const (
	StatusReceived            Status = "received"
	StatusValidating          Status = "validating"
	StatusProcessingPayment   Status = "processing_payment"
	StatusShipping            Status = "shipping"
	StatusSendingConfirmation Status = "sending_confirmation"
	StatusCompleted           Status = "completed"
	StatusFailed              Status = "failed"
)

var statusRank = map[Status]int{
	StatusReceived:            0,
	StatusValidating:          1,
	StatusProcessingPayment:   2,
	StatusShipping:            3,
	StatusSendingConfirmation: 4,
	StatusCompleted:           5,
}

// canFail lists the statuses from which an order may move to StatusFailed:
// the three checked steps, plus received for orders whose workflow could
// not be submitted. Confirmation never fails an order, so
// sending_confirmation is absent.
var canFail = map[Status]bool{
	StatusReceived:          true,
	StatusValidating:        true,
	StatusProcessingPayment: true,
	StatusShipping:          true,
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether moving from s to next is a legal,
// forward-only transition.
func (s Status) CanTransitionTo(next Status) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusFailed {
		return canFail[s]
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to == from+1
}
