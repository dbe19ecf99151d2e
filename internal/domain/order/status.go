package order

import "github.com/go-faster/errors"

// Status is an order's position in its lifecycle.
//
// The happy path is pending → processing → shipped → delivered → completed.
// Admin action can move any non-terminal order to cancelled or failed.
// The owning user may cancel only while the order is still pending.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusFailed     Status = "failed"
)

var (
	// ErrInvalidStatus is returned when a status string is not one of the
	// enumerated values.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidTransition is returned when a lifecycle change is not
	// allowed from the order's current status.
	ErrInvalidTransition = errors.New("order cannot change to that status")
)

var statuses = map[Status]struct{}{
	StatusPending:    {},
	StatusProcessing: {},
	StatusShipped:    {},
	StatusDelivered:  {},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusFailed:     {},
}

// ParseStatus converts a wire string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := statuses[st]; !ok {
		return "", errors.Wrapf(ErrInvalidStatus, "%q", s)
	}
	return st, nil
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

// UserCancellable reports whether the owning user may still self-cancel.
func (s Status) UserCancellable() bool {
	return s == StatusPending
}
