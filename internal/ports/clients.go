package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// DegradedUserName is the human-readable marker rendered in place of the name
// when the user directory stays unreachable after retries.
const DegradedUserName = "Unable to get user info. Try again later."

// UserProfile is the externally owned profile of an order's owner. It is never
// persisted by this service.
type UserProfile struct {
	ID        int64
	Name      string
	Surname   string
	BirthDate string // ISO date, as reported by the user service
	Email     string
}

// UserLookup is the tagged result of a user-directory fetch. Degraded marks the
// placeholder returned after the retry budget is exhausted, so callers can tell
// it apart from a real profile.
type UserLookup struct {
	Profile  UserProfile
	Degraded bool
}

// UserDirectory fetches a user profile by id/token. Implementations must never
// fail the caller: after retries are exhausted they return a degraded lookup.
type UserDirectory interface {
	Fetch(ctx context.Context, userID int64, token string) UserLookup
}

// PaymentPublisher emits the create-payment event for a freshly created order.
// Callers treat publishing as fire-and-forget.
type PaymentPublisher interface {
	PublishCreatePayment(ctx context.Context, orderID, userID int64, amount decimal.Decimal) error
}
