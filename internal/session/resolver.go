package session

import "context"

// Session is the resolved authorization state of a storefront request.
type Session struct {
	Type       Kind  `json:"type"`
	CustomerID int64 `json:"customer_id,omitempty"`
}

// None is the unauthenticated session.
var None = Session{Type: KindNone}

// Input carries the raw credentials of one request.
type Input struct {
	StoreID int64
	// RememberedCustomerID is the verified remember-me cookie value; 0 when absent.
	RememberedCustomerID int64
	Token                string
}

// Lookups resolve identities from storage. Either may be nil. A zero id means not found.
type Lookups struct {
	OrderCustomer   func(ctx context.Context, orderID int64) (int64, error)
	CustomerByEmail func(ctx context.Context, email string) (int64, error)
}

// Decoder verifies a session token.
type Decoder interface {
	Decode(token string) (*Payload, error)
}

// Resolve maps request credentials to a session. It never fails: anything that
// cannot be verified or resolved yields None.
func Resolve(ctx context.Context, dec Decoder, in Input, lookups Lookups) Session {
	if in.RememberedCustomerID > 0 {
		return Session{Type: KindCustomer, CustomerID: in.RememberedCustomerID}
	}
	if in.Token == "" {
		return None
	}

	p, err := dec.Decode(in.Token)
	if err != nil {
		return None
	}
	if in.StoreID != 0 && p.StoreID != in.StoreID {
		return None
	}

	switch p.Type {
	case KindGuest:
		if p.OrderID <= 0 || lookups.OrderCustomer == nil {
			return None
		}
		id, err := lookups.OrderCustomer(ctx, p.OrderID)
		if err != nil || id <= 0 {
			return None
		}
		return Session{Type: KindGuest, CustomerID: id}

	case KindCustomer:
		if p.CustomerID > 0 {
			return Session{Type: KindCustomer, CustomerID: p.CustomerID}
		}
		if p.Email == "" || lookups.CustomerByEmail == nil {
			return None
		}
		id, err := lookups.CustomerByEmail(ctx, p.Email)
		if err != nil || id <= 0 {
			return None
		}
		return Session{Type: KindCustomer, CustomerID: id}
	}
	return None
}
