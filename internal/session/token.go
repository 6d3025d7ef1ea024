// Package session mints storefront session tokens and resolves them into a
// customer identity.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind is the variant of a token payload.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindGuest    Kind = "guest"
	KindNone     Kind = "none"

	// kindRemember marks the signed remember-me cookie. It never resolves as a
	// session token.
	kindRemember Kind = "remember"
)

// Payload is the signed content of a storefront token. Guest tokens are scoped to
// one order; customer tokens carry the customer id, the email, or both.
type Payload struct {
	Type       Kind   `json:"type"`
	StoreID    int64  `json:"store_id"`
	CustomerID int64  `json:"customer_id,omitempty"`
	Email      string `json:"email,omitempty"`
	OrderID    int64  `json:"order_id,omitempty"`
	jwt.RegisteredClaims
}

// ErrInvalidToken is returned for tokens that fail signature, format, or expiry checks.
var ErrInvalidToken = errors.New("invalid session token")

// Codec signs and verifies storefront tokens with an HMAC secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec returns a Codec using secret for HS256 signatures.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

// MintCustomer issues a customer token valid for ttl.
func (c *Codec) MintCustomer(storeID, customerID int64, email string, ttl time.Duration) (string, error) {
	return c.mint(Payload{Type: KindCustomer, StoreID: storeID, CustomerID: customerID, Email: email}, ttl)
}

// MintGuest issues a guest token for one order valid for ttl.
func (c *Codec) MintGuest(storeID, orderID int64, ttl time.Duration) (string, error) {
	return c.mint(Payload{Type: KindGuest, StoreID: storeID, OrderID: orderID}, ttl)
}

// MintRemember signs a customer id for the remember-me cookie.
func (c *Codec) MintRemember(storeID, customerID int64, ttl time.Duration) (string, error) {
	return c.mint(Payload{
		Type:             kindRemember,
		StoreID:          storeID,
		RegisteredClaims: jwt.RegisteredClaims{Subject: strconv.FormatInt(customerID, 10)},
	}, ttl)
}

// VerifyRemember returns the customer id carried by a remember-me cookie for storeID.
func (c *Codec) VerifyRemember(storeID int64, token string) (int64, error) {
	p, err := c.Decode(token)
	if err != nil {
		return 0, err
	}
	if p.Type != kindRemember || p.StoreID != storeID {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseInt(p.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

func (c *Codec) mint(p Payload, ttl time.Duration) (string, error) {
	now := c.now()
	p.IssuedAt = jwt.NewNumericDate(now)
	p.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &p).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Decode verifies token and returns its payload. Tokens without exp, or with
// now >= exp, are rejected.
func (c *Codec) Decode(token string) (*Payload, error) {
	p := &Payload{}
	parsed, err := jwt.ParseWithClaims(token, p, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return p, nil
}
