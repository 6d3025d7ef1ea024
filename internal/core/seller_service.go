package core

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// SellerService registers and authenticates seller accounts.
type SellerService interface {
	Register(ctx context.Context, in RegisterSellerInput) (*Seller, error)
	// Authenticate returns the seller for a valid email and password, or ErrUnauthorized.
	Authenticate(ctx context.Context, email, password string) (*Seller, error)
	GetByID(ctx context.Context, sellerID int64) (*Seller, error)
	GetBySlug(ctx context.Context, slug string) (*Seller, error)
	List(ctx context.Context) ([]Seller, error)
	SetStorefrontEnabled(ctx context.Context, sellerID int64, enabled bool) (*Seller, error)
}

type sellerService struct {
	store Store
	cost  int
}

// NewSellerService constructs a SellerService. cost is the bcrypt work factor;
// zero selects bcrypt.DefaultCost.
func NewSellerService(store Store, cost int) SellerService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &sellerService{store: store, cost: cost}
}

func (s *sellerService) Register(ctx context.Context, in RegisterSellerInput) (*Seller, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	seller := &Seller{
		Email:        in.Email,
		PasswordHash: string(hash),
		StoreName:    in.StoreName,
		StoreSlug:    in.StoreSlug,
	}
	if err := s.store.CreateSeller(ctx, seller); err != nil {
		return nil, fmt.Errorf("failed to create seller %q: %w", in.Email, err)
	}
	return seller, nil
}

func (s *sellerService) Authenticate(ctx context.Context, email, password string) (*Seller, error) {
	in := RegisterSellerInput{Email: email}
	in.Normalize()

	seller, err := s.store.GetSellerByEmail(ctx, in.Email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load seller: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(seller.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnauthorized
	}
	return seller, nil
}

func (s *sellerService) GetByID(ctx context.Context, sellerID int64) (*Seller, error) {
	seller, err := s.store.GetSellerByID(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("seller id=%d: %w", sellerID, err)
	}
	return seller, nil
}

func (s *sellerService) GetBySlug(ctx context.Context, slug string) (*Seller, error) {
	seller, err := s.store.GetSellerBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("store %q: %w", slug, err)
	}
	return seller, nil
}

func (s *sellerService) List(ctx context.Context) ([]Seller, error) {
	sellers, err := s.store.ListSellers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sellers: %w", err)
	}
	return sellers, nil
}

func (s *sellerService) SetStorefrontEnabled(ctx context.Context, sellerID int64, enabled bool) (*Seller, error) {
	if err := s.store.SetStorefrontEnabled(ctx, sellerID, enabled); err != nil {
		return nil, fmt.Errorf("failed to update storefront for seller %d: %w", sellerID, err)
	}
	return s.GetByID(ctx, sellerID)
}
