package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"resale-ledger/internal/ai"
	"resale-ledger/internal/core"
	"resale-ledger/internal/metrics"
	"resale-ledger/internal/session"
)

// ErrIntakeUnavailable is returned by ProposeSale when no assistant is configured.
var ErrIntakeUnavailable = errors.New("sale intake assistant is not configured")

// Services bundles the domain services the application layer delegates to.
type Services struct {
	Store      core.Store
	Sellers    core.SellerService
	Inventory  core.InventoryService
	Sales      core.SaleService
	Reports    core.ReportingService
	Storefront core.StorefrontService
}

// NewServices wires every domain service over one store.
func NewServices(store core.Store, bcryptCost int) Services {
	sales := core.NewSaleService(store)
	return Services{
		Store:      store,
		Sellers:    core.NewSellerService(store, bcryptCost),
		Inventory:  core.NewInventoryService(store),
		Sales:      sales,
		Reports:    core.NewReportingService(store),
		Storefront: core.NewStorefrontService(store, sales, bcryptCost),
	}
}

type appService struct {
	Services
	intake  ai.IntakeService
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

// NewAppService constructs an appService that satisfies ApplicationService.
// intake and m may be nil.
func NewAppService(svc Services, intake ai.IntakeService, m *metrics.Metrics, log *zap.Logger) ApplicationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &appService{Services: svc, intake: intake, metrics: m, log: log, now: time.Now}
}

// ── Sellers ───────────────────────────────────────────────────────────────────

func (s *appService) RegisterSeller(ctx context.Context, req RegisterSellerRequest) (*core.Seller, error) {
	return s.Sellers.Register(ctx, core.RegisterSellerInput{
		Email:     req.Email,
		Password:  req.Password,
		StoreName: req.StoreName,
		StoreSlug: req.StoreSlug,
	})
}

func (s *appService) AuthenticateSeller(ctx context.Context, email, password string) (*core.Seller, error) {
	return s.Sellers.Authenticate(ctx, email, password)
}

func (s *appService) GetSeller(ctx context.Context, sellerID int64) (*core.Seller, error) {
	return s.Sellers.GetByID(ctx, sellerID)
}

// LoadDefaultSeller loads the seller the CLI acts as, using SELLER_SLUG if set.
func (s *appService) LoadDefaultSeller(ctx context.Context) (*core.Seller, error) {
	if slug := os.Getenv("SELLER_SLUG"); slug != "" {
		return s.Sellers.GetBySlug(ctx, strings.ToLower(slug))
	}

	sellers, err := s.Sellers.List(ctx)
	if err != nil {
		return nil, err
	}
	switch len(sellers) {
	case 0:
		return nil, fmt.Errorf("no sellers found, run restore-seed or register one first: %w", core.ErrNotFound)
	case 1:
		return &sellers[0], nil
	default:
		return nil, fmt.Errorf("multiple sellers found; set SELLER_SLUG env var (e.g. SELLER_SLUG=%s)", sellers[0].StoreSlug)
	}
}

func (s *appService) SetStorefrontEnabled(ctx context.Context, sellerID int64, enabled bool) (*core.Seller, error) {
	return s.Sellers.SetStorefrontEnabled(ctx, sellerID, enabled)
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (s *appService) CreateItem(ctx context.Context, sellerID int64, req CreateItemRequest) (*core.StockItem, error) {
	return s.Inventory.CreateItem(ctx, sellerID, core.CreateItemInput{
		Title:             strings.TrimSpace(req.Title),
		SKU:               strings.TrimSpace(req.SKU),
		Description:       req.Description,
		PurchasePrice:     req.PurchasePrice,
		QuantityPurchased: req.QuantityPurchased,
		Listed:            req.Listed,
		ListPrice:         req.ListPrice,
	})
}

func (s *appService) GetItem(ctx context.Context, sellerID, itemID int64) (*core.StockItem, error) {
	return s.Inventory.GetItem(ctx, sellerID, itemID)
}

func (s *appService) ListItems(ctx context.Context, sellerID int64, includeArchived bool) (*ItemListResult, error) {
	items, err := s.Inventory.ListItems(ctx, sellerID, includeArchived)
	if err != nil {
		return nil, err
	}
	return &ItemListResult{Items: items}, nil
}

func (s *appService) UpdateItem(ctx context.Context, sellerID, itemID int64, req UpdateItemRequest) (*core.StockItem, error) {
	return s.Inventory.UpdateItem(ctx, sellerID, itemID, core.UpdateItemInput{
		Title:         req.Title,
		SKU:           req.SKU,
		Description:   req.Description,
		PurchasePrice: req.PurchasePrice,
		Listed:        req.Listed,
		ListPrice:     req.ListPrice,
	})
}

func (s *appService) DeleteItem(ctx context.Context, sellerID, itemID int64) (*core.DeleteItemResult, error) {
	return s.Inventory.DeleteItem(ctx, sellerID, itemID)
}

func (s *appService) CheckDrift(ctx context.Context, sellerID int64) (*DriftResult, error) {
	reports, err := s.Inventory.CheckDrift(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	for _, r := range reports {
		s.log.Warn("inventory drift",
			zap.Int64("seller_id", r.SellerID),
			zap.Int64("item_id", r.ItemID),
			zap.Int("counter_drift", r.CounterDrift()),
			zap.Int("quantity_sold", r.QuantitySold),
			zap.Int("sold_per_sales", r.SoldPerSales),
		)
	}
	return &DriftResult{Items: reports}, nil
}

// ── Sales ─────────────────────────────────────────────────────────────────────

func (s *appService) GetSale(ctx context.Context, sellerID, saleID int64) (*core.SaleResult, error) {
	return s.Sales.GetSale(ctx, sellerID, saleID)
}

func (s *appService) ListSales(ctx context.Context, sellerID int64, filter core.SaleFilter) (*SaleListResult, error) {
	sales, err := s.Sales.ListSales(ctx, sellerID, filter)
	if err != nil {
		return nil, err
	}
	return &SaleListResult{Sales: sales}, nil
}

func (s *appService) CreateSale(ctx context.Context, sellerID int64, req SaleRequest) (*core.SaleResult, error) {
	in := core.SaleInput{
		ItemID:       req.ItemID,
		Platform:     req.Platform,
		SalePrice:    req.SalePrice,
		QuantitySold: req.QuantitySold,
		SaleDate:     req.SaleDate,
		Fees: core.Fees{
			PlatformFees: req.PlatformFees,
			ShippingCost: req.ShippingCost,
			OtherFees:    req.OtherFees,
		},
		Notes: req.Notes,
	}
	if in.SaleDate == "" {
		in.SaleDate = s.today()
	}
	res, err := s.Sales.CreateSale(ctx, sellerID, in)
	s.observeSale("create", sellerID, err)
	return res, err
}

func (s *appService) UpdateSale(ctx context.Context, sellerID int64, req UpdateSaleRequest) (*core.SaleResult, error) {
	res, err := s.Sales.UpdateSale(ctx, sellerID, req.ID, core.SalePatch{
		ItemID:       req.ItemID,
		Platform:     req.Platform,
		SalePrice:    req.SalePrice,
		QuantitySold: req.QuantitySold,
		SaleDate:     req.SaleDate,
		PlatformFees: req.PlatformFees,
		ShippingCost: req.ShippingCost,
		OtherFees:    req.OtherFees,
		Notes:        req.Notes,
	})
	s.observeSale("update", sellerID, err)
	return res, err
}

func (s *appService) DeleteSale(ctx context.Context, sellerID, saleID int64) (*core.DeleteSaleResult, error) {
	res, err := s.Sales.DeleteSale(ctx, sellerID, saleID)
	s.observeSale("delete", sellerID, err)
	return res, err
}

func (s *appService) GetProfitReport(ctx context.Context, sellerID int64, from, to string) (*core.ProfitReport, error) {
	return s.Reports.GetProfitReport(ctx, sellerID, from, to)
}

// observeSale records the outcome of a sale mutation and logs persistence failures.
func (s *appService) observeSale(op string, sellerID int64, err error) {
	outcome := metrics.OutcomeOK
	var (
		se *core.InsufficientStockError
		pe *core.PersistenceError
	)
	switch {
	case err == nil:
	case errors.As(err, &se):
		outcome = metrics.OutcomeInsufficient
	case errors.As(err, &pe):
		outcome = metrics.OutcomeFailed
		s.log.Error("sale mutation failed",
			zap.String("op", op),
			zap.Int64("seller_id", sellerID),
			zap.String("stage", string(pe.Stage)),
			zap.Error(pe.Err),
		)
	case core.IsDomainError(err):
		outcome = metrics.OutcomeRejected
	default:
		outcome = metrics.OutcomeFailed
	}
	if s.metrics != nil {
		s.metrics.SaleMutation(op, outcome)
	}
}

// ── Intake ────────────────────────────────────────────────────────────────────

func (s *appService) ProposeSale(ctx context.Context, sellerID int64, text string) (*IntakeResult, error) {
	if s.intake == nil {
		return nil, ErrIntakeUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return nil, &core.ValidationError{Field: "text", Message: "is required"}
	}

	catalogue, err := s.catalogue(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalogue: %w", err)
	}

	proposal, err := s.intake.ProposeSale(ctx, text, catalogue, s.today())
	if err != nil {
		return nil, err
	}

	if proposal.NeedsClarification() {
		return &IntakeResult{
			Proposal:             proposal,
			IsClarification:      true,
			ClarificationMessage: proposal.Clarification,
		}, nil
	}

	in, err := proposal.Input()
	if err != nil {
		return &IntakeResult{Proposal: proposal, Problem: err.Error()}, nil
	}
	item, err := s.Inventory.GetItem(ctx, sellerID, in.ItemID)
	if err != nil {
		return &IntakeResult{Proposal: proposal, Problem: fmt.Sprintf("item %d is not in your inventory", in.ItemID)}, nil
	}
	if in.QuantitySold > item.QuantityOnHand {
		return &IntakeResult{Proposal: proposal, Problem: (&core.InsufficientStockError{
			Requested: in.QuantitySold, OnHand: item.QuantityOnHand,
		}).Error()}, nil
	}

	return &IntakeResult{
		Proposal: proposal,
		Input: &SaleRequest{
			ItemID:       in.ItemID,
			Platform:     in.Platform,
			SalePrice:    in.SalePrice,
			QuantitySold: in.QuantitySold,
			SaleDate:     in.SaleDate,
			PlatformFees: in.Fees.PlatformFees,
			ShippingCost: in.Fees.ShippingCost,
			OtherFees:    in.Fees.OtherFees,
			Notes:        in.Notes,
		},
	}, nil
}

// catalogue formats the seller's active items for the intake prompt.
func (s *appService) catalogue(ctx context.Context, sellerID int64) (string, error) {
	items, err := s.Inventory.ListItems(ctx, sellerID, false)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%d | %s | %s | %d | %s",
			it.ID, it.Title, it.SKU, it.QuantityOnHand, it.PurchasePrice.StringFixed(2)))
	}
	return strings.Join(lines, "\n"), nil
}

// ── Storefront ────────────────────────────────────────────────────────────────

func (s *appService) OpenStore(ctx context.Context, slug string) (*core.Seller, error) {
	return s.Storefront.OpenStore(ctx, slug)
}

func (s *appService) ListStoreItems(ctx context.Context, sellerID int64) (*StoreItemListResult, error) {
	items, err := s.Storefront.ListItems(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	out := &StoreItemListResult{Items: make([]StorefrontItem, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, StorefrontItem{
			ID:          it.ID,
			Title:       it.Title,
			Description: it.Description,
			Price:       it.ListPrice.StringFixed(2),
			Available:   it.QuantityOnHand,
		})
	}
	return out, nil
}

func (s *appService) RegisterCustomer(ctx context.Context, sellerID int64, req RegisterCustomerRequest) (*core.Customer, error) {
	return s.Storefront.RegisterCustomer(ctx, sellerID, core.RegisterCustomerInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     strings.TrimSpace(req.Name),
	})
}

func (s *appService) AuthenticateCustomer(ctx context.Context, sellerID int64, email, password string) (*core.Customer, error) {
	return s.Storefront.AuthenticateCustomer(ctx, sellerID, email, password)
}

func (s *appService) PlaceOrder(ctx context.Context, sellerID, customerID int64, req PlaceOrderRequest) (*core.PlacedOrder, error) {
	return s.Storefront.PlaceOrder(ctx, sellerID, customerID, core.PlaceOrderInput{
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		Email:    req.Email,
		Name:     strings.TrimSpace(req.Name),
	})
}

func (s *appService) TrackOrder(ctx context.Context, sellerID, orderID int64, email string) (*core.Order, error) {
	return s.Storefront.TrackOrder(ctx, sellerID, orderID, email)
}

func (s *appService) ListCustomerOrders(ctx context.Context, sellerID, customerID int64) (*OrderListResult, error) {
	orders, err := s.Storefront.ListCustomerOrders(ctx, sellerID, customerID)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders}, nil
}

// SessionLookups resolves guest orders and customer emails within one store.
func (s *appService) SessionLookups(sellerID int64) session.Lookups {
	return session.Lookups{
		OrderCustomer: func(ctx context.Context, orderID int64) (int64, error) {
			o, err := s.Storefront.GetOrder(ctx, sellerID, orderID)
			if err != nil {
				return 0, err
			}
			return o.CustomerID, nil
		},
		CustomerByEmail: func(ctx context.Context, email string) (int64, error) {
			c, err := s.Store.GetCustomerByEmail(ctx, sellerID, strings.ToLower(email))
			if err != nil {
				return 0, err
			}
			return c.ID, nil
		},
	}
}

func (s *appService) ListOrders(ctx context.Context, sellerID int64) (*OrderListResult, error) {
	orders, err := s.Storefront.ListOrders(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders}, nil
}

func (s *appService) FulfilOrder(ctx context.Context, sellerID, orderID int64) (*FulfilResult, error) {
	order, sale, err := s.Storefront.FulfilOrder(ctx, sellerID, orderID)
	s.observeSale("create", sellerID, err)
	if err != nil {
		return nil, err
	}
	return &FulfilResult{Order: order, Sale: sale}, nil
}

func (s *appService) ShipOrder(ctx context.Context, sellerID, orderID int64, trackingNumber string) (*core.Order, error) {
	return s.Storefront.ShipOrder(ctx, sellerID, orderID, trackingNumber)
}

func (s *appService) CancelOrder(ctx context.Context, sellerID, orderID int64) (*core.Order, error) {
	return s.Storefront.CancelOrder(ctx, sellerID, orderID)
}

func (s *appService) today() string {
	return s.now().Format("2006-01-02")
}
