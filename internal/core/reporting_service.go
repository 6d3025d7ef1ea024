package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// ProfitLine aggregates sales for one slice of a report.
type ProfitLine struct {
	Sales        int             `json:"sales"`
	UnitsSold    int             `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	CostOfGoods  decimal.Decimal `json:"cost_of_goods"`
	Fees         decimal.Decimal `json:"fees"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	NetProfit    decimal.Decimal `json:"net_profit"`
	ProfitMargin decimal.Decimal `json:"profit_margin"` // percent of revenue
}

func (l *ProfitLine) add(s *SaleRecord) {
	l.Sales++
	l.UnitsSold += s.QuantitySold
	l.Revenue = l.Revenue.Add(s.Revenue())
	l.CostOfGoods = l.CostOfGoods.Add(s.PurchasePrice.Mul(decimal.NewFromInt(int64(s.QuantitySold))))
	l.Fees = l.Fees.Add(s.Fees.Total())
	l.GrossProfit = l.GrossProfit.Add(s.GrossProfit)
	l.NetProfit = l.NetProfit.Add(s.NetProfit)
}

func (l *ProfitLine) finish() {
	l.ProfitMargin = MarginOf(l.NetProfit, l.Revenue)
}

// PlatformProfit is the per-platform slice of a ProfitReport.
type PlatformProfit struct {
	Platform Platform `json:"platform"`
	ProfitLine
}

// ProfitReport summarises a seller's sales over an inclusive date range.
// Empty From or To means unbounded.
type ProfitReport struct {
	SellerID   int64            `json:"seller_id"`
	From       string           `json:"from,omitempty"`
	To         string           `json:"to,omitempty"`
	Total      ProfitLine       `json:"total"`
	ByPlatform []PlatformProfit `json:"by_platform"`
}

// ReportingService builds read-only reports from recorded sales.
type ReportingService interface {
	GetProfitReport(ctx context.Context, sellerID int64, from, to string) (*ProfitReport, error)
}

type reportingService struct {
	store Store
}

// NewReportingService constructs a ReportingService over store.
func NewReportingService(store Store) ReportingService {
	return &reportingService{store: store}
}

// GetProfitReport totals the stored per-sale profit figures. Totals use the values
// captured on each sale, so later purchase price edits do not rewrite history.
func (s *reportingService) GetProfitReport(ctx context.Context, sellerID int64, from, to string) (*ProfitReport, error) {
	if err := checkDate("from", from); err != nil {
		return nil, err
	}
	if err := checkDate("to", to); err != nil {
		return nil, err
	}
	if from != "" && to != "" && from > to {
		return nil, invalid("from", "must not be after to")
	}

	sales, err := s.store.ListSales(ctx, sellerID, SaleFilter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("failed to load sales for report: %w", err)
	}

	report := &ProfitReport{SellerID: sellerID, From: from, To: to}
	byPlatform := map[Platform]*PlatformProfit{}
	for i := range sales {
		sale := &sales[i]
		report.Total.add(sale)
		p, ok := byPlatform[sale.Platform]
		if !ok {
			p = &PlatformProfit{Platform: sale.Platform}
			byPlatform[sale.Platform] = p
		}
		p.add(sale)
	}

	report.Total.finish()
	report.ByPlatform = make([]PlatformProfit, 0, len(byPlatform))
	for _, p := range byPlatform {
		p.finish()
		report.ByPlatform = append(report.ByPlatform, *p)
	}
	sort.Slice(report.ByPlatform, func(i, j int) bool {
		return report.ByPlatform[i].Platform < report.ByPlatform[j].Platform
	})
	return report, nil
}

// checkDate validates an optional YYYY-MM-DD bound.
func checkDate(field, v string) error {
	if v == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, v); err != nil {
		return invalid(field, "must be YYYY-MM-DD, got %q", v)
	}
	return nil
}
