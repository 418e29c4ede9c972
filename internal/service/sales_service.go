package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"optistore/internal/apperr"
	"optistore/internal/metrics"
	"optistore/internal/model"
	"optistore/internal/pricing"
	"optistore/internal/repository"
	"optistore/pkg/validator"
)

// SalesQuery is the sales filter form. Start and End are inclusive days.
type SalesQuery struct {
	Start      *time.Time `json:"start_date"`
	End        *time.Time `json:"end_date"`
	CategoryID *uuid.UUID `json:"category"`
}

type SalesReport struct {
	Sales      []model.Sale    `json:"sales"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// GSTRow is one tax-rate bucket of the GST report.
type GSTRow struct {
	Rate       decimal.Decimal `json:"rate"`
	TotalSales decimal.Decimal `json:"total_sales"`
	TotalTax   decimal.Decimal `json:"total_tax"`
}

type GSTReport struct {
	Rows       []GSTRow        `json:"rows"`
	TotalSales decimal.Decimal `json:"total_sales"`
	TotalTax   decimal.Decimal `json:"total_tax"`
}

// SalesExportRow is one spreadsheet line of the sales export.
type SalesExportRow struct {
	Date     string
	Product  string
	Quantity int
	Price    decimal.Decimal
	Total    decimal.Decimal
	Customer string
}

// SalesExportHeader matches the order of SalesExportRow.Cells.
var SalesExportHeader = []string{"Date", "Product", "Quantity", "Price", "Total", "Customer"}

func (r SalesExportRow) Cells() []interface{} {
	return []interface{}{r.Date, r.Product, r.Quantity, r.Price.InexactFloat64(), r.Total.InexactFloat64(), r.Customer}
}

type SalesService interface {
	Record(ctx context.Context, caller model.Caller, req *model.Sale) (*model.Sale, error)
	Get(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.Sale, error)
	Delete(ctx context.Context, caller model.Caller, id uuid.UUID) error
	Report(ctx context.Context, caller model.Caller, q SalesQuery) (*SalesReport, error)
	GSTReport(ctx context.Context, caller model.Caller, q SalesQuery) (*GSTReport, error)
	ExportRows(ctx context.Context, caller model.Caller, q SalesQuery) ([]SalesExportRow, error)
	Recent(ctx context.Context, caller model.Caller, limit int) ([]model.Sale, error)
}

type salesService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
}

func NewSalesService(sRepo repository.SaleRepository, pRepo repository.ProductRepository, cRepo repository.CustomerRepository) SalesService {
	return &salesService{
		saleRepo:     sRepo,
		productRepo:  pRepo,
		customerRepo: cRepo,
	}
}

// Record stores a sale made by caller. Total is always quantity * price,
// whatever the request carried.
func (s *salesService) Record(ctx context.Context, caller model.Caller, req *model.Sale) (*model.Sale, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	sale := &model.Sale{
		Date:        req.Date,
		ProductID:   req.ProductID,
		CustomerID:  req.CustomerID,
		Quantity:    req.Quantity,
		Price:       req.Price,
		CreatedByID: &caller.AccountID,
	}
	if sale.Date.IsZero() {
		sale.Date = time.Now()
	}
	if err := validator.Check(sale); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindByID(ctx, sale.ProductID); err != nil {
		if isNotFound(err) {
			return nil, apperr.Invalid("product_id", "exists", "unknown product")
		}
		return nil, err
	}
	if sale.CustomerID != nil {
		customer, err := s.customerRepo.FindByID(ctx, *sale.CustomerID)
		if err != nil {
			if isNotFound(err) {
				return nil, apperr.Invalid("customer_id", "exists", "unknown customer")
			}
			return nil, err
		}
		if err := requireOwner(caller, customer.AccountID, "customer"); err != nil {
			return nil, err
		}
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, err
	}
	metrics.SalesRecorded.Inc()
	return sale, nil
}

func (s *salesService) Get(ctx context.Context, caller model.Caller, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireSaleOwner(caller, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *salesService) Delete(ctx context.Context, caller model.Caller, id uuid.UUID) error {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireSaleOwner(caller, sale); err != nil {
		return err
	}
	return s.saleRepo.Delete(ctx, id)
}

func (s *salesService) Report(ctx context.Context, caller model.Caller, q SalesQuery) (*SalesReport, error) {
	sales, err := s.filter(ctx, caller, q)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(sale.Total)
	}
	return &SalesReport{Sales: sales, TotalSales: total}, nil
}

// GSTReport buckets the filtered sales by effective GST rate (category rate
// when the category sets one, otherwise the product's own), lowest rate first.
func (s *salesService) GSTReport(ctx context.Context, caller model.Caller, q SalesQuery) (*GSTReport, error) {
	sales, err := s.filter(ctx, caller, q)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*GSTRow)
	for _, sale := range sales {
		if sale.Product == nil {
			continue
		}
		rate := sale.Product.EffectiveGSTRate()
		key := rate.StringFixed(2)
		row, ok := buckets[key]
		if !ok {
			row = &GSTRow{Rate: rate, TotalSales: decimal.Zero, TotalTax: decimal.Zero}
			buckets[key] = row
		}
		row.TotalSales = row.TotalSales.Add(sale.Total)
	}

	report := &GSTReport{Rows: make([]GSTRow, 0, len(buckets)), TotalSales: decimal.Zero, TotalTax: decimal.Zero}
	for _, row := range buckets {
		row.TotalTax = pricing.TaxOn(row.TotalSales, row.Rate)
		report.Rows = append(report.Rows, *row)
		report.TotalSales = report.TotalSales.Add(row.TotalSales)
		report.TotalTax = report.TotalTax.Add(row.TotalTax)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].Rate.LessThan(report.Rows[j].Rate)
	})
	return report, nil
}

// ExportRows flattens the filtered sales for the spreadsheet export.
func (s *salesService) ExportRows(ctx context.Context, caller model.Caller, q SalesQuery) ([]SalesExportRow, error) {
	sales, err := s.filter(ctx, caller, q)
	if err != nil {
		return nil, err
	}
	rows := make([]SalesExportRow, 0, len(sales))
	for _, sale := range sales {
		row := SalesExportRow{
			Date:     sale.Date.Format("2006-01-02"),
			Quantity: sale.Quantity,
			Price:    sale.Price,
			Total:    sale.Total,
			Customer: "N/A",
		}
		if sale.Product != nil {
			row.Product = sale.Product.Name
		}
		if sale.Customer != nil {
			row.Customer = sale.Customer.FullName()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *salesService) Recent(ctx context.Context, caller model.Caller, limit int) ([]model.Sale, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.saleRepo.Recent(ctx, caller.AccountID, limit)
}

func (s *salesService) filter(ctx context.Context, caller model.Caller, q SalesQuery) ([]model.Sale, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if q.Start != nil && q.End != nil && model.DateOnly(*q.Start).After(model.DateOnly(*q.End)) {
		return nil, apperr.Invalid("end_date", "gtefield", "end date must not be before start date")
	}
	return s.saleRepo.Filter(ctx, repository.SaleFilter{
		CreatedByID: caller.AccountID,
		Start:       q.Start,
		End:         q.End,
		CategoryID:  q.CategoryID,
	})
}

func requireSaleOwner(caller model.Caller, sale *model.Sale) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if !caller.OwnsPtr(sale.CreatedByID) {
		return apperr.Forbidden("sale")
	}
	return nil
}
