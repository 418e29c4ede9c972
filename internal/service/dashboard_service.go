package service

import (
	"context"

	"optistore/internal/model"
)

const recentSalesLimit = 5

// DashboardStats is the landing page summary for one account.
type DashboardStats struct {
	CustomerCount int64             `json:"customer_count"`
	RecentSales   []model.Sale      `json:"recent_sales"`
	LowStock      []model.Inventory `json:"low_stock"`
}

type DashboardService interface {
	GetDashboardStats(ctx context.Context, caller model.Caller) (*DashboardStats, error)
}

type dashboardService struct {
	customers     CustomerService
	sales         SalesService
	inventory     InventoryService
	lowStockLimit int
}

func NewDashboardService(customers CustomerService, sales SalesService, inventory InventoryService, lowStockLimit int) DashboardService {
	return &dashboardService{
		customers:     customers,
		sales:         sales,
		inventory:     inventory,
		lowStockLimit: lowStockLimit,
	}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context, caller model.Caller) (*DashboardStats, error) {
	count, err := s.customers.Count(ctx, caller)
	if err != nil {
		return nil, err
	}
	recent, err := s.sales.Recent(ctx, caller, recentSalesLimit)
	if err != nil {
		return nil, err
	}
	low, err := s.inventory.LowStock(ctx, s.lowStockLimit)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{CustomerCount: count, RecentSales: recent, LowStock: low}, nil
}
