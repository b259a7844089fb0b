package repository

import (
	"context"

	"stock-api/internal/domain"
)

// StockMoveFilter narrows a stock move listing. Empty fields are ignored.
type StockMoveFilter struct {
	Page        int
	PageSize    int
	Product     string
	WarehouseID string
	Type        domain.StockMoveType
}

// StockRepository exposes persistence operations for products, warehouses
// and stock moves.
type StockRepository interface {
	Init(ctx context.Context) error
	FindStockMoveByID(ctx context.Context, id string) (*domain.StockMove, error)
	FindStockMoves(ctx context.Context, filter StockMoveFilter) (domain.Page[domain.StockMove], error)
	CreateStockMove(ctx context.Context, move *domain.StockMove) (*domain.StockMove, error)
	UpdateStockMove(ctx context.Context, move *domain.StockMove) (*domain.StockMove, error)

	FindProductByID(ctx context.Context, id string) (*domain.Product, error)
	FindAllProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)

	FindWarehouseByID(ctx context.Context, id string) (*domain.Warehouse, error)
	FindAllWarehouses(ctx context.Context) ([]domain.Warehouse, error)
	CreateWarehouse(ctx context.Context, warehouse *domain.Warehouse) (*domain.Warehouse, error)
}
