package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"stock-api/internal/domain"
	"stock-api/internal/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// StockMoveQuery is a listing request as received from clients.
type StockMoveQuery struct {
	Page      int
	PageSize  int
	Product   string
	Warehouse string
	Type      string
}

// NewStockMoveInput describes a movement to record.
type NewStockMoveInput struct {
	Date        time.Time
	ProductID   string
	WarehouseID string
	Type        domain.StockMoveType
	Quantity    int
	Reference   string
}

// StockService exposes inventory movement use cases.
type StockService interface {
	GetStockMoves(ctx context.Context, q StockMoveQuery) (domain.Page[domain.StockMove], error)
	GetStockMoveByID(ctx context.Context, id string) (*domain.StockMove, error)
	UpdateStockMoveReference(ctx context.Context, id, reference string) (*domain.StockMove, error)
	CreateStockMove(ctx context.Context, in NewStockMoveInput) (*domain.StockMove, error)
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
	GetAllWarehouses(ctx context.Context) ([]domain.Warehouse, error)
}

type stockService struct {
	stock repository.StockRepository
}

func NewStockService(stock repository.StockRepository) StockService {
	return &stockService{stock: stock}
}

// Filter normalizes q into a store filter. Out of range paging values fall
// back to the defaults and unknown move types are rejected.
func (q StockMoveQuery) Filter() (repository.StockMoveFilter, error) {
	f := repository.StockMoveFilter{
		Page:        q.Page,
		PageSize:    q.PageSize,
		Product:     strings.TrimSpace(q.Product),
		WarehouseID: strings.TrimSpace(q.Warehouse),
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	if t := strings.ToUpper(strings.TrimSpace(q.Type)); t != "" {
		moveType := domain.StockMoveType(t)
		if !moveType.Valid() {
			return f, &domain.ValidationError{Field: "type", Message: "type must be one of IN, OUT, ADJUST"}
		}
		f.Type = moveType
	}
	return f, nil
}

func (s *stockService) GetStockMoves(ctx context.Context, q StockMoveQuery) (domain.Page[domain.StockMove], error) {
	filter, err := q.Filter()
	if err != nil {
		return domain.Page[domain.StockMove]{}, err
	}
	page, err := s.stock.FindStockMoves(ctx, filter)
	if err != nil {
		return domain.Page[domain.StockMove]{}, fmt.Errorf("list stock moves: %w", err)
	}
	return page, nil
}

func (s *stockService) GetStockMoveByID(ctx context.Context, id string) (*domain.StockMove, error) {
	move, err := s.stock.FindStockMoveByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find stock move: %w", err)
	}
	if move == nil {
		return nil, domain.ErrStockMoveNotFound
	}
	return move, nil
}

func (s *stockService) UpdateStockMoveReference(ctx context.Context, id, reference string) (*domain.StockMove, error) {
	move, err := s.GetStockMoveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := move.UpdateReference(strings.TrimSpace(reference)); err != nil {
		return nil, err
	}
	return s.stock.UpdateStockMove(ctx, move)
}

func (s *stockService) CreateStockMove(ctx context.Context, in NewStockMoveInput) (*domain.StockMove, error) {
	product, err := s.stock.FindProductByID(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return nil, &domain.ValidationError{Field: "productId", Message: "product does not exist"}
	}
	warehouse, err := s.stock.FindWarehouseByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("find warehouse: %w", err)
	}
	if warehouse == nil {
		return nil, &domain.ValidationError{Field: "warehouseId", Message: "warehouse does not exist"}
	}

	move := &domain.StockMove{
		ID:        uuid.NewString(),
		Date:      in.Date,
		Product:   *product,
		Warehouse: *warehouse,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reference: strings.TrimSpace(in.Reference),
	}
	if err := move.Validate(); err != nil {
		return nil, err
	}
	return s.stock.CreateStockMove(ctx, move)
}

func (s *stockService) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	return s.stock.FindAllProducts(ctx)
}

func (s *stockService) GetAllWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	return s.stock.FindAllWarehouses(ctx)
}
