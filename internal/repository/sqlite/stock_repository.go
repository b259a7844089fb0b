package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"stock-api/internal/domain"
	"stock-api/internal/repository"
)

const (
	dateLayout = "2006-01-02"

	defaultPageSize = 10

	selectStockMoveColumns = `
SELECT m.id, m.date, m.type, m.quantity, m.reference, p.id, p.name, p.sku, w.id, w.name
FROM stock_moves m
JOIN products p ON p.id = m.product_id
JOIN warehouses w ON w.id = m.warehouse_id`

	countStockMoves = `
SELECT COUNT(*)
FROM stock_moves m
JOIN products p ON p.id = m.product_id
JOIN warehouses w ON w.id = m.warehouse_id`
)

type StockRepository struct {
	db *sql.DB
}

func NewStockRepository(db *sql.DB) repository.StockRepository {
	return &StockRepository{db: db}
}

// Init migrates the schema the repository depends on.
func (r *StockRepository) Init(ctx context.Context) error {
	return Migrate(ctx, r.db, nil)
}

func (r *StockRepository) FindStockMoveByID(ctx context.Context, id string) (*domain.StockMove, error) {
	row := r.db.QueryRowContext(ctx, selectStockMoveColumns+`
WHERE m.id = ?`,
		id,
	)
	return scanStockMove(row)
}

func (r *StockRepository) FindStockMoves(ctx context.Context, filter repository.StockMoveFilter) (domain.Page[domain.StockMove], error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	where, args := stockMoveWhere(filter)

	var total int
	if err := r.db.QueryRowContext(ctx, countStockMoves+where, args...).Scan(&total); err != nil {
		return domain.Page[domain.StockMove]{}, fmt.Errorf("count stock moves: %w", err)
	}

	pagination := domain.NewPagination(page, pageSize, total)
	query := selectStockMoveColumns + where + `
ORDER BY m.date DESC, m.id DESC
LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, pageSize, pagination.Offset())...)
	if err != nil {
		return domain.Page[domain.StockMove]{}, fmt.Errorf("query stock moves: %w", err)
	}
	defer rows.Close()

	moves := make([]domain.StockMove, 0, pageSize)
	for rows.Next() {
		move, err := scanStockMove(rows)
		if err != nil {
			return domain.Page[domain.StockMove]{}, err
		}
		moves = append(moves, *move)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[domain.StockMove]{}, fmt.Errorf("iterate stock moves: %w", err)
	}

	return domain.Page[domain.StockMove]{Data: moves, Pagination: pagination}, nil
}

// stockMoveWhere builds the WHERE clause shared by the count and page queries.
func stockMoveWhere(filter repository.StockMoveFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if product := strings.TrimSpace(filter.Product); product != "" {
		pattern := likePattern(product)
		conds = append(conds, `(LOWER(p.name) LIKE ? ESCAPE '\' OR LOWER(COALESCE(p.sku, '')) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if warehouse := strings.TrimSpace(filter.WarehouseID); warehouse != "" {
		conds = append(conds, `m.warehouse_id = ?`)
		args = append(args, warehouse)
	}
	if filter.Type != "" {
		conds = append(conds, `m.type = ?`)
		args = append(args, string(filter.Type))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "\nWHERE " + strings.Join(conds, " AND "), args
}

func likePattern(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(s))
	return "%" + escaped + "%"
}

func (r *StockRepository) CreateStockMove(ctx context.Context, move *domain.StockMove) (*domain.StockMove, error) {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO stock_moves (id, date, product_id, warehouse_id, type, quantity, reference)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		move.ID,
		move.Date.Format(dateLayout),
		move.Product.ID,
		move.Warehouse.ID,
		string(move.Type),
		move.Quantity,
		move.Reference,
	)
	if err != nil {
		return nil, fmt.Errorf("insert stock move: %w", err)
	}
	return r.FindStockMoveByID(ctx, move.ID)
}

func (r *StockRepository) UpdateStockMove(ctx context.Context, move *domain.StockMove) (*domain.StockMove, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE stock_moves
SET date=?, type=?, quantity=?, reference=?
WHERE id=?`,
		move.Date.Format(dateLayout),
		string(move.Type),
		move.Quantity,
		move.Reference,
		move.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update stock move: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("stock move rows affected: %w", err)
	}
	if affected == 0 {
		return nil, domain.ErrStockMoveNotFound
	}

	return r.FindStockMoveByID(ctx, move.ID)
}

func (r *StockRepository) FindProductByID(ctx context.Context, id string) (*domain.Product, error) {
	var (
		product domain.Product
		sku     sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `SELECT id, name, sku FROM products WHERE id = ?`, id).
		Scan(&product.ID, &product.Name, &sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	product.SKU = nullStringPtr(sku)
	return &product, nil
}

func (r *StockRepository) FindAllProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, sku FROM products ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var (
			product domain.Product
			sku     sql.NullString
		)
		if err := rows.Scan(&product.ID, &product.Name, &sku); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		product.SKU = nullStringPtr(sku)
		products = append(products, product)
	}

	return products, rows.Err()
}

func (r *StockRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	var sku any
	if product.SKU != nil {
		sku = *product.SKU
	}
	if _, err := r.db.ExecContext(ctx, `INSERT INTO products (id, name, sku) VALUES (?, ?, ?)`,
		product.ID, product.Name, sku); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	created := *product
	return &created, nil
}

func (r *StockRepository) FindWarehouseByID(ctx context.Context, id string) (*domain.Warehouse, error) {
	var warehouse domain.Warehouse
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM warehouses WHERE id = ?`, id).
		Scan(&warehouse.ID, &warehouse.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan warehouse: %w", err)
	}
	return &warehouse, nil
}

func (r *StockRepository) FindAllWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM warehouses ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query warehouses: %w", err)
	}
	defer rows.Close()

	warehouses := []domain.Warehouse{}
	for rows.Next() {
		var warehouse domain.Warehouse
		if err := rows.Scan(&warehouse.ID, &warehouse.Name); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		warehouses = append(warehouses, warehouse)
	}

	return warehouses, rows.Err()
}

func (r *StockRepository) CreateWarehouse(ctx context.Context, warehouse *domain.Warehouse) (*domain.Warehouse, error) {
	if _, err := r.db.ExecContext(ctx, `INSERT INTO warehouses (id, name) VALUES (?, ?)`,
		warehouse.ID, warehouse.Name); err != nil {
		return nil, fmt.Errorf("insert warehouse: %w", err)
	}
	created := *warehouse
	return &created, nil
}

func scanStockMove(scanner interface {
	Scan(dest ...any) error
}) (*domain.StockMove, error) {
	var (
		move     domain.StockMove
		date     string
		moveType string
		sku      sql.NullString
	)

	if err := scanner.Scan(
		&move.ID,
		&date,
		&moveType,
		&move.Quantity,
		&move.Reference,
		&move.Product.ID,
		&move.Product.Name,
		&sku,
		&move.Warehouse.ID,
		&move.Warehouse.Name,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan stock move: %w", err)
	}

	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("parse stock move date %q: %w", date, err)
	}
	move.Date = parsed
	move.Type = domain.StockMoveType(moveType)
	move.Product.SKU = nullStringPtr(sku)

	return &move, nil
}

func nullStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
