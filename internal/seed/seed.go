// Package seed fills an empty database with demo users, the product
// catalogue, warehouses and a batch of random stock moves. Every step skips
// rows that already exist, so running it twice is harmless.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"stock-api/internal/domain"
	"stock-api/internal/repository"
)

const (
	productLimit = 150
	moveCount    = 30
)

// Hasher hashes demo passwords.
type Hasher interface {
	Hash(password string) (string, error)
}

// Summary counts the rows created by a run.
type Summary struct {
	Users      int
	Products   int
	Warehouses int
	StockMoves int
}

type demoUser struct {
	id, name, lastName, email, password string
}

var demoUsers = []demoUser{
	{"1234567890", "Admin", "User", "admin@example.com", "admin123"},
	{"0987654321", "Test", "User", "test@example.com", "test123"},
	{"1122334455", "John", "Doe", "john.doe@example.com", "john123"},
	{"5544332211", "Jane", "Smith", "jane.smith@example.com", "jane123"},
}

var warehouses = []domain.Warehouse{
	{ID: "W001", Name: "Bodega Central"},
	{ID: "W002", Name: "Bodega Norte"},
	{ID: "W003", Name: "Bodega Sur"},
	{ID: "W004", Name: "Bodega Este"},
	{ID: "W005", Name: "Bodega Oeste"},
	{ID: "W006", Name: "Bodega Internacional"},
}

type category struct {
	name  string
	items []string
}

var catalogue = []category{
	{"Laptops", []string{"Dell XPS", "HP Pavilion", "Lenovo ThinkPad", "ASUS VivoBook", "Acer Aspire", "MSI Prestige", "Razer Blade", "LG Gram", "Samsung Galaxy Book", "Microsoft Surface Laptop", "Huawei MateBook", "MacBook Air", "MacBook Pro", "Alienware", "ROG Zephyrus"}},
	{"Smartphones", []string{"iPhone 15", "iPhone 14", "iPhone 13", "Samsung Galaxy S24", "Samsung Galaxy S23", "Samsung Galaxy A54", "Xiaomi 14", "Xiaomi 13", "Google Pixel 8", "Google Pixel 7", "OnePlus 12", "OnePlus 11", "OPPO Find X6", "Realme GT", "Motorola Edge", "Sony Xperia", "Nothing Phone", "Vivo X90"}},
	{"Tablets", []string{"iPad Pro 12.9", "iPad Pro 11", "iPad Air", "iPad Mini", "Samsung Galaxy Tab S9", "Samsung Galaxy Tab A9", "Lenovo Tab P12", "Xiaomi Pad 6", "Huawei MatePad", "Amazon Fire HD", "Surface Pro"}},
	{"Monitors", []string{"Dell UltraSharp", "LG UltraGear", "Samsung Odyssey", "ASUS ProArt", "BenQ PD", "AOC Gaming", "ViewSonic VP", "HP Z27", "Acer Predator", "MSI Optix", "Gigabyte M32U"}},
	{"Keyboards", []string{"Logitech MX Keys", "Corsair K95", "Razer BlackWidow", "Keychron K8", "Anne Pro 2", "Ducky One 3", "HyperX Alloy", "SteelSeries Apex", "ASUS ROG Strix", "Cooler Master CK"}},
	{"Mice", []string{"Logitech MX Master 3S", "Razer DeathAdder", "Corsair Dark Core", "SteelSeries Rival", "Glorious Model O", "Logitech G502", "Razer Viper", "BenQ Zowie EC", "Roccat Kone"}},
	{"Headphones", []string{"Sony WH-1000XM5", "Bose QuietComfort", "Apple AirPods Max", "Sennheiser Momentum", "Jabra Elite", "Samsung Galaxy Buds", "Beats Studio", "Audio-Technica ATH", "HyperX Cloud"}},
	{"Smartwatches", []string{"Apple Watch Series 9", "Samsung Galaxy Watch 6", "Garmin Fenix", "Fitbit Sense", "Amazfit GTR", "Huawei Watch GT", "TicWatch Pro"}},
	{"Cameras", []string{"Canon EOS R6", "Sony A7 IV", "Nikon Z6 II", "Fujifilm X-T5", "Panasonic Lumix S5", "GoPro Hero 12", "DJI Osmo Action"}},
	{"Storage", []string{"Samsung SSD 980 PRO", "WD Black SN850X", "Crucial P5 Plus", "Seagate Barracuda", "Kingston NV2", "Sandisk Extreme"}},
}

var variants = []string{"", " Plus", " Pro"}

var references = map[domain.StockMoveType][]string{
	domain.StockMoveIn: {
		"Compra a proveedor principal", "Restock mensual programado", "Importación directa desde fábrica",
		"Compra por demanda alta", "Stock de seguridad Q1", "Pedido especial corporativo",
		"Reposición automática", "Compra al por mayor", "Importación urgente", "Pedido regular trimestral",
	},
	domain.StockMoveOut: {
		"Venta online - Cliente premium", "Venta en tienda física", "Pedido corporativo - Empresa XYZ",
		"Distribución a sucursales", "Venta mayorista B2B", "Cliente VIP - Pedido especial",
		"Pedido express mismo día", "Venta campaña promocional", "Pre-orden cumplida", "Venta Black Friday",
	},
	domain.StockMoveAdjust: {
		"Ajuste por inventario físico mensual", "Corrección de stock por auditoría", "Producto dañado en tránsito",
		"Devolución proveedor - Defecto", "Ajuste por diferencia sistema", "Corrección error registro",
		"Merma detectada en bodega", "Reconciliación fin de mes", "Ajuste contable trimestral",
	},
}

// Seeder writes the demo data set through the repositories.
type Seeder struct {
	users  repository.UserRepository
	stock  repository.StockRepository
	hasher Hasher
	rng    *rand.Rand
	logger logrus.FieldLogger
}

func New(users repository.UserRepository, stock repository.StockRepository, hasher Hasher, rng *rand.Rand, logger logrus.FieldLogger) *Seeder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Seeder{users: users, stock: stock, hasher: hasher, rng: rng, logger: logger}
}

// Run seeds users, products, warehouses and stock moves in that order.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var (
		sum Summary
		err error
	)
	if sum.Users, err = s.seedUsers(ctx); err != nil {
		return sum, err
	}
	if sum.Products, err = s.seedProducts(ctx); err != nil {
		return sum, err
	}
	if sum.Warehouses, err = s.seedWarehouses(ctx); err != nil {
		return sum, err
	}
	if sum.StockMoves, err = s.seedStockMoves(ctx); err != nil {
		return sum, err
	}
	return sum, nil
}

func (s *Seeder) seedUsers(ctx context.Context) (int, error) {
	created := 0
	for _, du := range demoUsers {
		exists, err := s.users.ExistsByEmail(ctx, du.email)
		if err != nil {
			return created, fmt.Errorf("check user %s: %w", du.email, err)
		}
		if exists {
			continue
		}
		hash, err := s.hasher.Hash(du.password)
		if err != nil {
			return created, err
		}
		user, err := domain.NewUser(du.id, du.name, du.lastName, du.email, hash)
		if err != nil {
			return created, err
		}
		if _, err := s.users.Create(ctx, user); err != nil {
			return created, fmt.Errorf("create user %s: %w", du.email, err)
		}
		created++
	}
	s.logger.WithField("created", created).Info("users seeded")
	return created, nil
}

// Products builds the catalogue: up to three variants per item, capped at
// 150 products with sequential ids and category based SKUs.
func Products() []domain.Product {
	products := make([]domain.Product, 0, productLimit)
	for _, cat := range catalogue {
		prefix := cat.name[:3]
		for _, item := range cat.items {
			for _, v := range variants {
				if len(products) == productLimit {
					return products
				}
				n := len(products) + 1
				sku := fmt.Sprintf("%s-%04d", strings.ToUpper(prefix), n)
				products = append(products, domain.Product{
					ID:   fmt.Sprintf("P%03d", n),
					Name: item + v,
					SKU:  &sku,
				})
			}
		}
	}
	return products
}

func (s *Seeder) seedProducts(ctx context.Context) (int, error) {
	created := 0
	for _, p := range Products() {
		p := p
		existing, err := s.stock.FindProductByID(ctx, p.ID)
		if err != nil {
			return created, fmt.Errorf("find product %s: %w", p.ID, err)
		}
		if existing != nil {
			continue
		}
		if _, err := s.stock.CreateProduct(ctx, &p); err != nil {
			return created, err
		}
		created++
	}
	s.logger.WithField("created", created).Info("products seeded")
	return created, nil
}

func (s *Seeder) seedWarehouses(ctx context.Context) (int, error) {
	created := 0
	for _, w := range warehouses {
		w := w
		existing, err := s.stock.FindWarehouseByID(ctx, w.ID)
		if err != nil {
			return created, fmt.Errorf("find warehouse %s: %w", w.ID, err)
		}
		if existing != nil {
			continue
		}
		if _, err := s.stock.CreateWarehouse(ctx, &w); err != nil {
			return created, err
		}
		created++
	}
	s.logger.WithField("created", created).Info("warehouses seeded")
	return created, nil
}

func (s *Seeder) seedStockMoves(ctx context.Context) (int, error) {
	products, err := s.stock.FindAllProducts(ctx)
	if err != nil {
		return 0, err
	}
	whs, err := s.stock.FindAllWarehouses(ctx)
	if err != nil {
		return 0, err
	}
	if len(products) == 0 || len(whs) == 0 {
		return 0, fmt.Errorf("products and warehouses must be seeded before stock moves")
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	created := 0
	for i := 0; i < moveCount; i++ {
		move := s.randomMove(fmt.Sprintf("SM%03d", i+1), start, products, whs)

		existing, err := s.stock.FindStockMoveByID(ctx, move.ID)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}
		if err := move.Validate(); err != nil {
			return created, fmt.Errorf("stock move %s: %w", move.ID, err)
		}
		if _, err := s.stock.CreateStockMove(ctx, move); err != nil {
			return created, err
		}
		created++
	}
	s.logger.WithField("created", created).Info("stock moves seeded")
	return created, nil
}

// randomMove picks IN, OUT and ADJUST with weights 50/35/15 and a quantity
// range per type.
func (s *Seeder) randomMove(id string, start time.Time, products []domain.Product, whs []domain.Warehouse) *domain.StockMove {
	var (
		moveType domain.StockMoveType
		qty      int
	)
	switch r := s.rng.Float64(); {
	case r < 0.50:
		moveType, qty = domain.StockMoveIn, 20+s.rng.Intn(131)
	case r < 0.85:
		moveType, qty = domain.StockMoveOut, 5+s.rng.Intn(76)
	default:
		moveType, qty = domain.StockMoveAdjust, 1+s.rng.Intn(30)
	}
	refs := references[moveType]

	return &domain.StockMove{
		ID:        id,
		Date:      start.AddDate(0, 0, s.rng.Intn(181)),
		Product:   products[s.rng.Intn(len(products))],
		Warehouse: whs[s.rng.Intn(len(whs))],
		Type:      moveType,
		Quantity:  qty,
		Reference: refs[s.rng.Intn(len(refs))],
	}
}
