package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"stock-api/internal/domain"
	"stock-api/internal/repository"
	"stock-api/internal/storage"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
	err   error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]domain.User{}}
}

func (r *memUserRepo) Init(context.Context) error { return nil }

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	stored := *user
	stored.Email = strings.ToLower(strings.TrimSpace(stored.Email))
	for _, u := range r.users {
		if u.Email == stored.Email {
			return nil, &domain.UserAlreadyExistsError{Email: stored.Email}
		}
	}
	if _, ok := r.users[stored.ID]; ok {
		return nil, &domain.UserAlreadyExistsError{ID: stored.ID}
	}
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	r.users[stored.ID] = stored
	return &stored, nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	stored := *user
	stored.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = stored
	return &stored, nil
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := r.FindByEmail(ctx, email)
	return u != nil, err
}

type memStockRepo struct {
	moves      []domain.StockMove
	products   []domain.Product
	warehouses []domain.Warehouse
	filters    []repository.StockMoveFilter
	err        error
}

func (r *memStockRepo) Init(context.Context) error { return nil }

func (r *memStockRepo) FindStockMoveByID(_ context.Context, id string) (*domain.StockMove, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, m := range r.moves {
		if m.ID == id {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (r *memStockRepo) FindStockMoves(_ context.Context, f repository.StockMoveFilter) (domain.Page[domain.StockMove], error) {
	r.filters = append(r.filters, f)
	if r.err != nil {
		return domain.Page[domain.StockMove]{}, r.err
	}
	var matched []domain.StockMove
	for _, m := range r.moves {
		if f.WarehouseID != "" && m.Warehouse.ID != f.WarehouseID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.Product != "" && !strings.Contains(strings.ToLower(m.Product.Name), strings.ToLower(f.Product)) {
			continue
		}
		matched = append(matched, m)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	p := domain.NewPagination(f.Page, f.PageSize, len(matched))
	start := p.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return domain.Page[domain.StockMove]{Data: matched[start:end], Pagination: p}, nil
}

func (r *memStockRepo) CreateStockMove(_ context.Context, move *domain.StockMove) (*domain.StockMove, error) {
	r.moves = append(r.moves, *move)
	created := *move
	return &created, nil
}

func (r *memStockRepo) UpdateStockMove(_ context.Context, move *domain.StockMove) (*domain.StockMove, error) {
	for i := range r.moves {
		if r.moves[i].ID == move.ID {
			r.moves[i] = *move
			updated := *move
			return &updated, nil
		}
	}
	return nil, domain.ErrStockMoveNotFound
}

func (r *memStockRepo) FindProductByID(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *memStockRepo) FindAllProducts(context.Context) ([]domain.Product, error) {
	return r.products, r.err
}

func (r *memStockRepo) CreateProduct(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.products = append(r.products, *p)
	return p, nil
}

func (r *memStockRepo) FindWarehouseByID(_ context.Context, id string) (*domain.Warehouse, error) {
	for _, w := range r.warehouses {
		if w.ID == id {
			w := w
			return &w, nil
		}
	}
	return nil, nil
}

func (r *memStockRepo) FindAllWarehouses(context.Context) ([]domain.Warehouse, error) {
	return r.warehouses, r.err
}

func (r *memStockRepo) CreateWarehouse(_ context.Context, w *domain.Warehouse) (*domain.Warehouse, error) {
	r.warehouses = append(r.warehouses, *w)
	return w, nil
}

type putCall struct {
	bucket, key, contentType, body string
}

type fakeStorage struct {
	puts    []putCall
	objects []storage.ObjectInfo
	putErr  error
}

func (s *fakeStorage) PutObject(_ context.Context, bucket, key string, body io.Reader, contentType string) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.puts = append(s.puts, putCall{bucket: bucket, key: key, contentType: contentType, body: string(data)})
	return "s3://" + bucket + "/" + key, nil
}

func (s *fakeStorage) PresignGet(_ context.Context, bucket, key string, expires time.Duration) (string, error) {
	return "https://signed.example/" + bucket + "/" + key + "?expires=" + expires.String(), nil
}

func (s *fakeStorage) ListObjects(_ context.Context, _ string, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for _, o := range s.objects {
		if strings.HasPrefix(o.Key, prefix) {
			out = append(out, o)
		}
	}
	return out, nil
}
