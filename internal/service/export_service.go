package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	mathrand "math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"stock-api/internal/domain"
	"stock-api/internal/repository"
	"stock-api/internal/storage"
)

const csvContentType = "text/csv"

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

var csvHeader = []string{"id", "date", "product_id", "product_name", "sku", "warehouse_id", "warehouse_name", "type", "quantity", "reference"}

// ExportOptions configures where exports are written.
type ExportOptions struct {
	Bucket     string
	KeyPrefix  string
	PresignTTL time.Duration
}

// ExportResult describes a finished export.
type ExportResult struct {
	Key       string
	Location  string
	URL       string
	Rows      int
	ExpiresAt time.Time
}

// ExportService writes filtered stock move listings to object storage.
type ExportService interface {
	ExportStockMoves(ctx context.Context, q StockMoveQuery) (*ExportResult, error)
	ListExports(ctx context.Context) ([]storage.ObjectInfo, error)
}

type exportService struct {
	stock  repository.StockRepository
	store  storage.Service
	opts   ExportOptions
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewExportService returns an export service. A nil store or empty bucket
// disables exports; every call then fails with domain.ErrStorageUnavailable.
func NewExportService(stock repository.StockRepository, store storage.Service, opts ExportOptions, logger logrus.FieldLogger) ExportService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = 15 * time.Minute
	}
	opts.KeyPrefix = strings.Trim(opts.KeyPrefix, "/")
	return &exportService{
		stock:  stock,
		store:  store,
		opts:   opts,
		logger: logger.WithField("component", "export"),
		now:    time.Now,
	}
}

func (s *exportService) enabled() bool {
	return s.store != nil && s.opts.Bucket != ""
}

func (s *exportService) ExportStockMoves(ctx context.Context, q StockMoveQuery) (*ExportResult, error) {
	if !s.enabled() {
		return nil, domain.ErrStorageUnavailable
	}

	filter, err := q.Filter()
	if err != nil {
		return nil, err
	}
	filter.Page = 1
	filter.PageSize = MaxPageSize

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	rows := 0
	for {
		page, err := s.stock.FindStockMoves(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list stock moves: %w", err)
		}
		for _, m := range page.Data {
			if err := w.Write(csvRecord(m)); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
			rows++
		}
		if filter.Page >= page.Pagination.TotalPages || len(page.Data) == 0 {
			break
		}
		filter.Page++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	now := s.now().UTC()
	key := s.objectKey(now)
	location, err := s.store.PutObject(ctx, s.opts.Bucket, key, &buf, csvContentType)
	if err != nil {
		return nil, err
	}
	url, err := s.store.PresignGet(ctx, s.opts.Bucket, key, s.opts.PresignTTL)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"key": key, "rows": rows}).Info("stock moves exported")
	return &ExportResult{
		Key:       key,
		Location:  location,
		URL:       url,
		Rows:      rows,
		ExpiresAt: now.Add(s.opts.PresignTTL),
	}, nil
}

func (s *exportService) ListExports(ctx context.Context) ([]storage.ObjectInfo, error) {
	if !s.enabled() {
		return nil, domain.ErrStorageUnavailable
	}
	prefix := ""
	if s.opts.KeyPrefix != "" {
		prefix = s.opts.KeyPrefix + "/"
	}
	return s.store.ListObjects(ctx, s.opts.Bucket, prefix)
}

// objectKey names an export so keys under a prefix list in creation order.
func (s *exportService) objectKey(at time.Time) string {
	entropyMu.Lock()
	id := ulid.MustNew(ulid.Timestamp(at), entropy)
	entropyMu.Unlock()

	name := fmt.Sprintf("stock-moves-%s-%s.csv", at.Format("20060102T150405Z"), id)
	if s.opts.KeyPrefix == "" {
		return name
	}
	return s.opts.KeyPrefix + "/" + name
}

func csvRecord(m domain.StockMove) []string {
	sku := ""
	if m.Product.SKU != nil {
		sku = *m.Product.SKU
	}
	return []string{
		m.ID,
		m.Date.Format("2006-01-02"),
		m.Product.ID,
		m.Product.Name,
		sku,
		m.Warehouse.ID,
		m.Warehouse.Name,
		string(m.Type),
		strconv.Itoa(m.Quantity),
		m.Reference,
	}
}
