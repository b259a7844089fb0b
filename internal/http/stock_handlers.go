package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stock-api/internal/domain"
	"stock-api/internal/service"
)

const dateLayout = "2006-01-02"

type listStockMovesQuery struct {
	Page      *int   `form:"page" binding:"omitempty,min=1"`
	PageSize  *int   `form:"pageSize" binding:"omitempty,min=1,max=100"`
	Product   string `form:"product"`
	Warehouse string `form:"warehouse"`
	Type      string `form:"type"`
}

func (q listStockMovesQuery) toService() service.StockMoveQuery {
	out := service.StockMoveQuery{
		Product:   q.Product,
		Warehouse: q.Warehouse,
		Type:      q.Type,
	}
	if q.Page != nil {
		out.Page = *q.Page
	}
	if q.PageSize != nil {
		out.PageSize = *q.PageSize
	}
	return out
}

type updateReferenceRequest struct {
	Reference string `json:"reference" binding:"required"`
}

type createStockMoveRequest struct {
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
	ProductID   string `json:"productId" binding:"required"`
	WarehouseID string `json:"warehouseId" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=IN OUT ADJUST"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	Reference   string `json:"reference" binding:"required"`
}

type ProductDTO struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	SKU  *string `json:"sku"`
}

type WarehouseDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type StockMoveDTO struct {
	ID        string       `json:"id"`
	Date      string       `json:"date"`
	Product   ProductDTO   `json:"product"`
	Warehouse WarehouseDTO `json:"warehouse"`
	Type      string       `json:"type"`
	Quantity  int          `json:"quantity"`
	Reference string       `json:"reference"`
}

type PaginationDTO struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
}

type StockMovesListResponse struct {
	Data       []StockMoveDTO `json:"data"`
	Pagination PaginationDTO  `json:"pagination"`
}

type ExportResponse struct {
	Key       string `json:"key"`
	Location  string `json:"location"`
	URL       string `json:"url"`
	Rows      int    `json:"rows"`
	ExpiresAt string `json:"expiresAt"`
}

func (h *Handler) listStockMoves(c *gin.Context) {
	var q listStockMovesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.respondError(c, bindError(err))
		return
	}

	page, err := h.stock.GetStockMoves(c.Request.Context(), q.toService())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := StockMovesListResponse{
		Data: make([]StockMoveDTO, len(page.Data)),
		Pagination: PaginationDTO{
			CurrentPage: page.Pagination.CurrentPage,
			PageSize:    page.Pagination.PageSize,
			TotalItems:  page.Pagination.TotalItems,
			TotalPages:  page.Pagination.TotalPages,
		},
	}
	for i := range page.Data {
		resp.Data[i] = toStockMoveDTO(page.Data[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getStockMove(c *gin.Context) {
	move, err := h.stock.GetStockMoveByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStockMoveDTO(*move))
}

func (h *Handler) createStockMove(c *gin.Context) {
	var req createStockMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, bindError(err))
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		h.respondError(c, &domain.ValidationError{Field: "date", Message: "must be a YYYY-MM-DD date"})
		return
	}

	move, err := h.stock.CreateStockMove(c.Request.Context(), service.NewStockMoveInput{
		Date:        date,
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		Type:        domain.StockMoveType(req.Type),
		Quantity:    req.Quantity,
		Reference:   req.Reference,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.logger.WithFields(logrus.Fields{"stock_move_id": move.ID, "user_id": currentUserID(c)}).Info("stock move recorded")
	c.JSON(http.StatusCreated, toStockMoveDTO(*move))
}

func (h *Handler) updateStockMoveReference(c *gin.Context) {
	var req updateReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, bindError(err))
		return
	}

	move, err := h.stock.UpdateStockMoveReference(c.Request.Context(), c.Param("id"), req.Reference)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.logger.WithFields(logrus.Fields{"stock_move_id": move.ID, "user_id": currentUserID(c)}).Info("stock move reference updated")
	c.JSON(http.StatusOK, toStockMoveDTO(*move))
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.stock.GetAllProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	resp := make([]ProductDTO, len(products))
	for i := range products {
		resp[i] = toProductDTO(products[i])
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *Handler) listWarehouses(c *gin.Context) {
	warehouses, err := h.stock.GetAllWarehouses(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	resp := make([]WarehouseDTO, len(warehouses))
	for i := range warehouses {
		resp[i] = WarehouseDTO{ID: warehouses[i].ID, Name: warehouses[i].Name}
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *Handler) exportStockMoves(c *gin.Context) {
	var q listStockMovesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.respondError(c, bindError(err))
		return
	}
	if h.exports == nil {
		h.respondError(c, domain.ErrStorageUnavailable)
		return
	}

	res, err := h.exports.ExportStockMoves(c.Request.Context(), q.toService())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ExportResponse{
		Key:       res.Key,
		Location:  res.Location,
		URL:       res.URL,
		Rows:      res.Rows,
		ExpiresAt: res.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *Handler) listExports(c *gin.Context) {
	if h.exports == nil {
		h.respondError(c, domain.ErrStorageUnavailable)
		return
	}
	objects, err := h.exports.ListExports(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	resp := make([]StorageObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func toProductDTO(p domain.Product) ProductDTO {
	return ProductDTO{ID: p.ID, Name: p.Name, SKU: p.SKU}
}

func toStockMoveDTO(m domain.StockMove) StockMoveDTO {
	return StockMoveDTO{
		ID:        m.ID,
		Date:      m.Date.Format(dateLayout),
		Product:   toProductDTO(m.Product),
		Warehouse: WarehouseDTO{ID: m.Warehouse.ID, Name: m.Warehouse.Name},
		Type:      string(m.Type),
		Quantity:  m.Quantity,
		Reference: m.Reference,
	}
}
