package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/bhmida/bricodirect-backend/internal/app/service"
	apperrors "github.com/bhmida/bricodirect-backend/internal/errors"
	"github.com/bhmida/bricodirect-backend/internal/middleware"
	"github.com/bhmida/bricodirect-backend/internal/pricing"
)

type ProductController struct {
	catalogService service.CatalogService
}

func NewProductController(catalogService service.CatalogService) *ProductController {
	return &ProductController{
		catalogService: catalogService,
	}
}

type ProductSizeRequest struct {
	ID            uint            `json:"id"`
	Label         string          `json:"label" binding:"required"`
	UnitType      string          `json:"unit_type"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	StockQuantity int             `json:"stock_quantity"`
	Position      int             `json:"position"`
}

type ProductPackRequest struct {
	ID            uint            `json:"id"`
	SizeID        *uint           `json:"size_id"`
	Label         string          `json:"label" binding:"required"`
	UnitType      string          `json:"unit_type"`
	PackQuantity  int             `json:"pack_quantity" binding:"required,gt=0"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	StockQuantity int             `json:"stock_quantity"`
}

type ProductRequest struct {
	Name          string               `json:"name" binding:"required"`
	Description   string               `json:"description"`
	SKU           string               `json:"sku" binding:"required"`
	BasePrice     decimal.Decimal      `json:"base_price" binding:"required"`
	StockQuantity int                  `json:"stock_quantity"`
	Unit          string               `json:"unit"`
	ImageURL      string               `json:"image_url"`
	CategoryID    uint                 `json:"category_id" binding:"required"`
	Sizes         []ProductSizeRequest `json:"sizes"`
	Packs         []ProductPackRequest `json:"packs"`
}

// GetProduct returns a product with its size table and pack list, plus the
// resolved selection for the requested size_id/pack_id query parameters. The
// selection is what the detail screen renders as price and stock.
// GET /api/v1/products/:id?size_id=&pack_id=
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Identifiant invalide")
		return
	}

	product, err := ctrl.catalogService.GetProduct(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Produit introuvable")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	selection := pricing.Resolve(product, parseIDQuery(c, "size_id"), parseIDQuery(c, "pack_id"))

	c.JSON(http.StatusOK, gin.H{
		"product":   product,
		"selection": selection,
	})
}

// SearchProducts searches the catalog by name or SKU
// GET /api/v1/products/search?q=
func (ctrl *ProductController) SearchProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query := c.Query("q")
	products, err := ctrl.catalogService.SearchProducts(query)
	if err != nil {
		log.Error("Failed to search products", err, map[string]interface{}{
			"query": query,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// CreateProduct creates a product with its variants
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Les informations saisies sont invalides")
		return
	}

	product := productFromRequest(&req)
	if err := ctrl.catalogService.CreateProduct(product); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.BadRequest(c, apperrors.CategoryNotFound, "Rayon introuvable")
			return
		}
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": req.Name,
			"sku":  req.SKU,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
	})

	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

// UpdateProduct updates a product and replaces its variants
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Identifiant invalide")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Les informations saisies sont invalides")
		return
	}

	if _, err := ctrl.catalogService.GetProduct(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Produit introuvable")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	product := productFromRequest(&req)
	product.ID = id
	for i := range product.Sizes {
		product.Sizes[i].ProductID = id
	}
	for i := range product.Packs {
		product.Packs[i].ProductID = id
	}

	if err := ctrl.catalogService.UpdateProduct(product); err != nil {
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// DeleteProduct deletes a product
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Identifiant invalide")
		return
	}

	if err := ctrl.catalogService.DeleteProduct(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Produit introuvable")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		return
	}

	log.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit supprimé",
	})
}

func productFromRequest(req *ProductRequest) *model.Product {
	product := &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		SKU:           req.SKU,
		BasePrice:     req.BasePrice,
		StockQuantity: req.StockQuantity,
		Unit:          req.Unit,
		ImageURL:      req.ImageURL,
		CategoryID:    req.CategoryID,
	}
	for _, s := range req.Sizes {
		product.Sizes = append(product.Sizes, model.ProductSize{
			ID:            s.ID,
			Label:         s.Label,
			UnitType:      s.UnitType,
			Price:         s.Price,
			StockQuantity: s.StockQuantity,
			Position:      s.Position,
		})
	}
	for _, p := range req.Packs {
		product.Packs = append(product.Packs, model.ProductPack{
			ID:            p.ID,
			SizeID:        p.SizeID,
			Label:         p.Label,
			UnitType:      p.UnitType,
			PackQuantity:  p.PackQuantity,
			Price:         p.Price,
			StockQuantity: p.StockQuantity,
		})
	}
	return product
}

// parseIDQuery reads an optional uint query parameter, nil when absent or
// malformed.
func parseIDQuery(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	id := uint(parsed)
	return &id
}
