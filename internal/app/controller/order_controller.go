package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/bhmida/bricodirect-backend/internal/app/service"
	apperrors "github.com/bhmida/bricodirect-backend/internal/errors"
	"github.com/bhmida/bricodirect-backend/internal/export"
	"github.com/bhmida/bricodirect-backend/internal/middleware"
)

type OrderController struct {
	checkoutService service.CheckoutService
	orderService    service.OrderService
}

func NewOrderController(checkoutService service.CheckoutService, orderService service.OrderService) *OrderController {
	return &OrderController{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

type SubmitRequest struct {
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SubmitOrder turns the basket into an order. Retail customers only.
// POST /api/v1/orders
func (ctrl *OrderController) SubmitOrder(c *gin.Context) {
	ctrl.submit(c, model.DocumentOrder)
}

// SubmitQuotation turns the basket into a quotation. Professional customers only.
// POST /api/v1/quotations
func (ctrl *OrderController) SubmitQuotation(c *gin.Context) {
	ctrl.submit(c, model.DocumentQuotation)
}

func (ctrl *OrderController) submit(c *gin.Context, documentType model.DocumentType) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Les informations saisies sont invalides")
		return
	}

	order, err := ctrl.checkoutService.Submit(c.Request.Context(), userID, cartID(userID), documentType, service.CheckoutInput{
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.OrderEmptyCart, "Votre panier est vide")
		case errors.Is(err, service.ErrWrongChannel):
			apperrors.Forbidden(c, "Ce type de document n'est pas disponible pour votre compte")
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.Conflict(c, apperrors.OrderInsufficientStock, "Stock insuffisant pour un des articles")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.Conflict(c, apperrors.ProductNotFound, "Un article du panier n'est plus disponible")
		default:
			log.Error("Failed to submit document", err, map[string]interface{}{
				"user_id":       userID,
				"document_type": documentType,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "order")
		}
		return
	}

	log.Info("Document submitted", map[string]interface{}{
		"user_id":       userID,
		"order_id":      order.ID,
		"number":        order.Number,
		"document_type": order.DocumentType,
	})

	c.JSON(http.StatusCreated, gin.H{
		"document": order,
	})
}

// ListMyOrders returns the authenticated customer's orders
// GET /api/v1/orders
func (ctrl *OrderController) ListMyOrders(c *gin.Context) {
	ctrl.listMine(c, model.DocumentOrder)
}

// ListMyQuotations returns the authenticated customer's quotations
// GET /api/v1/quotations
func (ctrl *OrderController) ListMyQuotations(c *gin.Context) {
	ctrl.listMine(c, model.DocumentQuotation)
}

func (ctrl *OrderController) listMine(c *gin.Context, documentType model.DocumentType) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	documents, err := ctrl.orderService.GetUserDocuments(userID, documentType)
	if err != nil {
		log.Error("Failed to fetch user documents", err, map[string]interface{}{
			"user_id":       userID,
			"document_type": documentType,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
		"count":     len(documents),
	})
}

// GetMyDocument returns one of the customer's documents
// GET /api/v1/documents/:id
func (ctrl *OrderController) GetMyDocument(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Identifiant invalide")
		return
	}

	document, err := ctrl.orderService.GetDocumentByID(userID, id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Document introuvable")
			return
		}
		log.Error("Failed to fetch document", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document": document,
	})
}

// ListDocuments returns all documents, optionally filtered by type
// GET /api/v1/admin/documents?type=order|quotation
func (ctrl *OrderController) ListDocuments(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	documentType := model.DocumentType(c.Query("type"))
	documents, err := ctrl.orderService.ListDocuments(documentType)
	if err != nil {
		log.Error("Failed to list documents", err, map[string]interface{}{
			"document_type": documentType,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
		"count":     len(documents),
	})
}

// GetDocument returns any document by id
// GET /api/v1/admin/documents/:id
func (ctrl *OrderController) GetDocument(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Identifiant invalide")
		return
	}

	document, err := ctrl.orderService.GetDocument(id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Document introuvable")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document": document,
	})
}

// UpdateOrderStatus moves an order along its lifecycle
// PUT /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Identifiant invalide")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Les informations saisies sont invalides")
		return
	}

	document, err := ctrl.orderService.UpdateOrderStatus(id, model.DocumentStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Commande introuvable")
		case errors.Is(err, service.ErrInvalidStatusTransition):
			apperrors.Conflict(c, apperrors.OrderInvalidTransition, "Changement de statut non autorisé")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": id,
				"status":   req.Status,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document": document,
	})
}

// ApproveQuotation approves a pending quotation
// POST /api/v1/admin/quotations/:id/approve
func (ctrl *OrderController) ApproveQuotation(c *gin.Context) {
	ctrl.decideQuotation(c, true)
}

// RejectQuotation rejects a quotation
// POST /api/v1/admin/quotations/:id/reject
func (ctrl *OrderController) RejectQuotation(c *gin.Context) {
	ctrl.decideQuotation(c, false)
}

func (ctrl *OrderController) decideQuotation(c *gin.Context, approve bool) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Identifiant invalide")
		return
	}

	var document *model.Order
	if approve {
		document, err = ctrl.orderService.ApproveQuotation(id)
	} else {
		document, err = ctrl.orderService.RejectQuotation(id)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Devis introuvable")
		case errors.Is(err, service.ErrNotAQuotation):
			apperrors.BadRequest(c, apperrors.OrderWrongChannel, "Ce document n'est pas un devis")
		case errors.Is(err, service.ErrInvalidStatusTransition):
			apperrors.Conflict(c, apperrors.OrderInvalidTransition, "Ce devis ne peut plus être modifié")
		default:
			log.Error("Failed to decide quotation", err, map[string]interface{}{
				"order_id": id,
				"approve":  approve,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("Quotation decided", map[string]interface{}{
		"order_id": id,
		"status":   document.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"document": document,
	})
}

// ExportDocuments streams an XLSX listing of documents
// GET /api/v1/admin/documents/export?type=order|quotation
func (ctrl *OrderController) ExportDocuments(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	documentType := model.DocumentType(c.Query("type"))
	documents, err := ctrl.orderService.ListDocuments(documentType)
	if err != nil {
		log.Error("Failed to fetch documents for export", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	workbook, err := export.OrdersWorkbook(documents)
	if err != nil {
		log.Error("Failed to build export workbook", err, nil)
		apperrors.InternalError(c, "")
		return
	}
	defer workbook.Close()

	filename := export.Filename(documentType, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		log.Error("Failed to stream export workbook", err, nil)
	}
}
