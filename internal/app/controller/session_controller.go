package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bhmida/bricodirect-backend/internal/app/service"
	apperrors "github.com/bhmida/bricodirect-backend/internal/errors"
	"github.com/bhmida/bricodirect-backend/internal/middleware"
	"github.com/bhmida/bricodirect-backend/pkg/util"
)

// SessionIDHeader carries the navigation session across requests. A request
// without one gets a fresh session; the id is echoed back on every response.
const SessionIDHeader = "X-Session-ID"

type SessionController struct {
	sessionService service.SessionService
}

func NewSessionController(sessionService service.SessionService) *SessionController {
	return &SessionController{
		sessionService: sessionService,
	}
}

type CommitViewRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Version   uint64 `json:"version"`
}

func sessionID(c *gin.Context) string {
	id := c.GetHeader(SessionIDHeader)
	if id == "" {
		id = util.GenerateSessionID()
	}
	c.Header(SessionIDHeader, id)
	return id
}

// GetSession returns the current navigation state
// GET /api/v1/session
func (ctrl *SessionController) GetSession(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	view, err := ctrl.sessionService.GetSession(c.Request.Context(), sessionID(c))
	if err != nil {
		log.Error("Failed to load navigation session", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": view,
	})
}

// Navigate applies one navigation event and returns the new state
// POST /api/v1/session/navigate
func (ctrl *SessionController) Navigate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Les informations saisies sont invalides")
		return
	}

	view, err := ctrl.sessionService.Navigate(c.Request.Context(), sessionID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEvent):
			apperrors.BadRequest(c, apperrors.SessionInvalidEvent, "Navigation invalide")
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Rayon introuvable")
		default:
			log.Error("Failed to apply navigation event", err, map[string]interface{}{
				"action": req.Action,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": view,
	})
}

// CommitProductView resolves the product fetch behind the detail screen. A
// 409 tells the client its fetch raced a later navigation and must be
// discarded.
// POST /api/v1/session/product-view
func (ctrl *SessionController) CommitProductView(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CommitViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Les informations saisies sont invalides")
		return
	}

	product, err := ctrl.sessionService.CommitProductView(c.Request.Context(), sessionID(c), req.Version, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStaleView):
			apperrors.Conflict(c, apperrors.SessionInvalidEvent, "La navigation a changé depuis cette requête")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Produit introuvable")
		default:
			log.Error("Failed to commit product view", err, map[string]interface{}{
				"product_id": req.ProductID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}
