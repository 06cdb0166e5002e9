package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/bhmida/bricodirect-backend/internal/app/repository"
	"github.com/bhmida/bricodirect-backend/internal/app/store"
	"github.com/bhmida/bricodirect-backend/internal/navigation"
	"github.com/bhmida/bricodirect-backend/pkg/logger"
)

var (
	ErrInvalidEvent = errors.New("invalid navigation event")
	ErrStaleView    = errors.New("view is stale")
)

const (
	ActionSelectCategory    = "selectCategory"
	ActionSelectSubcategory = "selectSubcategory"
	ActionSelectProduct     = "selectProduct"
	ActionGo                = "go"
	ActionBack              = "back"
)

// NavigateRequest is one navigation input from the client. Which id field is
// required depends on the action.
type NavigateRequest struct {
	Action     string `json:"action" binding:"required"`
	CategoryID *uint  `json:"category_id,omitempty"`
	ProductID  *uint  `json:"product_id,omitempty"`
	Screen     string `json:"screen,omitempty"`
}

// SessionView is the state the client renders from: the raw machine state,
// the derived title, and the version to echo back when committing an
// asynchronously loaded product view.
type SessionView struct {
	SessionID string           `json:"session_id"`
	State     navigation.State `json:"state"`
	Title     string           `json:"title"`
	Version   uint64           `json:"version"`
}

type SessionService interface {
	GetSession(ctx context.Context, sessionID string) (*SessionView, error)
	Navigate(ctx context.Context, sessionID string, req NavigateRequest) (*SessionView, error)
	CommitProductView(ctx context.Context, sessionID string, version uint64, productID uint) (*model.Product, error)
}

type sessionService struct {
	sessionStore store.SessionStore
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

func NewSessionService(sessionStore store.SessionStore, categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) SessionService {
	return &sessionService{
		sessionStore: sessionStore,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *sessionService) GetSession(ctx context.Context, sessionID string) (*SessionView, error) {
	snapshot, err := s.sessionStore.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return view(sessionID, snapshot), nil
}

// Navigate translates the request into a machine event, steps the machine,
// and persists the new snapshot under a bumped version.
func (s *sessionService) Navigate(ctx context.Context, sessionID string, req NavigateRequest) (*SessionView, error) {
	snapshot, err := s.sessionStore.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	event, err := s.buildEvent(req)
	if err != nil {
		logger.Warn("Rejected navigation event", map[string]interface{}{
			"session_id": sessionID,
			"action":     req.Action,
		})
		return nil, err
	}

	snapshot.State = navigation.Navigate(snapshot.State, event)
	snapshot.Version++

	if err := s.sessionStore.Save(ctx, sessionID, snapshot); err != nil {
		return nil, err
	}

	logger.Debug("Navigation event applied", map[string]interface{}{
		"session_id": sessionID,
		"action":     req.Action,
		"screen":     snapshot.State.Screen,
		"version":    snapshot.Version,
	})

	return view(sessionID, snapshot), nil
}

// CommitProductView resolves the data fetch behind a product-detail screen.
// The client echoes the version it navigated under; if the session has moved
// on since, or no longer shows that product, the fetch result is stale and
// must be discarded.
func (s *sessionService) CommitProductView(ctx context.Context, sessionID string, version uint64, productID uint) (*model.Product, error) {
	snapshot, err := s.sessionStore.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if snapshot.Version != version ||
		snapshot.State.Screen != navigation.ScreenProductDetail ||
		snapshot.State.SelectedProductID == nil ||
		*snapshot.State.SelectedProductID != productID {
		logger.Debug("Discarding stale product view", map[string]interface{}{
			"session_id":        sessionID,
			"requested_version": version,
			"current_version":   snapshot.Version,
			"product_id":        productID,
		})
		return nil, ErrStaleView
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *sessionService) buildEvent(req NavigateRequest) (navigation.Event, error) {
	switch req.Action {
	case ActionSelectCategory:
		if req.CategoryID == nil {
			return nil, ErrInvalidEvent
		}
		ref, err := s.categoryRef(*req.CategoryID)
		if err != nil {
			return nil, err
		}
		return navigation.SelectCategory{Category: *ref}, nil

	case ActionSelectSubcategory:
		if req.CategoryID == nil {
			return nil, ErrInvalidEvent
		}
		ref, err := s.categoryRef(*req.CategoryID)
		if err != nil {
			return nil, err
		}
		if ref.Parent == nil {
			return nil, ErrInvalidEvent
		}
		return navigation.SelectSubcategory{Subcategory: *ref}, nil

	case ActionSelectProduct:
		if req.ProductID == nil {
			return nil, ErrInvalidEvent
		}
		return navigation.SelectProduct{ProductID: *req.ProductID}, nil

	case ActionGo:
		screen := navigation.Screen(req.Screen)
		switch screen {
		case navigation.ScreenHome, navigation.ScreenBasket, navigation.ScreenCheckout,
			navigation.ScreenConfirmation, navigation.ScreenLogin, navigation.ScreenAccount:
			return navigation.Go{Screen: screen}, nil
		}
		return nil, ErrInvalidEvent

	case ActionBack:
		return navigation.Back{}, nil
	}

	return nil, ErrInvalidEvent
}

// categoryRef projects a category row to the shape the machine consumes,
// including the parent link back-navigation relies on.
func (s *sessionService) categoryRef(id uint) (*navigation.CategoryRef, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	ref := &navigation.CategoryRef{
		ID:               category.ID,
		Name:             category.Name,
		HasSubcategories: category.HasSubcategories(),
	}
	if category.Parent != nil {
		parent := category.Parent
		ref.Parent = &navigation.CategoryRef{
			ID:               parent.ID,
			Name:             parent.Name,
			HasSubcategories: true,
		}
	}
	return ref, nil
}

func view(sessionID string, snapshot *store.SessionSnapshot) *SessionView {
	return &SessionView{
		SessionID: sessionID,
		State:     snapshot.State,
		Title:     navigation.Title(snapshot.State),
		Version:   snapshot.Version,
	}
}
