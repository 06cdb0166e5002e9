// Package navigation implements the storefront screen state machine. There is
// no history stack: the back target is recomputed from the current state alone
// using the breadcrumb fields, which is enough for the shallow three-level
// category hierarchy the store exposes.
package navigation

type Screen string

const (
	ScreenHome            Screen = "home"
	ScreenCategoryList    Screen = "categoryList"
	ScreenSubcategoryList Screen = "subcategoryList"
	ScreenProductDetail   Screen = "productDetail"
	ScreenBasket          Screen = "basket"
	ScreenCheckout        Screen = "checkout"
	ScreenConfirmation    Screen = "confirmation"
	ScreenLogin           Screen = "login"
	ScreenAccount         Screen = "account"
)

// CategoryRef is the category shape the machine needs: identity, whether the
// category has subcategories, and the parent link used by back-navigation.
type CategoryRef struct {
	ID               uint         `json:"id"`
	Name             string       `json:"name"`
	HasSubcategories bool         `json:"has_subcategories"`
	Parent           *CategoryRef `json:"parent,omitempty"`
}

// State is the full screen state. ParentCategory is set only when the active
// category or product was reached through a subcategory listing; it is the
// sole input back-navigation needs to decide whether "up" means the
// subcategory list or home.
type State struct {
	Screen                Screen       `json:"screen"`
	SelectedCategoryID    *uint        `json:"selected_category_id,omitempty"`
	SelectedSubcategoryID *uint        `json:"selected_subcategory_id,omitempty"`
	SelectedProductID     *uint        `json:"selected_product_id,omitempty"`
	CurrentCategory       *CategoryRef `json:"current_category,omitempty"`
	ParentCategory        *CategoryRef `json:"parent_category,omitempty"`
}

// Home is the entry state.
func Home() State {
	return State{Screen: ScreenHome}
}

// Event is a navigation input. The concrete event types below are the only
// implementations.
type Event interface {
	isEvent()
}

// SelectCategory opens a top-level category. If the category has
// subcategories the user lands on the subcategory listing; otherwise the
// intermediate screen is skipped and the product grid opens directly.
type SelectCategory struct {
	Category CategoryRef
}

// SelectSubcategory opens a subcategory's product grid, recording the
// category it was reached through as the parent breadcrumb.
type SelectSubcategory struct {
	Subcategory CategoryRef
}

// SelectProduct opens a product detail screen, preserving the breadcrumb
// context of the listing it was selected from.
type SelectProduct struct {
	ProductID uint
}

// Go jumps forward to a context-free screen (basket, checkout, confirmation,
// login, account, home).
type Go struct {
	Screen Screen
}

// Back asks for the breadcrumb-consistent previous screen.
type Back struct{}

func (SelectCategory) isEvent()    {}
func (SelectSubcategory) isEvent() {}
func (SelectProduct) isEvent()     {}
func (Go) isEvent()                {}
func (Back) isEvent()              {}

// Navigate computes the next state. Pure: no side effects, data loading is
// the caller's business once it observes the new state. The state is replaced
// wholesale on every transition so stale breadcrumb fields cannot leak; the
// one exception is SelectProduct, which moves strictly forward within the
// same branch and keeps its listing context.
func Navigate(state State, event Event) State {
	switch ev := event.(type) {
	case SelectCategory:
		cat := ev.Category
		next := State{
			SelectedCategoryID: &cat.ID,
			CurrentCategory:    &cat,
		}
		if cat.HasSubcategories {
			next.Screen = ScreenSubcategoryList
		} else {
			next.Screen = ScreenCategoryList
		}
		return next

	case SelectSubcategory:
		sub := ev.Subcategory
		return State{
			Screen:                ScreenCategoryList,
			SelectedCategoryID:    &sub.ID,
			SelectedSubcategoryID: &sub.ID,
			CurrentCategory:       &sub,
			ParentCategory:        state.CurrentCategory,
		}

	case SelectProduct:
		id := ev.ProductID
		next := state
		next.Screen = ScreenProductDetail
		next.SelectedProductID = &id
		return next

	case Go:
		return State{Screen: ev.Screen}

	case Back:
		return back(state)
	}

	return state
}

// back resolves the table of structural rules; the first matching row wins.
// The rules must be followed exactly or dead-end loops and wrong jumps
// result.
func back(state State) State {
	switch state.Screen {
	case ScreenProductDetail:
		// Reached through a subcategory listing: return there, restoring the
		// parent as the current category.
		if state.SelectedSubcategoryID != nil && state.ParentCategory != nil {
			return subcategoryListOver(*state.ParentCategory)
		}
		if state.CurrentCategory != nil {
			if state.CurrentCategory.Parent != nil {
				return subcategoryListOver(*state.CurrentCategory.Parent)
			}
			if state.CurrentCategory.HasSubcategories {
				return subcategoryListOver(*state.CurrentCategory)
			}
		}
		return Home()

	case ScreenCategoryList:
		if state.ParentCategory != nil {
			return subcategoryListOver(*state.ParentCategory)
		}
		if state.CurrentCategory != nil && state.CurrentCategory.HasSubcategories {
			return subcategoryListOver(*state.CurrentCategory)
		}
		return Home()

	case ScreenSubcategoryList, ScreenBasket, ScreenConfirmation, ScreenAccount:
		return Home()

	case ScreenCheckout:
		return State{Screen: ScreenBasket}

	case ScreenLogin:
		// Entry point; cannot go back.
		return state
	}

	return Home()
}

func subcategoryListOver(cat CategoryRef) State {
	return State{
		Screen:             ScreenSubcategoryList,
		SelectedCategoryID: &cat.ID,
		CurrentCategory:    &cat,
	}
}

// Title projects a state to its display title. Always re-derived, never
// cached: any field change invalidates it.
func Title(state State) string {
	switch state.Screen {
	case ScreenCategoryList, ScreenSubcategoryList:
		if state.CurrentCategory != nil {
			return state.CurrentCategory.Name
		}
		return "Produits"
	case ScreenProductDetail:
		if state.CurrentCategory != nil {
			return state.CurrentCategory.Name
		}
		return "Produit"
	case ScreenBasket:
		return "Panier"
	case ScreenCheckout:
		return "Commande"
	case ScreenConfirmation:
		return "Confirmation"
	case ScreenLogin:
		return "Connexion"
	case ScreenAccount:
		return "Mon compte"
	default:
		return "Accueil"
	}
}
