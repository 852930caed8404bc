package handlers

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/pcbuilder/storefront/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (uuid.UUID, error)
}

// CatalogFacade serves the part catalogues.
type CatalogFacade interface {
	Categories() []model.CategoryInfo
	ListParts(ctx context.Context, category model.PartCategory, page, pageSize int, filter model.PartFilter) (*model.PartPage, error)
	Part(ctx context.Context, category model.PartCategory, id uuid.UUID) (*model.Part, error)
	Manufacturers(ctx context.Context, category model.PartCategory) ([]string, error)
}

// BuildFacade edits the user's build.
type BuildFacade interface {
	Build(ctx context.Context, userID uuid.UUID) (*model.BuildSummary, error)
	AddPart(ctx context.Context, userID uuid.UUID, category model.PartCategory, partID uuid.UUID) (*model.Build, error)
	RemovePart(ctx context.Context, userID uuid.UUID, category model.PartCategory) (*model.Build, error)
}

// OrderFacade encapsulates checkout and order operations exposed via HTTP.
type OrderFacade interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*model.CheckoutResult, error)
	PayOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.CheckoutResult, error)
	Orders(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	Order(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
	RetryOrderItems(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
}

// PaymentFacade reports payment results to the user.
type PaymentFacade interface {
	ReconcileReturn(ctx context.Context, userID uuid.UUID, params url.Values) (*model.PaymentResult, error)
	LatestPayment(ctx context.Context, userID uuid.UUID) (*model.PaymentResult, error)
}

// ProfileFacade manages account details.
type ProfileFacade interface {
	Profile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (*model.Profile, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// AdminFacade provides the administration operations.
type AdminFacade interface {
	AllOrders(ctx context.Context, page, pageSize int) ([]model.OrderSummary, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) (*model.Order, error)
	Refund(ctx context.Context, orderID uuid.UUID, message string) (*model.Order, error)
	Profiles(ctx context.Context) ([]model.Profile, error)
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	AuthFacade
	CatalogFacade
	BuildFacade
	OrderFacade
	PaymentFacade
	ProfileFacade
	AdminFacade
	Health(ctx context.Context) error
}
