package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Profiles() ProfileRepository
	Catalog() CatalogRepository
	Builds() BuildRepository
	Orders() OrderRepository
	Payments() PaymentRepository
}
