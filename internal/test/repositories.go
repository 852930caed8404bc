package test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
	"github.com/pcbuilder/storefront/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[uuid.UUID]*model.User
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[uuid.UUID]*model.User),
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, email, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[uuid.UUID]*model.User)
	}
	if _, exists := s.Users[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	user := &model.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	s.Users[email] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ProfileRepositoryStub keeps profiles keyed by user id.
type ProfileRepositoryStub struct {
	Profiles map[uuid.UUID]*model.Profile
	Err      error
}

// NewProfileRepositoryStub constructs stub repository with initialized map.
func NewProfileRepositoryStub() *ProfileRepositoryStub {
	return &ProfileRepositoryStub{Profiles: make(map[uuid.UUID]*model.Profile)}
}

// Get returns a copy of the stored profile.
func (s *ProfileRepositoryStub) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.Profiles[userID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// Upsert creates or replaces editable fields of a profile.
func (s *ProfileRepositoryStub) Upsert(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (*model.Profile, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Profiles == nil {
		s.Profiles = make(map[uuid.UUID]*model.Profile)
	}
	p, ok := s.Profiles[userID]
	if !ok {
		p = &model.Profile{ID: userID, Role: model.RoleUser}
		s.Profiles[userID] = p
	}
	p.DisplayName = update.DisplayName
	p.Username = update.Username
	p.AvatarURL = update.AvatarURL
	p.Phone = update.Phone
	p.Address = update.Address
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

// List returns every stored profile.
func (s *ProfileRepositoryStub) List(ctx context.Context) ([]model.Profile, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.Profile, 0, len(s.Profiles))
	for _, p := range s.Profiles {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

// CatalogRepositoryStub serves parts from memory. List honours the name and
// manufacturer filters and returns parts ordered by name.
type CatalogRepositoryStub struct {
	Parts      map[model.PartCategory][]model.Part
	Err        error
	PriceCalls int
	LastLimit  int
	LastOffset int
}

// NewCatalogRepositoryStub constructs an empty catalogue.
func NewCatalogRepositoryStub() *CatalogRepositoryStub {
	return &CatalogRepositoryStub{Parts: make(map[model.PartCategory][]model.Part)}
}

// AddPart stores a part with the given name and price and returns its id.
func (s *CatalogRepositoryStub) AddPart(category model.PartCategory, name, price string) uuid.UUID {
	if s.Parts == nil {
		s.Parts = make(map[model.PartCategory][]model.Part)
	}
	p := model.Part{PartSummary: model.PartSummary{
		ID:       uuid.New(),
		Category: category,
		Name:     name,
		Price:    decimal.RequireFromString(price),
	}}
	s.Parts[category] = append(s.Parts[category], p)
	return p.ID
}

func (s *CatalogRepositoryStub) matching(category model.PartCategory, filter model.PartFilter) []model.Part {
	var out []model.Part
	for _, p := range s.Parts[category] {
		if filter.NameContains != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.NameContains)) {
			continue
		}
		if filter.Manufacturer != "" && p.Manufacturer != filter.Manufacturer {
			continue
		}
		if len(filter.PriceRanges) > 0 {
			ok := false
			for _, r := range filter.PriceRanges {
				if r.Contains(p.Price) {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Count returns the number of parts matching filter.
func (s *CatalogRepositoryStub) Count(ctx context.Context, category model.PartCategory, filter model.PartFilter) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.matching(category, filter))), nil
}

// List returns one page of matching part summaries.
func (s *CatalogRepositoryStub) List(ctx context.Context, category model.PartCategory, filter model.PartFilter, limit, offset int) ([]model.PartSummary, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.LastLimit, s.LastOffset = limit, offset
	if offset < 0 || limit < 0 {
		return nil, domainErrors.ErrInvalidInput
	}
	parts := s.matching(category, filter)
	var out []model.PartSummary
	for i := offset; i < len(parts) && i < offset+limit; i++ {
		out = append(out, parts[i].PartSummary)
	}
	return out, nil
}

// Get returns a single part or not found.
func (s *CatalogRepositoryStub) Get(ctx context.Context, category model.PartCategory, id uuid.UUID) (*model.Part, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.Parts[category] {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Price returns the part price, counting calls.
func (s *CatalogRepositoryStub) Price(ctx context.Context, category model.PartCategory, id uuid.UUID) (decimal.Decimal, error) {
	s.PriceCalls++
	p, err := s.Get(ctx, category, id)
	if err != nil {
		return decimal.Zero, err
	}
	return p.Price, nil
}

// Manufacturers returns the distinct non-empty manufacturers, sorted.
func (s *CatalogRepositoryStub) Manufacturers(ctx context.Context, category model.PartCategory) ([]string, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	seen := make(map[string]struct{})
	var out []string
	for _, p := range s.Parts[category] {
		if p.Manufacturer == "" {
			continue
		}
		if _, ok := seen[p.Manufacturer]; ok {
			continue
		}
		seen[p.Manufacturer] = struct{}{}
		out = append(out, p.Manufacturer)
	}
	sort.Strings(out)
	return out, nil
}

// BuildRepositoryStub keeps one build per user.
type BuildRepositoryStub struct {
	mu        sync.Mutex
	Builds    map[uuid.UUID]*model.Build
	GetErr    error
	UpsertErr error
	RemoveErr error
}

// NewBuildRepositoryStub constructs stub repository with initialized map.
func NewBuildRepositoryStub() *BuildRepositoryStub {
	return &BuildRepositoryStub{Builds: make(map[uuid.UUID]*model.Build)}
}

// GetOrCreate returns a snapshot of the user's build, creating it lazily.
func (s *BuildRepositoryStub) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Build, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	if s.Builds == nil {
		s.Builds = make(map[uuid.UUID]*model.Build)
	}
	b, ok := s.Builds[userID]
	if !ok {
		b = &model.Build{ID: uuid.New(), UserID: userID, Parts: map[model.PartCategory]uuid.UUID{}, CreatedAt: time.Now()}
		s.Builds[userID] = b
	}
	return snapshot(b), nil
}

// UpsertPart replaces the part stored for category.
func (s *BuildRepositoryStub) UpsertPart(ctx context.Context, buildID uuid.UUID, category model.PartCategory, partID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpsertErr != nil {
		return s.UpsertErr
	}
	b := s.byID(buildID)
	if b == nil {
		return domainErrors.ErrBuilderNotFound
	}
	b.Parts[category] = partID
	return nil
}

// RemovePart clears category; clearing an empty slot succeeds.
func (s *BuildRepositoryStub) RemovePart(ctx context.Context, buildID uuid.UUID, category model.PartCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	if b := s.byID(buildID); b != nil {
		delete(b.Parts, category)
	}
	return nil
}

func (s *BuildRepositoryStub) byID(id uuid.UUID) *model.Build {
	for _, b := range s.Builds {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func snapshot(b *model.Build) *model.Build {
	cp := *b
	cp.Parts = make(map[model.PartCategory]uuid.UUID, len(b.Parts))
	for k, v := range b.Parts {
		cp.Parts[k] = v
	}
	return &cp
}

// OrderRepositoryStub keeps orders in memory.
type OrderRepositoryStub struct {
	mu          sync.Mutex
	Orders      map[uuid.UUID]*model.Order
	Snapshots   map[uuid.UUID][]domainErrors.PendingItem
	Summaries   []model.OrderSummary
	CreateErr   error
	AddItemsErr error
	GetErr      error
	UpdateErr   error
	nextItemID  int64
}

// NewOrderRepositoryStub constructs stub repository with initialized map.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{
		Orders:    make(map[uuid.UUID]*model.Order),
		Snapshots: make(map[uuid.UUID][]domainErrors.PendingItem),
	}
}

// Create stores a pending order for the user and its item snapshot.
func (s *OrderRepositoryStub) Create(ctx context.Context, userID uuid.UUID, items []domainErrors.PendingItem) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	if s.Orders == nil {
		s.Orders = make(map[uuid.UUID]*model.Order)
	}
	if s.Snapshots == nil {
		s.Snapshots = make(map[uuid.UUID][]domainErrors.PendingItem)
	}
	now := time.Now()
	o := &model.Order{ID: uuid.New(), UserID: userID, Status: model.OrderStatusPending, CreatedAt: now, UpdatedAt: now}
	s.Orders[o.ID] = o
	s.Snapshots[o.ID] = append([]domainErrors.PendingItem(nil), items...)
	cp := *o
	return &cp, nil
}

// Snapshot returns a copy of the items frozen at Create.
func (s *OrderRepositoryStub) Snapshot(ctx context.Context, orderID uuid.UUID) ([]domainErrors.PendingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	if _, ok := s.Orders[orderID]; !ok {
		return nil, domainErrors.ErrNotFound
	}
	return append([]domainErrors.PendingItem(nil), s.Snapshots[orderID]...), nil
}

// AddItems inserts items, skipping part types already stored for the order.
func (s *OrderRepositoryStub) AddItems(ctx context.Context, orderID uuid.UUID, items []domainErrors.PendingItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AddItemsErr != nil {
		return s.AddItemsErr
	}
	o, ok := s.Orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	for _, it := range items {
		exists := false
		for _, stored := range o.Items {
			if string(stored.Category) == it.PartType {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		s.nextItemID++
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		o.Items = append(o.Items, model.OrderItem{
			ID:       s.nextItemID,
			OrderID:  orderID,
			Category: model.PartCategory(it.PartType),
			PartID:   it.PartID,
			Quantity: qty,
		})
	}
	return nil
}

// Get returns a copy of the order with its items.
func (s *OrderRepositoryStub) Get(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	o, ok := s.Orders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	return &cp, nil
}

// ListByUser returns the user's orders, newest first.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	var out []model.Order
	for _, o := range s.Orders {
		if o.UserID == userID {
			cp := *o
			cp.Items = nil
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ListAll pages over predefined summaries.
func (s *OrderRepositoryStub) ListAll(ctx context.Context, limit, offset int) ([]model.OrderSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	var out []model.OrderSummary
	for i := offset; i < len(s.Summaries) && i < offset+limit; i++ {
		out = append(out, s.Summaries[i])
	}
	return out, nil
}

// UpdateStatus moves the order from one status to another.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to model.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	return s.setStatus(orderID, from, to)
}

func (s *OrderRepositoryStub) setStatus(orderID uuid.UUID, from, to model.OrderStatus) error {
	o, ok := s.Orders[orderID]
	if !ok || o.Status != from {
		return domainErrors.ErrInvalidStatusTransition
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return nil
}

// AppliedResult records a settled payment.
type AppliedResult struct {
	PaymentID int64
	Status    model.PaymentStatus
	Response  map[string]any
}

// PaymentRepositoryStub keeps payments in memory. When Orders is set a
// completed payment confirms the pending order.
type PaymentRepositoryStub struct {
	mu       sync.Mutex
	Payments []*model.Payment
	Orders   *OrderRepositoryStub
	Applied  []AppliedResult
	Err      error
	ApplyErr error
	// PolledAt records MarkPolled calls per payment id.
	PolledAt map[int64]time.Time
}

// Add stores a payment and returns it.
func (s *PaymentRepositoryStub) Add(p model.Payment) *model.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = int64(len(s.Payments) + 1)
	}
	if p.Status == "" {
		p.Status = model.PaymentStatusPending
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
		p.UpdatedAt = p.CreatedAt
	}
	stored := p
	s.Payments = append(s.Payments, &stored)
	return &stored
}

// GetByOrder returns the latest payment of the order.
func (s *PaymentRepositoryStub) GetByOrder(ctx context.Context, orderID uuid.UUID) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.latest(func(p *model.Payment) bool { return p.OrderID == orderID })
}

// LatestForUser returns the latest payment of the user.
func (s *PaymentRepositoryStub) LatestForUser(ctx context.Context, userID uuid.UUID) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.latest(func(p *model.Payment) bool { return p.UserID == userID })
}

func (s *PaymentRepositoryStub) latest(match func(*model.Payment) bool) (*model.Payment, error) {
	var found *model.Payment
	for _, p := range s.Payments {
		if match(p) && (found == nil || !p.CreatedAt.Before(found.CreatedAt)) {
			found = p
		}
	}
	if found == nil {
		return nil, domainErrors.ErrNotFound
	}
	cp := *found
	return &cp, nil
}

// ApplyResult settles a pending payment.
func (s *PaymentRepositoryStub) ApplyResult(ctx context.Context, paymentID int64, status model.PaymentStatus, response map[string]any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ApplyErr != nil {
		return false, s.ApplyErr
	}
	for _, p := range s.Payments {
		if p.ID != paymentID {
			continue
		}
		if p.Status != model.PaymentStatusPending {
			return false, nil
		}
		p.Status = status
		if response != nil {
			p.GatewayResponse = response
		}
		p.UpdatedAt = time.Now()
		s.Applied = append(s.Applied, AppliedResult{PaymentID: paymentID, Status: status, Response: response})
		if status == model.PaymentStatusCompleted && s.Orders != nil {
			s.Orders.mu.Lock()
			_ = s.Orders.setStatus(p.OrderID, model.OrderStatusPending, model.OrderStatusConfirmed)
			s.Orders.mu.Unlock()
		}
		return true, nil
	}
	return false, nil
}

// ListPending returns pending payments created before olderThan, never
// polled ones first, then by last poll and creation time.
func (s *PaymentRepositoryStub) ListPending(ctx context.Context, olderThan time.Time, limit int) ([]model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Payment
	for _, p := range s.Payments {
		if p.Status == model.PaymentStatusPending && p.CreatedAt.Before(olderThan) {
			out = append(out, *p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, iPolled := s.PolledAt[out[i].ID]
		pj, jPolled := s.PolledAt[out[j].ID]
		if iPolled != jPolled {
			return !iPolled
		}
		if !pi.Equal(pj) {
			return pi.Before(pj)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MarkPolled stamps a pending payment with the current time.
func (s *PaymentRepositoryStub) MarkPolled(ctx context.Context, paymentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, p := range s.Payments {
		if p.ID == paymentID && p.Status == model.PaymentStatusPending {
			if s.PolledAt == nil {
				s.PolledAt = make(map[int64]time.Time)
			}
			s.PolledAt[paymentID] = time.Now()
		}
	}
	return nil
}
