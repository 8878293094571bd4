package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"medmarket/internal/entity"
)

// MemoryStore is an in-process implementation of every repository,
// used by tests in place of MySQL. Entities are stored by value and
// copied on the way in and out.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int

	users       map[int]entity.User
	addresses   map[int]entity.Address
	medicines   map[int]entity.Medicine
	cartItems   map[int]entity.CartItem
	orders      map[int]entity.Order
	medFeedback map[int]entity.MedicineFeedback
	ordFeedback map[int]entity.OrderFeedback
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[int]entity.User),
		addresses:   make(map[int]entity.Address),
		medicines:   make(map[int]entity.Medicine),
		cartItems:   make(map[int]entity.CartItem),
		orders:      make(map[int]entity.Order),
		medFeedback: make(map[int]entity.MedicineFeedback),
		ordFeedback: make(map[int]entity.OrderFeedback),
	}
}

func (s *MemoryStore) Users() *MemoryUserRepository         { return &MemoryUserRepository{s} }
func (s *MemoryStore) Addresses() *MemoryAddressRepository  { return &MemoryAddressRepository{s} }
func (s *MemoryStore) Medicines() *MemoryMedicineRepository { return &MemoryMedicineRepository{s} }
func (s *MemoryStore) Carts() *MemoryCartRepository         { return &MemoryCartRepository{s} }
func (s *MemoryStore) Orders() *MemoryOrderRepository       { return &MemoryOrderRepository{s} }
func (s *MemoryStore) Feedback() *MemoryFeedbackRepository  { return &MemoryFeedbackRepository{s} }
func (s *MemoryStore) Tx() *MemoryTxManager                 { return &MemoryTxManager{s: s} }

// callers must hold mu
func (s *MemoryStore) id() int {
	s.nextID++
	return s.nextID
}

type snapshot struct {
	nextID      int
	users       map[int]entity.User
	addresses   map[int]entity.Address
	medicines   map[int]entity.Medicine
	cartItems   map[int]entity.CartItem
	orders      map[int]entity.Order
	medFeedback map[int]entity.MedicineFeedback
	ordFeedback map[int]entity.OrderFeedback
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MemoryTxManager serializes transactions and restores a snapshot of
// the whole store when fn fails, giving tests real all-or-nothing
// semantics.
type MemoryTxManager struct {
	s    *MemoryStore
	txMu sync.Mutex
}

func (m *MemoryTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.s.mu.Lock()
	snap := snapshot{
		nextID:      m.s.nextID,
		users:       copyMap(m.s.users),
		addresses:   copyMap(m.s.addresses),
		medicines:   copyMap(m.s.medicines),
		cartItems:   copyMap(m.s.cartItems),
		orders:      copyMap(m.s.orders),
		medFeedback: copyMap(m.s.medFeedback),
		ordFeedback: copyMap(m.s.ordFeedback),
	}
	m.s.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.s.mu.Lock()
		m.s.nextID = snap.nextID
		m.s.users = snap.users
		m.s.addresses = snap.addresses
		m.s.medicines = snap.medicines
		m.s.cartItems = snap.cartItems
		m.s.orders = snap.orders
		m.s.medFeedback = snap.medFeedback
		m.s.ordFeedback = snap.ordFeedback
		m.s.mu.Unlock()
		return err
	}
	return nil
}

type MemoryUserRepository struct{ s *MemoryStore }

func (r *MemoryUserRepository) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := strings.ToLower(u.Email)
	for _, existing := range r.s.users {
		if existing.Email == email {
			return nil, ErrDuplicateEmail
		}
	}

	u.ID = r.s.id()
	u.Email = email
	r.s.users[u.ID] = *u
	return u, nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id int) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) List(ctx context.Context) ([]entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

type MemoryAddressRepository struct{ s *MemoryStore }

func (r *MemoryAddressRepository) Create(ctx context.Context, a *entity.Address) (*entity.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a.ID = r.s.id()
	r.s.addresses[a.ID] = *a
	return a, nil
}

func (r *MemoryAddressRepository) GetByID(ctx context.Context, id int) (*entity.Address, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.addresses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *MemoryAddressRepository) ListByUser(ctx context.Context, userID int) ([]entity.Address, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var addrs []entity.Address
	for _, a := range r.s.addresses {
		if a.UserID == userID {
			addrs = append(addrs, a)
		}
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].ID < addrs[j].ID })
	return addrs, nil
}

func (r *MemoryAddressRepository) Delete(ctx context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.addresses[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.addresses, id)
	return nil
}

type MemoryMedicineRepository struct{ s *MemoryStore }

func (r *MemoryMedicineRepository) Create(ctx context.Context, m *entity.Medicine) (*entity.Medicine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m.ID = r.s.id()
	r.s.medicines[m.ID] = *m
	return m, nil
}

func (r *MemoryMedicineRepository) GetByID(ctx context.Context, id int) (*entity.Medicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.medicines[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (r *MemoryMedicineRepository) List(ctx context.Context) ([]entity.Medicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	medicines := make([]entity.Medicine, 0, len(r.s.medicines))
	for _, m := range r.s.medicines {
		medicines = append(medicines, m)
	}
	sort.Slice(medicines, func(i, j int) bool { return medicines[i].ID < medicines[j].ID })
	return medicines, nil
}

func (r *MemoryMedicineRepository) Update(ctx context.Context, id int, u entity.MedicineUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.medicines[id]
	if !ok {
		return ErrNotFound
	}
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Price != nil {
		m.Price = *u.Price
	}
	if u.Stock != nil {
		m.Stock = *u.Stock
	}
	if u.ExpiryDate != nil {
		m.ExpiryDate = u.ExpiryDate
	}
	if u.Description != nil {
		m.Description = u.Description
	}
	r.s.medicines[id] = m
	return nil
}

func (r *MemoryMedicineRepository) Delete(ctx context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.medicines[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.medicines, id)
	return nil
}

func (r *MemoryMedicineRepository) ReserveStock(ctx context.Context, id, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.medicines[id]
	if !ok || m.Stock < quantity {
		return ErrInsufficientStock
	}
	m.Stock -= quantity
	r.s.medicines[id] = m
	return nil
}

func (r *MemoryMedicineRepository) RestoreStock(ctx context.Context, id, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.medicines[id]
	if !ok {
		return ErrNotFound
	}
	m.Stock += quantity
	r.s.medicines[id] = m
	return nil
}

type MemoryCartRepository struct{ s *MemoryStore }

func (r *MemoryCartRepository) Create(ctx context.Context, item *entity.CartItem) (*entity.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item.ID = r.s.id()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	r.s.cartItems[item.ID] = *item
	return item, nil
}

func (r *MemoryCartRepository) GetByID(ctx context.Context, id int) (*entity.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.cartItems[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (r *MemoryCartRepository) lines(userID int, all bool) []entity.CartLine {
	var out []entity.CartLine
	for _, item := range r.s.cartItems {
		if !all && item.UserID != userID {
			continue
		}
		m := r.s.medicines[item.MedicineID]
		out = append(out, entity.CartLine{
			ID:           item.ID,
			UserID:       item.UserID,
			MedicineID:   item.MedicineID,
			Quantity:     item.Quantity,
			CreatedAt:    item.CreatedAt,
			MedicineName: m.Name,
			UnitPrice:    m.Price,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *MemoryCartRepository) ListByUser(ctx context.Context, userID int) ([]entity.CartLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.lines(userID, false), nil
}

func (r *MemoryCartRepository) ListAll(ctx context.Context) ([]entity.CartLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.lines(0, true), nil
}

func (r *MemoryCartRepository) LockByUser(ctx context.Context, userID int) ([]entity.CartLine, error) {
	return r.ListByUser(ctx, userID)
}

func (r *MemoryCartRepository) UpdateQuantity(ctx context.Context, id, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item, ok := r.s.cartItems[id]
	if !ok {
		return ErrNotFound
	}
	item.Quantity = quantity
	r.s.cartItems[id] = item
	return nil
}

func (r *MemoryCartRepository) Delete(ctx context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cartItems[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.cartItems, id)
	return nil
}

func (r *MemoryCartRepository) DeleteByUser(ctx context.Context, userID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, item := range r.s.cartItems {
		if item.UserID == userID {
			delete(r.s.cartItems, id)
		}
	}
	return nil
}

type MemoryOrderRepository struct{ s *MemoryStore }

func (r *MemoryOrderRepository) Create(ctx context.Context, o *entity.Order) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o.ID = r.s.id()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	items := make([]entity.OrderItem, len(o.Items))
	copy(items, o.Items)
	for i := range items {
		items[i].ID = r.s.id()
		items[i].OrderID = o.ID
	}
	o.Items = items

	stored := *o
	stored.Items = make([]entity.OrderItem, len(items))
	copy(stored.Items, items)
	r.s.orders[o.ID] = stored
	return o, nil
}

func (r *MemoryOrderRepository) GetByID(ctx context.Context, id int) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := o
	out.Items = make([]entity.OrderItem, len(o.Items))
	copy(out.Items, o.Items)
	return &out, nil
}

func (r *MemoryOrderRepository) ListByUser(ctx context.Context, userID int) ([]entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var orders []entity.Order
	for _, o := range r.s.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (r *MemoryOrderRepository) ListAll(ctx context.Context) ([]entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	orders := make([]entity.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (r *MemoryOrderRepository) UpdateStatus(ctx context.Context, id int, status entity.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	r.s.orders[id] = o
	return nil
}

type MemoryFeedbackRepository struct{ s *MemoryStore }

func (r *MemoryFeedbackRepository) CreateMedicineFeedback(ctx context.Context, f *entity.MedicineFeedback) (*entity.MedicineFeedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f.ID = r.s.id()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	r.s.medFeedback[f.ID] = *f
	return f, nil
}

func (r *MemoryFeedbackRepository) CreateOrderFeedback(ctx context.Context, f *entity.OrderFeedback) (*entity.OrderFeedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f.ID = r.s.id()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	r.s.ordFeedback[f.ID] = *f
	return f, nil
}

func (r *MemoryFeedbackRepository) ListMedicineFeedback(ctx context.Context) ([]entity.MedicineFeedback, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	feedback := make([]entity.MedicineFeedback, 0, len(r.s.medFeedback))
	for _, f := range r.s.medFeedback {
		feedback = append(feedback, f)
	}
	sort.Slice(feedback, func(i, j int) bool { return feedback[i].ID < feedback[j].ID })
	return feedback, nil
}

func (r *MemoryFeedbackRepository) ListOrderFeedbackByUser(ctx context.Context, userID int) ([]entity.OrderFeedback, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var feedback []entity.OrderFeedback
	for _, f := range r.s.ordFeedback {
		if f.UserID == userID {
			feedback = append(feedback, f)
		}
	}
	sort.Slice(feedback, func(i, j int) bool { return feedback[i].ID < feedback[j].ID })
	return feedback, nil
}

func (r *MemoryFeedbackRepository) GetOrderFeedbackByID(ctx context.Context, id int) (*entity.OrderFeedback, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.ordFeedback[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (r *MemoryFeedbackRepository) UpdateOrderFeedback(ctx context.Context, f *entity.OrderFeedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.ordFeedback[f.ID]; !ok {
		return ErrNotFound
	}
	r.s.ordFeedback[f.ID] = *f
	return nil
}
