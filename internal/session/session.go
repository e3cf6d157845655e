package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
)

// User is the account snapshot held in the session for display and editing.
// The password is opaque: it round-trips through the blob but is never
// rendered by any handler.
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

// CartItem references a catalog entry by id. Display attributes are resolved
// against the catalog at render time, never stored here.
type CartItem struct {
	MedicineID string `json:"medicineId"`
	Quantity   uint   `json:"quantity"`
}

// state is the persisted blob shape.
type state struct {
	LoggedIn bool       `json:"loggedIn"`
	User     *User      `json:"currentUser,omitempty"`
	Cart     []CartItem `json:"cartItems"`
}

// Snapshot is a read-only copy of the manager's state handed to callers.
type Snapshot struct {
	LoggedIn bool
	User     *User
	IsAdmin  bool
	Cart     []CartItem
}

// Manager owns one client's session and cart. Every mutation rewrites the
// full blob through the store in the same call; a failed write keeps the
// in-memory state authoritative for the rest of the session.
type Manager struct {
	mu         sync.Mutex
	store      BlobStore
	key        string
	adminEmail string
	log        *slog.Logger

	loading    bool
	writeFail  bool
	st         state
}

func NewManager(store BlobStore, key, adminEmail string, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		store:      store,
		key:        key,
		adminEmail: adminEmail,
		log:        log,
		loading:    true,
		st:         state{Cart: []CartItem{}},
	}
}

// Restore reads the persisted blob once. A missing blob leaves the defaults;
// a malformed one is discarded and its key removed. The loading flag flips
// to false exactly once, after the first call.
func (m *Manager) Restore(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loading {
		return
	}
	m.loading = false

	blob, err := m.store.Load(ctx, m.key)
	if err != nil {
		if err != ErrNotFound {
			m.log.Warn("session blob read failed", "key", m.key, "error", err)
		}
		return
	}

	var st state
	if err := json.Unmarshal(blob, &st); err != nil {
		m.log.Warn("discarding malformed session blob", "key", m.key, "error", err)
		if err := m.store.Remove(ctx, m.key); err != nil {
			m.log.Warn("session blob remove failed", "key", m.key, "error", err)
		}
		return
	}
	if st.Cart == nil {
		st.Cart = []CartItem{}
	}
	if !st.LoggedIn {
		st.User = nil
	}
	m.st = st
}

// Loading reports whether the initial blob read is still pending. Handlers
// must not serve gated content while this is true.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Login replaces the session identity. The cart survives only when the
// incoming user matches the identity the cart already belongs to; otherwise
// it is reset so one identity's cart never leaks into another's session.
func (m *Manager) Login(ctx context.Context, user User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sameOwner := m.st.User != nil && strings.EqualFold(m.st.User.Email, user.Email)
	if !sameOwner {
		m.st.Cart = []CartItem{}
	}
	u := user
	m.st.LoggedIn = true
	m.st.User = &u
	m.persist(ctx)
}

// Logout resets the session to logged-out and empties the cart. There is no
// guest-cart retention. Navigation back to the login view is the caller's
// concern.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.st = state{Cart: []CartItem{}}
	m.persist(ctx)
}

// UpdateCurrentUser reflects a confirmed profile change in the session. The
// cart is untouched. Calling it while logged out is a caller error; the
// manager accepts it and treats it as a login with the supplied record.
func (m *Manager) UpdateCurrentUser(ctx context.Context, user User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := user
	m.st.LoggedIn = true
	m.st.User = &u
	m.persist(ctx)
}

// AddToCart increments the line for medicineID, creating it at quantity 1.
func (m *Manager) AddToCart(ctx context.Context, medicineID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.st.Cart {
		if m.st.Cart[i].MedicineID == medicineID {
			m.st.Cart[i].Quantity++
			m.persist(ctx)
			return
		}
	}
	m.st.Cart = append(m.st.Cart, CartItem{MedicineID: medicineID, Quantity: 1})
	m.persist(ctx)
}

// RemoveFromCart deletes the line for medicineID. Absent lines are a no-op.
func (m *Manager) RemoveFromCart(ctx context.Context, medicineID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeLocked(medicineID)
	m.persist(ctx)
}

// UpdateCartItemQuantity sets an absolute quantity. Zero or negative removes
// the line. A set on a line that does not exist is a no-op; lines are only
// created through AddToCart.
func (m *Manager) UpdateCartItemQuantity(ctx context.Context, medicineID string, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if quantity <= 0 {
		m.removeLocked(medicineID)
		m.persist(ctx)
		return
	}
	for i := range m.st.Cart {
		if m.st.Cart[i].MedicineID == medicineID {
			m.st.Cart[i].Quantity = uint(quantity)
			break
		}
	}
	m.persist(ctx)
}

// ClearCart empties the cart unconditionally, used after checkout.
func (m *Manager) ClearCart(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.st.Cart = []CartItem{}
	m.persist(ctx)
}

func (m *Manager) removeLocked(medicineID string) {
	for i := range m.st.Cart {
		if m.st.Cart[i].MedicineID == medicineID {
			m.st.Cart = append(m.st.Cart[:i], m.st.Cart[i+1:]...)
			return
		}
	}
}

// Snapshot copies the current state; callers never alias manager internals.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		LoggedIn: m.st.LoggedIn,
		IsAdmin:  m.isAdminLocked(),
		Cart:     make([]CartItem, len(m.st.Cart)),
	}
	copy(snap.Cart, m.st.Cart)
	if m.st.User != nil {
		u := *m.st.User
		snap.User = &u
	}
	return snap
}

// IsAdmin is true iff the session is logged in as the fixed admin identity.
func (m *Manager) IsAdmin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isAdminLocked()
}

func (m *Manager) isAdminLocked() bool {
	return m.st.LoggedIn && m.st.User != nil &&
		strings.EqualFold(m.st.User.Email, m.adminEmail)
}

// persist rewrites the whole blob. A storage failure is degraded, not fatal:
// it is logged once per manager and the in-memory state stays authoritative.
func (m *Manager) persist(ctx context.Context) {
	blob, err := json.Marshal(m.st)
	if err != nil {
		m.log.Error("session blob marshal failed", "key", m.key, "error", err)
		return
	}
	if err := m.store.Save(ctx, m.key, blob); err != nil {
		if !m.writeFail {
			m.writeFail = true
			m.log.Warn("session blob write failed, state kept in memory", "key", m.key, "error", err)
		}
	}
}
