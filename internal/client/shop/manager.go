package shop

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aaravmahajanofficial/storefront-sync/internal/client/api"
	"github.com/aaravmahajanofficial/storefront-sync/internal/client/endpoint"
	"github.com/aaravmahajanofficial/storefront-sync/internal/client/session"
	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

type State string

const (
	StateAnonymous     State = "ANONYMOUS"
	StateAuthenticated State = "AUTHENTICATED"
	StateSynced        State = "SYNCED"
	StateStale         State = "STALE"
	StateOffline       State = "OFFLINE"
)

type Resolver interface {
	Resolve(ctx context.Context) endpoint.Result
	Reset()
}

type Options struct {
	Resolver   Resolver
	Sessions   session.Store
	HTTPClient *http.Client
	Notifier   Notifier
	// Confirmer is asked before a quantity drop removes a line. Nil declines.
	Confirmer   Confirmer
	DeliveryFee decimal.Decimal
	// FallbackCatalog is served until the first successful catalog fetch.
	FallbackCatalog []models.Product
	Logger          *slog.Logger
}

// Manager is the client-side view of the shop: catalog snapshot, session and
// a cache of the server cart. The server stays authoritative; every mutation
// is followed by a full refetch.
type Manager struct {
	resolver   Resolver
	sessions   session.Store
	httpClient *http.Client
	notifier   Notifier
	confirmer  Confirmer
	fee        decimal.Decimal
	logger     *slog.Logger

	// mu serializes mutations together with their refetch.
	mu sync.Mutex

	stateMu  sync.RWMutex
	state    State
	sess     *session.Session
	gen      uint64
	client   *api.Client
	lines    []models.CartLine
	catalog  []models.Product
	products map[uuid.UUID]models.Product
	applied  uint64

	seq       atomic.Uint64
	refreshes singleflight.Group
}

var errMissingDependency = errors.New("shop: resolver and session store are required")

func New(opts Options) (*Manager, error) {

	if opts.Resolver == nil || opts.Sessions == nil {
		return nil, errMissingDependency
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = api.NewHTTPClient(10 * time.Second)
	}

	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(Notice) {})
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	m := &Manager{
		resolver:   opts.Resolver,
		sessions:   opts.Sessions,
		httpClient: opts.HTTPClient,
		notifier:   opts.Notifier,
		confirmer:  opts.Confirmer,
		fee:        opts.DeliveryFee,
		logger:     opts.Logger,
		state:      StateAnonymous,
	}

	m.setCatalog(opts.FallbackCatalog)

	return m, nil
}

// Init restores the stored session, resolves a backend and loads the catalog
// and cart. An unreachable backend is not an error: the manager comes up
// OFFLINE with the fallback catalog.
func (m *Manager) Init(ctx context.Context) error {

	sess, err := m.sessions.Get()
	if err != nil {
		m.logger.Warn("Stored session unreadable, starting anonymous", slog.String("error", err.Error()))
		if clearErr := m.sessions.Clear(); clearErr != nil {
			m.logger.Error("Failed to clear unreadable session", slog.String("error", clearErr.Error()))
		}
		sess = nil
	}

	m.stateMu.Lock()
	m.sess = sess
	m.gen++
	m.stateMu.Unlock()

	return m.connect(ctx)
}

// Reconnect forgets the chosen endpoint and resolves again.
func (m *Manager) Reconnect(ctx context.Context) error {
	m.resolver.Reset()
	return m.connect(ctx)
}

func (m *Manager) connect(ctx context.Context) error {

	result := m.resolver.Resolve(ctx)

	if err := ctx.Err(); err != nil && !result.Reachable {
		return err
	}

	if !result.Reachable {
		m.stateMu.Lock()
		m.client = nil
		m.state = StateOffline
		m.stateMu.Unlock()

		m.notify(SeverityInfo, "Connection Error",
			"Could not connect to the server. Showing the last known catalog until you reconnect.")

		return nil
	}

	client := api.New(result.BaseURL, m.httpClient, m.token)

	m.stateMu.Lock()
	m.client = client
	authenticated := m.sess != nil
	if authenticated {
		m.state = StateAuthenticated
	} else {
		m.state = StateAnonymous
	}
	m.stateMu.Unlock()

	m.logger.Info("Shop connected", slog.String("baseUrl", result.BaseURL), slog.Bool("authenticated", authenticated))

	if err := m.RefreshCatalog(ctx); err != nil {
		m.logger.Warn("Catalog unavailable, keeping snapshot", slog.String("error", err.Error()))
	}

	if authenticated {
		if err := m.Refresh(ctx); err != nil {
			m.logger.Warn("Initial cart sync failed", slog.String("error", err.Error()))
		}
	}

	return ctx.Err()
}

// Close releases idle connections.
func (m *Manager) Close() error {
	m.httpClient.CloseIdleConnections()
	return nil
}

func (m *Manager) State() State {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state
}

func (m *Manager) BaseURL() string {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	if m.client == nil {
		return ""
	}
	return m.client.BaseURL()
}

// Session returns the active session, or nil when anonymous.
func (m *Manager) Session() *session.Session {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	if m.sess == nil {
		return nil
	}
	cp := *m.sess
	return &cp
}

func (m *Manager) Lines() []models.CartLine {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	out := make([]models.CartLine, len(m.lines))
	copy(out, m.lines)
	return out
}

func (m *Manager) Products() []models.Product {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	out := make([]models.Product, len(m.catalog))
	copy(out, m.catalog)
	return out
}

func (m *Manager) Product(id uuid.UUID) (models.Product, bool) {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	p, ok := m.products[id]
	return p, ok
}

// RefreshCatalog replaces the catalog snapshot. On failure the previous
// snapshot stays in place.
func (m *Manager) RefreshCatalog(ctx context.Context) error {

	client := m.currentClient()
	if client == nil {
		return &api.Error{Kind: api.KindUnreachable, Message: "Offline mode"}
	}

	products, err := client.ListProducts(ctx)
	if err != nil {
		return m.fail(err, "Connection Error", "Could not load the catalog. Showing the last known products.")
	}

	m.setCatalog(products)

	return nil
}

func (m *Manager) setCatalog(products []models.Product) {

	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	m.stateMu.Lock()
	m.catalog = append([]models.Product(nil), products...)
	m.products = byID
	m.stateMu.Unlock()
}

func (m *Manager) token() string {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	if m.sess == nil {
		return ""
	}
	return m.sess.Token
}

func (m *Manager) currentClient() *api.Client {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.client
}

func (m *Manager) notify(severity Severity, title, message string) {
	m.notifier.Notify(Notice{Severity: severity, Title: title, Message: message})
}

// requireSession gates cart and order calls: login first, then connectivity.
func (m *Manager) requireSession(action string) (*api.Client, error) {

	m.stateMu.RLock()
	sess, client := m.sess, m.client
	m.stateMu.RUnlock()

	if sess == nil {
		m.notify(SeverityInfo, "Login Required", "Please login to "+action)
		return nil, &api.Error{Kind: api.KindUnauthenticated, Message: "Login required"}
	}

	if client == nil {
		m.notify(SeverityInfo, "Offline Mode", offlineMessage)
		return nil, &api.Error{Kind: api.KindUnreachable, Message: "Offline mode"}
	}

	return client, nil
}

// fail applies the state transition for err, emits one notice and returns
// err as an *api.Error.
func (m *Manager) fail(err error, title, fallback string) error {

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		apiErr = &api.Error{Kind: api.KindServer, Message: fallback, Err: err}
	}

	switch apiErr.Kind {
	case api.KindSessionExpired:
		m.expire()
		return apiErr

	case api.KindUnreachable, api.KindServer:
		m.markStale()
		m.notify(SeverityInfo, title, fallback)

	case api.KindValidation, api.KindEmptyCart, api.KindProductNotFound, api.KindNotFound, api.KindUnauthenticated:
		message := fallback
		if apiErr.Message != "" {
			message = apiErr.Message
		}
		m.notify(SeverityInfo, title, message)

	default:
		m.notify(SeverityInfo, title, fallback)
	}

	return apiErr
}

// markStale flags the view as out of date after a failed round trip. An
// offline or anonymous manager keeps its state.
func (m *Manager) markStale() {
	m.stateMu.Lock()
	if m.sess != nil && m.state != StateOffline {
		m.state = StateStale
	}
	m.stateMu.Unlock()
}

// expire drops the session after the server rejected its token. Token,
// profile and cart go together and the user is told once.
func (m *Manager) expire() {

	m.stateMu.Lock()
	if m.sess == nil {
		m.stateMu.Unlock()
		return
	}
	m.sess = nil
	m.gen++
	m.lines = nil
	if m.client == nil {
		m.state = StateOffline
	} else {
		m.state = StateAnonymous
	}
	m.stateMu.Unlock()

	if err := m.sessions.Clear(); err != nil {
		m.logger.Error("Failed to clear expired session", slog.String("error", err.Error()))
	}

	m.logger.Info("Session expired")

	m.notify(SeverityModal, "Session Expired", "Your session has expired. Please login again.")
}
