//go:build !integration

package usecase_test

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"cinemahub-billing/internal/domain"
	"cinemahub-billing/internal/domain/model"
	"cinemahub-billing/internal/domain/ports/adapter"
	"cinemahub-billing/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	return &l
}

// MockOrderRepo is a small in-memory ledger used by unit tests.
type MockOrderRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Order

	SaveFunc               func(ctx context.Context, tx repository.Tx, o *model.Order) error
	MarkPayedIfPendingFunc func(ctx context.Context, tx repository.Tx, id string) (bool, error)
}

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{store: make(map[string]*model.Order)}
}

func (m *MockOrderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, tx, o); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.store[o.ID] = &cp
	return nil
}

func (m *MockOrderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockOrderRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Order, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Order
	for _, o := range m.store {
		cp := *o
		out = append(out, &cp)
	}
	return out, len(m.store), nil
}

func (m *MockOrderRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MockOrderRepo) MarkPayedIfPending(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	if m.MarkPayedIfPendingFunc != nil {
		return m.MarkPayedIfPendingFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok {
		return false, nil
	}
	if o.Status != model.OrderStatusPending {
		return false, nil
	}
	o.Status = model.OrderStatusPayed
	o.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockOrderRepo) ExpirePendingOlderThan(ctx context.Context, tx repository.Tx, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.store {
		if o.Status == model.OrderStatusPending && o.CreatedAt.Before(cutoff) {
			o.Status = model.OrderStatusExpired
			n++
		}
	}
	return n, nil
}

// MockUserRepo is an in-memory account store.
type MockUserRepo struct {
	mu    sync.RWMutex
	store map[string]*model.User

	GrantPremiumFunc func(ctx context.Context, tx repository.Tx, id string) error
	grantCalls       int
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{store: make(map[string]*model.User)}
}

func (m *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) GrantPremium(ctx context.Context, tx repository.Tx, id string) error {
	if m.GrantPremiumFunc != nil {
		return m.GrantPremiumFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.grantCalls++
	u.IsHasPremium = true
	return nil
}

func (m *MockUserRepo) GrantCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.grantCalls
}

// MockGateway records calls and returns canned payments.
type MockGateway struct {
	mu sync.Mutex

	CreatePaymentFunc  func(ctx context.Context, amount decimal.Decimal, description, returnURL string, meta map[string]string) (*adapter.Payment, error)
	CapturePaymentFunc func(ctx context.Context, paymentID string) (*adapter.Payment, error)

	createCalls  int
	captureCalls []string
	lastCreate   struct {
		Amount      decimal.Decimal
		Description string
		ReturnURL   string
		Meta        map[string]string
	}
}

func (m *MockGateway) CreatePayment(ctx context.Context, amount decimal.Decimal, description, returnURL string, meta map[string]string) (*adapter.Payment, error) {
	m.mu.Lock()
	m.createCalls++
	m.lastCreate.Amount = amount
	m.lastCreate.Description = description
	m.lastCreate.ReturnURL = returnURL
	m.lastCreate.Meta = meta
	m.mu.Unlock()
	if m.CreatePaymentFunc != nil {
		return m.CreatePaymentFunc(ctx, amount, description, returnURL, meta)
	}
	return &adapter.Payment{
		ID:     "gw-payment-1",
		Status: "pending",
		Amount: adapter.Amount{Value: amount.StringFixed(2), Currency: "RUB"},
		Confirmation: adapter.Confirmation{
			Type:            "redirect",
			ConfirmationURL: "https://gateway.example/confirm/gw-payment-1",
		},
		Description: description,
	}, nil
}

func (m *MockGateway) CapturePayment(ctx context.Context, paymentID string) (*adapter.Payment, error) {
	m.mu.Lock()
	m.captureCalls = append(m.captureCalls, paymentID)
	m.mu.Unlock()
	if m.CapturePaymentFunc != nil {
		return m.CapturePaymentFunc(ctx, paymentID)
	}
	return &adapter.Payment{ID: paymentID, Status: "succeeded", Paid: true}, nil
}

func (m *MockGateway) CreateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls
}

func (m *MockGateway) CaptureCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.captureCalls...)
}

// MockTxManager runs the callback inline without a real transaction.
type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, nil)
}

// MockEventStore remembers processed webhook keys in memory.
type MockEventStore struct {
	mu   sync.Mutex
	seen map[string]bool

	SeenFunc          func(ctx context.Context, key string) (bool, error)
	MarkProcessedFunc func(ctx context.Context, key string, ttl time.Duration) error
}

func NewMockEventStore() *MockEventStore {
	return &MockEventStore{seen: make(map[string]bool)}
}

func (m *MockEventStore) Seen(ctx context.Context, key string) (bool, error) {
	if m.SeenFunc != nil {
		return m.SeenFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[key], nil
}

func (m *MockEventStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) error {
	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(ctx, key, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[key] = true
	return nil
}

// Marked reports whether a key was recorded as processed.
func (m *MockEventStore) Marked(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[key]
}
