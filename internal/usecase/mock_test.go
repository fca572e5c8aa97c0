//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"activation-service/internal/domain"
	"activation-service/internal/domain/model"
	"activation-service/internal/domain/ports/repository"
)

// -----------------------------
// Shared in-memory store
// -----------------------------

// memStore backs all mock repositories of one test. Transactions run by
// MockTxManager are serialized and rolled back by restoring a snapshot.
type memStore struct {
	txMu sync.Mutex // one transaction at a time
	mu   sync.Mutex // guards the maps

	subs    map[string]*model.SubscriptionRecord
	used    map[string]model.UsedCodeRecord
	invites map[string]*model.InviteRecord
}

func newMemStore() *memStore {
	return &memStore{
		subs:    make(map[string]*model.SubscriptionRecord),
		used:    make(map[string]model.UsedCodeRecord),
		invites: make(map[string]*model.InviteRecord),
	}
}

type snapshot struct {
	subs    map[string]model.SubscriptionRecord
	used    map[string]model.UsedCodeRecord
	invites map[string]model.InviteRecord
}

func (s *memStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		subs:    make(map[string]model.SubscriptionRecord, len(s.subs)),
		used:    make(map[string]model.UsedCodeRecord, len(s.used)),
		invites: make(map[string]model.InviteRecord, len(s.invites)),
	}
	for k, v := range s.subs {
		snap.subs[k] = *v
	}
	for k, v := range s.used {
		snap.used[k] = v
	}
	for k, v := range s.invites {
		snap.invites[k] = *v
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = make(map[string]*model.SubscriptionRecord, len(snap.subs))
	for k, v := range snap.subs {
		v := v
		s.subs[k] = &v
	}
	s.used = snap.used
	s.invites = make(map[string]*model.InviteRecord, len(snap.invites))
	for k, v := range snap.invites {
		v := v
		s.invites[k] = &v
	}
}

func (s *memStore) expiry(subjectID string) *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.subs[subjectID]
	if !ok || rec.BenefitExpiry == nil {
		return nil
	}
	t := *rec.BenefitExpiry
	return &t
}

func (s *memStore) setExpiry(subjectID string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[subjectID] = &model.SubscriptionRecord{SubjectID: subjectID, BenefitExpiry: &t, UpdatedAt: time.Now()}
}

func (s *memStore) usedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.used)
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	store *memStore

	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager(store *memStore) *MockTxManager {
	return &MockTxManager{store: store}
}

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	if m.store == nil {
		return fn(ctx, repository.NoTX)
	}
	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	snap := m.store.snapshot()
	if err := fn(ctx, "mem-tx"); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// ---- Mock SubscriptionRepository ----

type MockSubscriptionRepo struct {
	store *memStore

	ExtendExpiryFunc func(ctx context.Context, tx repository.Tx, subjectID string, now time.Time, days int) (time.Time, error)

	mu      sync.Mutex
	Extends []string // subject IDs passed to ExtendExpiry
}

var _ repository.SubscriptionRepository = (*MockSubscriptionRepo)(nil)

func NewMockSubscriptionRepo(store *memStore) *MockSubscriptionRepo {
	return &MockSubscriptionRepo{store: store}
}

func (m *MockSubscriptionRepo) FindBySubject(ctx context.Context, tx repository.Tx, subjectID string) (*model.SubscriptionRecord, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	rec, ok := m.store.subs[subjectID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *MockSubscriptionRepo) ExtendExpiry(ctx context.Context, tx repository.Tx, subjectID string, now time.Time, days int) (time.Time, error) {
	m.mu.Lock()
	m.Extends = append(m.Extends, subjectID)
	m.mu.Unlock()
	if m.ExtendExpiryFunc != nil {
		return m.ExtendExpiryFunc(ctx, tx, subjectID, now, days)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var current *time.Time
	if rec, ok := m.store.subs[subjectID]; ok {
		current = rec.BenefitExpiry
	}
	next := model.ExtendExpiry(current, now, days)
	m.store.subs[subjectID] = &model.SubscriptionRecord{SubjectID: subjectID, BenefitExpiry: &next, UpdatedAt: now}
	return next, nil
}

func (m *MockSubscriptionRepo) CountActive(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	n := 0
	for _, rec := range m.store.subs {
		if rec.IsActive(now) {
			n++
		}
	}
	return n, nil
}

// ---- Mock UsedCodeRepository ----

type MockUsedCodeRepo struct {
	store *memStore

	ExistsFunc func(ctx context.Context, tx repository.Tx, codeHash string) (bool, error)
	InsertFunc func(ctx context.Context, tx repository.Tx, rec *model.UsedCodeRecord) error
}

var _ repository.UsedCodeRepository = (*MockUsedCodeRepo)(nil)

func NewMockUsedCodeRepo(store *memStore) *MockUsedCodeRepo {
	return &MockUsedCodeRepo{store: store}
}

func (m *MockUsedCodeRepo) Exists(ctx context.Context, tx repository.Tx, codeHash string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, tx, codeHash)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	_, ok := m.store.used[codeHash]
	return ok, nil
}

func (m *MockUsedCodeRepo) Insert(ctx context.Context, tx repository.Tx, rec *model.UsedCodeRecord) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, rec)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, ok := m.store.used[rec.CodeHash]; ok {
		return domain.ErrCodeAlreadyUsed
	}
	m.store.used[rec.CodeHash] = *rec
	return nil
}

// ---- Mock InviteRepository ----

type MockInviteRepo struct {
	store *memStore

	FindUnclaimedByInviteeFunc func(ctx context.Context, tx repository.Tx, inviteeID string) (*model.InviteRecord, error)
	MarkClaimedFunc            func(ctx context.Context, tx repository.Tx, id string, claimedAt time.Time, tier int) (bool, error)
}

var _ repository.InviteRepository = (*MockInviteRepo)(nil)

func NewMockInviteRepo(store *memStore) *MockInviteRepo {
	return &MockInviteRepo{store: store}
}

func (m *MockInviteRepo) Create(ctx context.Context, tx repository.Tx, inv *model.InviteRecord) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, existing := range m.store.invites {
		if existing.InviteeID == inv.InviteeID {
			return domain.ErrAlreadyExists
		}
	}
	cp := *inv
	m.store.invites[inv.ID] = &cp
	return nil
}

func (m *MockInviteRepo) FindUnclaimedByInvitee(ctx context.Context, tx repository.Tx, inviteeID string) (*model.InviteRecord, error) {
	if m.FindUnclaimedByInviteeFunc != nil {
		return m.FindUnclaimedByInviteeFunc(ctx, tx, inviteeID)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, inv := range m.store.invites {
		if inv.InviteeID == inviteeID && inv.RewardClaimedAt == nil {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockInviteRepo) MarkClaimed(ctx context.Context, tx repository.Tx, id string, claimedAt time.Time, tier int) (bool, error) {
	if m.MarkClaimedFunc != nil {
		return m.MarkClaimedFunc(ctx, tx, id, claimedAt, tier)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	inv, ok := m.store.invites[id]
	if !ok || inv.RewardClaimedAt != nil {
		return false, nil
	}
	at := claimedAt
	t := tier
	inv.RewardClaimedAt = &at
	inv.InviteeBenefitTier = &t
	return true, nil
}

// seedInvite stores an invite directly, bypassing the self-invite check.
func (m *MockInviteRepo) seedInvite(id, inviterID, inviteeID string) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.invites[id] = &model.InviteRecord{ID: id, InviterID: inviterID, InviteeID: inviteeID, CreatedAt: time.Now()}
}

func (m *MockInviteRepo) get(id string) model.InviteRecord {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return *m.store.invites[id]
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
// It writes to io.Discard to prevent logs from cluttering test output.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
