package service

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/certledger/internal/metrics"
	"github.com/dtroode/certledger/internal/model"
	"github.com/dtroode/certledger/internal/storage/memory"
	"github.com/dtroode/certledger/internal/testutil"
)

// MockStore mocks the Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockStore) Put(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockPublisher mocks the EventPublisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishCertificateIssued(ctx context.Context, event model.CertificateIssued) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// recordingPublisher collects published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []model.CertificateIssued
}

func (p *recordingPublisher) PublishCertificateIssued(_ context.Context, event model.CertificateIssued) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type ledger struct {
	store        *memory.Store
	accounts     *Account
	courses      *Course
	certificates *Certificate
	issuance     *Issuance
	publisher    *recordingPublisher
	metrics      *metrics.Metrics
}

func newLedger(t *testing.T) *ledger {
	t.Helper()

	store := memory.New()
	log := testutil.MakeNoopLogger()
	accounts := NewAccount(store, log)
	courses := NewCourse(store, accounts, log)
	certificates := NewCertificate(store, log)
	publisher := &recordingPublisher{}
	m := metrics.New(prometheus.NewRegistry())

	return &ledger{
		store:        store,
		accounts:     accounts,
		courses:      courses,
		certificates: certificates,
		issuance:     NewIssuance(courses, accounts, certificates, publisher, m, nil, log),
		publisher:    publisher,
		metrics:      m,
	}
}

func (l *ledger) mustCreateAccount(t *testing.T, id string) model.Account {
	t.Helper()
	account := model.Account{
		ID:             id,
		Name:           "Account " + id,
		Email:          id + "@example.com",
		PublicKey:      "pk-" + id,
		CertificateIDs: []string{},
	}
	require.NoError(t, l.accounts.Create(context.Background(), account))
	return account
}

func (l *ledger) mustCreateCourse(t *testing.T, id, instructorID string) model.Course {
	t.Helper()
	course := model.Course{
		ID:                 id,
		Name:               "Course " + id,
		DurationUnits:      40,
		InstructorID:       instructorID,
		EnrolledStudentIDs: []string{},
	}
	require.NoError(t, l.courses.Create(context.Background(), course))
	return course
}

func ptr[T any](v T) *T {
	return &v
}
