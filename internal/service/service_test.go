package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/summer-camp/internal/model"
	"github.com/iliyamo/summer-camp/internal/payment"
	"github.com/iliyamo/summer-camp/internal/policy"
	"github.com/iliyamo/summer-camp/internal/repository"
)

var (
	student    = policy.Caller{Email: "sam@camp.test", Role: model.RoleStudent}
	otherKid   = policy.Caller{Email: "kim@camp.test", Role: model.RoleStudent}
	instructor = policy.Caller{Email: "ivy@camp.test", Role: model.RoleInstructor}
	admin      = policy.Caller{Email: "ada@camp.test", Role: model.RoleAdmin}
)

type fakeGateway struct {
	mu      sync.Mutex
	charges []payment.Charge
	err     error
}

func (g *fakeGateway) Provider() string { return "fake" }

func (g *fakeGateway) CreateIntent(_ context.Context, ch payment.Charge) (payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return payment.Intent{}, g.err
	}
	g.charges = append(g.charges, ch)
	return payment.Intent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil
}

type published struct {
	queue string
	event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(_ context.Context, queue string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{queue: queue, event: event})
	return nil
}

func (p *recordingPublisher) count(queue string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.queue == queue {
			n++
		}
	}
	return n
}

type fixture struct {
	cols *repository.Collections
	svc  *Services
	gw   *fakeGateway
	pub  *recordingPublisher
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cols := repository.NewMemoryCollections()
	gw := &fakeGateway{}
	pub := &recordingPublisher{}
	return fixture{cols: cols, svc: New(cols, gw, pub, zap.NewNop()), gw: gw, pub: pub}
}

func (f fixture) addClass(t *testing.T, seats int) string {
	t.Helper()
	res, err := f.svc.Classes.Create(context.Background(), instructor, ClassInput{
		Name:            "Watercolor",
		Price:           40,
		InstructorEmail: instructor.Email,
		AvailableSeats:  seats,
	})
	require.NoError(t, err)
	return res.InsertedID.Hex()
}

func ptr[T any](v T) *T { return &v }

func requireKind(t *testing.T, err error, target error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, target), "want %v, got %v", target, err)
}
