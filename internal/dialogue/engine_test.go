package dialogue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/hray3182/julius/internal/format"
	"github.com/hray3182/julius/internal/ledger"
	"github.com/hray3182/julius/internal/models"
	"github.com/hray3182/julius/internal/money"
	"github.com/hray3182/julius/internal/repository/memory"
	"github.com/hray3182/julius/internal/session"
)

const user = int64(42)

type EngineSuite struct {
	suite.Suite
	ctx    context.Context
	store  *memory.Store
	svc    *ledger.Service
	engine *Engine
}

func (s *EngineSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	reg := models.DefaultRegistry()
	s.svc = ledger.New(reg, s.store, s.store)
	s.engine = New(session.New[Session](10*time.Minute), s.svc, reg, money.Parser{AcceptComma: true}, nil)
}

func (s *EngineSuite) send(text string) string {
	reply, ok := s.engine.Handle(s.ctx, user, text)
	s.Require().True(ok, "expected an open form")
	return reply.Text
}

func (s *EngineSuite) TestFullFlow() {
	_, err := s.svc.SetLimit(s.ctx, "MERCADO", decimal.NewFromInt(500))
	s.Require().NoError(err)

	start := s.engine.Start(user)
	s.Equal(format.PromptDescription, start.Text)
	s.True(s.engine.Active(user))

	s.Equal(format.PromptAmount, s.send("Feira"))

	picker, ok := s.engine.Handle(s.ctx, user, "150,50")
	s.Require().True(ok)
	s.Equal(format.PromptCategory, picker.Text)
	s.Equal(models.DefaultRegistry().Names(), picker.Keyboard)

	done, ok := s.engine.Handle(s.ctx, user, "mercado")
	s.Require().True(ok)
	s.True(done.Markdown)
	s.True(done.RemoveKeyboard)
	text := format.ParseMarkdown(done.Text).Text
	s.Contains(text, "📝 Feira")
	s.Contains(text, "💵 R$ 150.50")
	s.Contains(text, "💰 Saldo: R$ 349.50 / 500.00")
	s.False(s.engine.Active(user))

	all, err := s.store.All(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal(user, all[0].UserID)
	s.Equal(models.Category("MERCADO"), all[0].Category)
	s.Equal("150.50", all[0].Amount.StringFixed(2))
}

func (s *EngineSuite) TestRetriesUntilValid() {
	s.engine.Start(user)
	s.Equal(format.PromptDescription, s.send("   "))
	s.send("Cinema")

	for _, bad := range []string{"abc", "0", "-5", ""} {
		s.Equal(format.InvalidAmount, s.send(bad), bad)
	}
	s.Equal(format.PromptCategory, s.send("30"))

	reply, _ := s.engine.Handle(s.ctx, user, "ALUGUEL")
	s.Equal(format.InvalidCategory, reply.Text)
	s.Len(reply.Keyboard, 8)
	s.True(s.engine.Active(user))

	s.Contains(s.send("Lazer"), "Gasto registrado")
}

func (s *EngineSuite) TestCancelDiscardsPartialFields() {
	s.engine.Start(user)
	s.send("Parcial")
	s.send("10")

	s.Equal(format.Cancelled, s.engine.Cancel(user).Text)
	s.False(s.engine.Active(user))
	_, ok := s.engine.Handle(s.ctx, user, "MERCADO")
	s.False(ok)

	s.engine.Start(user)
	sess, ok := s.engine.Sessions().Get(user)
	s.Require().True(ok)
	s.Equal(Session{State: AwaitingDescription}, sess)

	all, _ := s.store.All(s.ctx)
	s.Empty(all)
}

func (s *EngineSuite) TestCancelWithoutForm() {
	s.Equal(format.NothingToCancel, s.engine.Cancel(user).Text)
}

func (s *EngineSuite) TestStartRestartsForm() {
	s.engine.Start(user)
	s.send("Primeiro")
	s.engine.Start(user)
	s.Equal(format.PromptAmount, s.send("Segundo"))

	sess, _ := s.engine.Sessions().Get(user)
	s.Equal("Segundo", sess.Description)
}

func (s *EngineSuite) TestUsersAreIndependent() {
	s.engine.Start(1)
	s.engine.Start(2)
	r1, _ := s.engine.Handle(s.ctx, 1, "a")
	r2, _ := s.engine.Handle(s.ctx, 2, "b")
	s.Equal(format.PromptAmount, r1.Text)
	s.Equal(format.PromptAmount, r2.Text)
	s.engine.Cancel(1)
	s.True(s.engine.Active(2))
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, ledger.Entry) (*ledger.Receipt, error) {
	return nil, &ledger.PersistenceError{Op: "append expense", Err: errors.New("down")}
}

func TestPersistenceFailureEndsForm(t *testing.T) {
	ctx := context.Background()
	reg := models.DefaultRegistry()
	e := New(session.New[Session](time.Minute), failingRecorder{}, reg, money.Parser{}, nil)

	e.Start(user)
	e.Handle(ctx, user, "x")
	e.Handle(ctx, user, "1")
	reply, ok := e.Handle(ctx, user, "LAZER")
	require.True(t, ok)
	assert.Equal(t, "🔥 Erro ao acessar o banco de dados. Tente novamente mais tarde.", reply.Text)
	assert.True(t, reply.RemoveKeyboard)
	assert.False(t, e.Active(user))
}

func TestExpiredFormIsGone(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := session.New[Session](time.Minute)
	store.SetClock(func() time.Time { return now })
	e := New(store, failingRecorder{}, models.DefaultRegistry(), money.Parser{}, nil)

	e.Start(user)
	now = now.Add(2 * time.Minute)
	_, ok := e.Handle(context.Background(), user, "late")
	assert.False(t, ok)
	assert.Equal(t, 1, store.Sweep())
}
