package messages

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

type fakeMessageRepo struct {
	messages map[string]models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[string]models.Message)}
}

func (r *fakeMessageRepo) CreateMessage(_ context.Context, msg models.Message) error {
	r.messages[msg.ID] = msg
	return nil
}

func (r *fakeMessageRepo) GetMessage(_ context.Context, id string) (*models.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, storage.ErrMessageNotFound
	}
	return &m, nil
}

func (r *fakeMessageRepo) UpdateMessage(_ context.Context, msg models.Message) error {
	if _, ok := r.messages[msg.ID]; !ok {
		return storage.ErrMessageNotFound
	}
	r.messages[msg.ID] = msg
	return nil
}

func (r *fakeMessageRepo) DeleteMessage(_ context.Context, id string) error {
	delete(r.messages, id)
	return nil
}

func (r *fakeMessageRepo) ListMessages(_ context.Context) ([]models.Message, error) {
	out := make([]models.Message, 0, len(r.messages))
	for _, m := range r.messages {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkDismissed(_ context.Context, id, email string) error {
	m, ok := r.messages[id]
	if !ok {
		return storage.ErrMessageNotFound
	}
	m.DismissedFor = append(m.DismissedFor, email)
	r.messages[id] = m
	return nil
}

type fakeUserRepo struct {
	users []models.User
}

func (r *fakeUserRepo) GetUser(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (r *fakeUserRepo) ListUsers(_ context.Context) ([]models.User, error) {
	return r.users, nil
}

type capturingPublisher struct {
	routingKey string
	published  []any
}

func (p *capturingPublisher) Publish(routingKey string, message any) error {
	p.routingKey = routingKey
	p.published = append(p.published, message)
	return nil
}

func testUsers() *fakeUserRepo {
	return &fakeUserRepo{users: []models.User{
		{Email: "a@x.com", Name: "A", Team: "alpha"},
		{Email: "b@x.com", Name: "B", Team: "alpha"},
		{Email: "c@x.com", Name: "C", Team: "beta"},
	}}
}

func newTestService(repo *fakeMessageRepo, users *fakeUserRepo, pub Publisher) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(repo, users, pub, log)
}

func TestCreate_PublishesEventWithRecipients(t *testing.T) {
	repo := newFakeMessageRepo()
	pub := &capturingPublisher{}
	s := newTestService(repo, testUsers(), pub)

	msg, err := s.Create(context.Background(), CreateInput{
		Title:       "news",
		Text:        "hello",
		TargetTeams: []string{"alpha"},
		Sender:      "boss@x.com",
	})
	require.NoError(t, err)
	assert.True(t, msg.Active)
	assert.NotEmpty(t, msg.ID)

	require.Len(t, pub.published, 1)
	event, ok := pub.published[0].(models.AnnouncementEvent)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"a@x.com", "b@x.com"}, event.Recipients)
	assert.Equal(t, msg.ID, event.MessageID)
}

func TestCreate_NilPublisher(t *testing.T) {
	repo := newFakeMessageRepo()
	s := newTestService(repo, testUsers(), nil)

	msg, err := s.Create(context.Background(), CreateInput{Title: "t", Text: "x", TargetAll: true})
	require.NoError(t, err)
	_, err = repo.GetMessage(context.Background(), msg.ID)
	assert.NoError(t, err)
}

func TestListEligible(t *testing.T) {
	repo := newFakeMessageRepo()
	users := testUsers()
	s := newTestService(repo, users, nil)
	ctx := context.Background()

	forAll, err := s.Create(ctx, CreateInput{Title: "all", Text: "x", TargetAll: true})
	require.NoError(t, err)
	_, err = s.Create(ctx, CreateInput{Title: "beta only", Text: "x", TargetTeams: []string{"beta"}})
	require.NoError(t, err)

	got, err := s.ListEligible(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "all", got[0].Title)

	require.NoError(t, s.Dismiss(ctx, forAll.ID, "a@x.com"))
	got, err = s.ListEligible(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListEligible_InactiveHidden(t *testing.T) {
	repo := newFakeMessageRepo()
	s := newTestService(repo, testUsers(), nil)
	ctx := context.Background()

	msg, err := s.Create(ctx, CreateInput{Title: "t", Text: "x", TargetAll: true})
	require.NoError(t, err)

	msg.Active = false
	require.NoError(t, s.Update(ctx, *msg))

	got, err := s.ListEligible(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDismiss_UnknownMessage(t *testing.T) {
	s := newTestService(newFakeMessageRepo(), testUsers(), nil)
	err := s.Dismiss(context.Background(), "missing", "a@x.com")
	assert.ErrorIs(t, err, storage.ErrMessageNotFound)
}
