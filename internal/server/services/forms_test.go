package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/anonsession/internal/common"
	"github.com/dmitrijs2005/anonsession/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactService_Create(t *testing.T) {
	db, _ := newMockDB(t)
	m := newFakeRepoManager()
	s := NewContactService(db, m)

	c, err := s.Create(context.Background(), " Ann ", "ann@example.com", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Ann", c.Name)
	require.Len(t, m.contacts.created, 1)

	_, err = s.Create(context.Background(), "Ann", "", "hello")
	require.ErrorIs(t, err, common.ErrorValidation)
	_, err = s.Create(context.Background(), "Ann", "ann@example.com", "  ")
	require.ErrorIs(t, err, common.ErrorValidation)

	m.contacts.err = errors.New("db down")
	_, err = s.Create(context.Background(), "Ann", "ann@example.com", "hello")
	require.Error(t, err)
}

func TestMailingListService_Subscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("new subscriber", func(t *testing.T) {
		db, mock := newMockDB(t)
		m := newFakeRepoManager()
		s := NewMailingListService(db, m)
		mock.ExpectBegin()
		mock.ExpectCommit()

		sub, err := s.Subscribe(ctx, "Ann", "ann@example.com", "")
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
		assert.True(t, sub.Subscribed)
		assert.Len(t, m.mailing.subs, 1)
	})

	t.Run("resubscribes existing", func(t *testing.T) {
		db, mock := newMockDB(t)
		m := newFakeRepoManager()
		m.mailing.subs = []models.Subscriber{{ID: 1, Email: "ann@example.com"}}
		s := NewMailingListService(db, m)
		mock.ExpectBegin()
		mock.ExpectCommit()

		sub, err := s.Subscribe(ctx, "Ann", "ann@example.com", "")
		require.NoError(t, err)
		assert.Equal(t, int64(1), sub.ID)
		assert.True(t, m.mailing.subs[0].Subscribed)
		assert.Len(t, m.mailing.subs, 1)
	})

	t.Run("lookup failure rolls back", func(t *testing.T) {
		db, mock := newMockDB(t)
		m := newFakeRepoManager()
		m.mailing.err = errors.New("db down")
		s := NewMailingListService(db, m)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := s.Subscribe(ctx, "Ann", "ann@example.com", "")
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("email required", func(t *testing.T) {
		db, _ := newMockDB(t)
		s := NewMailingListService(db, newFakeRepoManager())
		_, err := s.Subscribe(ctx, "Ann", " ", "")
		require.ErrorIs(t, err, common.ErrorValidation)
	})
}

func TestMailingListService_Unsubscribe(t *testing.T) {
	db, _ := newMockDB(t)
	m := newFakeRepoManager()
	m.mailing.subs = []models.Subscriber{
		{ID: 1, Email: "ann@example.com", Subscribed: true},
		{ID: 2, Email: "ann@example.com", Subscribed: true},
		{ID: 3, Email: "bob@example.com", Subscribed: true},
	}
	s := NewMailingListService(db, m)

	require.NoError(t, s.Unsubscribe(context.Background(), "ann@example.com"))
	assert.False(t, m.mailing.subs[0].Subscribed)
	assert.False(t, m.mailing.subs[1].Subscribed)
	assert.True(t, m.mailing.subs[2].Subscribed)

	require.NoError(t, s.Unsubscribe(context.Background(), "nobody@example.com"))
	require.ErrorIs(t, s.Unsubscribe(context.Background(), ""), common.ErrorValidation)
}
