package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/FlashCards/internal/models"
)

func newBadgerRepo(t *testing.T) *BadgerDeckRepository {
	t.Helper()
	db, err := badgerdb.Open(badgerdb.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	repo := NewBadgerDeckRepository(db)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestBadgerTopics(t *testing.T) {
	ctx := context.Background()
	repo := newBadgerRepo(t)

	topics, err := repo.ListTopics(ctx)
	require.NoError(t, err)
	require.Empty(t, topics)

	require.NoError(t, repo.CreateTopic(ctx, models.Topic{ID: "math", Name: "Math"}))
	require.ErrorIs(t, repo.CreateTopic(ctx, models.Topic{ID: "math", Name: "math"}), ErrAlreadyExists)

	created, err := repo.EnsureTopic(ctx, models.Topic{ID: "history", Name: "History"})
	require.NoError(t, err)
	require.True(t, created)
	created, err = repo.EnsureTopic(ctx, models.Topic{ID: "history", Name: "HISTORY"})
	require.NoError(t, err)
	require.False(t, created)

	topics, err = repo.ListTopics(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []models.Topic{
		{ID: "math", Name: "Math"},
		{ID: "history", Name: "History"},
	}, topics)
}

func TestBadgerCards_PrefixIsolation(t *testing.T) {
	ctx := context.Background()
	repo := newBadgerRepo(t)

	a, err := repo.AddCard(ctx, "a", models.Card{Question: "qa", Answer: "aa"})
	require.NoError(t, err)
	_, err = repo.AddCard(ctx, "a/b", models.Card{Question: "qab", Answer: "aab"})
	require.NoError(t, err)

	cards, err := repo.ListCards(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, []models.Card{a}, cards)

	cards, err = repo.ListCards(ctx, "missing")
	require.NoError(t, err)
	require.NotNil(t, cards)
	require.Empty(t, cards)
}

func TestBadgerCards_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := newBadgerRepo(t)

	var want []models.Card
	for _, q := range []string{"one", "two", "three"} {
		c, err := repo.AddCard(ctx, "math", models.Card{Question: q, Answer: q})
		require.NoError(t, err)
		want = append(want, c)
	}

	cards, err := repo.ListCards(ctx, "math")
	require.NoError(t, err)
	require.Equal(t, want, cards)
}

func TestBadgerCreateTopic_ConcurrentSingleWinner(t *testing.T) {
	ctx := context.Background()
	repo := newBadgerRepo(t)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.CreateTopic(ctx, models.Topic{ID: "race", Name: "Race"})
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, ErrAlreadyExists), errors.Is(err, badgerdb.ErrConflict):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, wins.Load())
}

func TestBadgerPingAfterClose(t *testing.T) {
	db, err := badgerdb.Open(badgerdb.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	repo := NewBadgerDeckRepository(db)

	require.NoError(t, repo.Ping(context.Background()))
	require.NoError(t, repo.Close())
	require.ErrorIs(t, repo.Ping(context.Background()), ErrClosed)
}
