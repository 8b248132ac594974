package repository

import (
	"context"
	"sync"

	"github.com/atinyakov/FlashCards/internal/models"
	"github.com/google/uuid"
)

// MemoryDeckRepository keeps topics and cards in process memory. It is the
// default backend for development and the reference backend for tests.
// Enumeration order is insertion order.
type MemoryDeckRepository struct {
	mu     sync.RWMutex
	order  []string
	topics map[string]*memoryTopic
	closed bool

	newID func() string
}

type memoryTopic struct {
	topic models.Topic
	cards []models.Card
}

// NewMemoryDeckRepository returns an empty in-memory repository.
func NewMemoryDeckRepository() *MemoryDeckRepository {
	return &MemoryDeckRepository{
		topics: make(map[string]*memoryTopic),
		newID:  uuid.NewString,
	}
}

// CreateTopic stores topic unless its ID is taken, in which case it returns
// ErrAlreadyExists.
func (r *MemoryDeckRepository) CreateTopic(ctx context.Context, topic models.Topic) error {
	created, err := r.EnsureTopic(ctx, topic)
	if err != nil {
		return err
	}
	if !created {
		return ErrAlreadyExists
	}
	return nil
}

// EnsureTopic stores topic if no topic with its ID exists and reports
// whether it did.
func (r *MemoryDeckRepository) EnsureTopic(ctx context.Context, topic models.Topic) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false, ErrClosed
	}

	if _, ok := r.topics[topic.ID]; ok {
		return false, nil
	}
	r.topics[topic.ID] = &memoryTopic{topic: topic}
	r.order = append(r.order, topic.ID)
	return true, nil
}

// ListTopics returns every stored topic.
func (r *MemoryDeckRepository) ListTopics(ctx context.Context) ([]models.Topic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}

	out := make([]models.Topic, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.topics[id].topic)
	}
	return out, nil
}

// AddCard appends card under topicID with a freshly generated ID.
// The topic entry is created with an empty name if it is missing, the same
// way a document store accepts writes to a subcollection of an absent parent.
func (r *MemoryDeckRepository) AddCard(ctx context.Context, topicID string, card models.Card) (models.Card, error) {
	if err := ctx.Err(); err != nil {
		return models.Card{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return models.Card{}, ErrClosed
	}

	t, ok := r.topics[topicID]
	if !ok {
		t = &memoryTopic{topic: models.Topic{ID: topicID}}
		r.topics[topicID] = t
		r.order = append(r.order, topicID)
	}
	card.ID = r.newID()
	t.cards = append(t.cards, card)
	return card, nil
}

// ListCards returns the cards stored under topicID, or an empty slice when
// the topic does not exist.
func (r *MemoryDeckRepository) ListCards(ctx context.Context, topicID string) ([]models.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}

	t, ok := r.topics[topicID]
	if !ok {
		return []models.Card{}, nil
	}
	out := make([]models.Card, len(t.cards))
	copy(out, t.cards)
	return out, nil
}

// Ping reports whether the repository is usable.
func (r *MemoryDeckRepository) Ping(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrClosed
	}
	return ctx.Err()
}

// Close marks the repository unusable.
func (r *MemoryDeckRepository) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}
