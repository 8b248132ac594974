package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/FlashCards/internal/models"
	"github.com/atinyakov/FlashCards/internal/repository"
)

// DeckRepository defines the persistence operations needed by DeckService.
type DeckRepository interface {
	// CreateTopic stores a topic only if its ID is free; otherwise it returns
	// repository.ErrAlreadyExists and writes nothing.
	CreateTopic(ctx context.Context, topic models.Topic) error
	// EnsureTopic stores a topic if its ID is free and reports whether it did.
	EnsureTopic(ctx context.Context, topic models.Topic) (bool, error)
	// ListTopics returns all topics in store order.
	ListTopics(ctx context.Context) ([]models.Topic, error)
	// AddCard appends a card under topicID and returns it with its new ID.
	AddCard(ctx context.Context, topicID string, card models.Card) (models.Card, error)
	// ListCards returns the cards of topicID, empty if there are none.
	ListCards(ctx context.Context, topicID string) ([]models.Card, error)
}

// DeckService maps human-entered topic names to stable identifiers and
// manages the cards stored under them.
type DeckService struct {
	// repo is the underlying persistence repository.
	repo DeckRepository
}

// NewDeckService constructs a DeckService with the provided DeckRepository.
func NewDeckService(repo DeckRepository) *DeckService {
	return &DeckService{repo: repo}
}

// CreateTopic validates name, derives its identifier, and stores the topic
// with its trimmed display name. An empty name is ErrMissingField, a blank
// one ErrEmptyField, and a name whose identifier is taken ErrAlreadyExists.
func (s *DeckService) CreateTopic(ctx context.Context, name string) (models.Topic, error) {
	if name == "" {
		return models.Topic{}, missing("name", "name")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return models.Topic{}, empty("name", "name")
	}

	topic := models.Topic{ID: models.NormalizeTopicID(trimmed), Name: trimmed}
	if err := s.repo.CreateTopic(ctx, topic); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return models.Topic{}, ErrAlreadyExists
		}
		return models.Topic{}, fmt.Errorf("create topic: %w", err)
	}
	return topic, nil
}

// ListTopics returns every topic.
func (s *DeckService) ListTopics(ctx context.Context) ([]models.Topic, error) {
	topics, err := s.repo.ListTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	if topics == nil {
		topics = []models.Topic{}
	}
	return topics, nil
}

// CreateCard stores a card with trimmed question and answer under the topic
// named topicName, creating the topic first when it does not exist. The
// implicitly created topic gets the trimmed name, as CreateTopic would give
// it. Cards are never deduplicated.
func (s *DeckService) CreateCard(ctx context.Context, topicName, question, answer string) (models.Card, error) {
	if question == "" {
		return models.Card{}, missing("question", "adat")
	}
	if answer == "" {
		return models.Card{}, missing("answer", "adat")
	}
	q := strings.TrimSpace(question)
	if q == "" {
		return models.Card{}, empty("question", "adat")
	}
	a := strings.TrimSpace(answer)
	if a == "" {
		return models.Card{}, empty("answer", "adat")
	}

	trimmed := strings.TrimSpace(topicName)
	if trimmed == "" {
		return models.Card{}, empty("topic", "adat")
	}
	topicID := models.NormalizeTopicID(trimmed)

	if _, err := s.repo.EnsureTopic(ctx, models.Topic{ID: topicID, Name: trimmed}); err != nil {
		return models.Card{}, fmt.Errorf("ensure topic: %w", err)
	}

	card, err := s.repo.AddCard(ctx, topicID, models.Card{Question: q, Answer: a})
	if err != nil {
		return models.Card{}, fmt.Errorf("add card: %w", err)
	}
	return card, nil
}

// ListCards returns the cards of the topic named topicName. An unknown or
// blank topic yields an empty slice rather than an error.
func (s *DeckService) ListCards(ctx context.Context, topicName string) ([]models.Card, error) {
	topicID := models.NormalizeTopicID(topicName)
	if topicID == "" {
		return []models.Card{}, nil
	}

	cards, err := s.repo.ListCards(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	if cards == nil {
		cards = []models.Card{}
	}
	return cards, nil
}
