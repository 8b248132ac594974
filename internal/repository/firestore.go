package repository

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/atinyakov/FlashCards/internal/models"
)

const (
	topicsCollection = "topics"
	cardsCollection  = "cards"
)

type firestoreTopic struct {
	Name string `firestore:"name"`
}

type firestoreCard struct {
	Question string `firestore:"question"`
	Answer   string `firestore:"answer"`
}

// FirestoreDeckRepository stores topics as documents of the "topics"
// collection keyed by their normalized ID, and cards in a "cards"
// subcollection of each topic document with Firestore-generated IDs.
type FirestoreDeckRepository struct {
	// Client is the Firestore client. It is closed by Close.
	Client *firestore.Client
}

// NewFirestoreDeckRepository wraps an open Firestore client.
func NewFirestoreDeckRepository(client *firestore.Client) *FirestoreDeckRepository {
	return &FirestoreDeckRepository{Client: client}
}

func (s *FirestoreDeckRepository) topics() *firestore.CollectionRef {
	return s.Client.Collection(topicsCollection)
}

// topicDoc returns the document of topicID. Firestore treats "/" as a path
// separator, so such IDs cannot name a topic document.
func (s *FirestoreDeckRepository) topicDoc(topicID string) (*firestore.DocumentRef, error) {
	if topicID == "" || strings.Contains(topicID, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, topicID)
	}
	return s.topics().Doc(topicID), nil
}

// CreateTopic uses DocumentRef.Create, which the server rejects with
// AlreadyExists when the document is present; no existence read is needed.
func (s *FirestoreDeckRepository) CreateTopic(ctx context.Context, topic models.Topic) error {
	created, err := s.EnsureTopic(ctx, topic)
	if err != nil {
		return err
	}
	if !created {
		return ErrAlreadyExists
	}
	return nil
}

// EnsureTopic creates the topic document if absent and reports whether it did.
func (s *FirestoreDeckRepository) EnsureTopic(ctx context.Context, topic models.Topic) (bool, error) {
	doc, err := s.topicDoc(topic.ID)
	if err != nil {
		return false, err
	}
	_, err = doc.Create(ctx, firestoreTopic{Name: topic.Name})
	if status.Code(err) == codes.AlreadyExists {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create topic %q: %w", topic.ID, err)
	}
	return true, nil
}

// ListTopics reads every document of the topics collection.
func (s *FirestoreDeckRepository) ListTopics(ctx context.Context) ([]models.Topic, error) {
	docs, err := s.topics().Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("ListTopics: %w", err)
	}

	topics := make([]models.Topic, 0, len(docs))
	for _, d := range docs {
		var t firestoreTopic
		if err := d.DataTo(&t); err != nil {
			return nil, fmt.Errorf("decode topic %q: %w", d.Ref.ID, err)
		}
		topics = append(topics, models.Topic{ID: d.Ref.ID, Name: t.Name})
	}
	return topics, nil
}

// AddCard adds a document to the topic's cards subcollection. Firestore
// assigns the ID.
func (s *FirestoreDeckRepository) AddCard(ctx context.Context, topicID string, card models.Card) (models.Card, error) {
	doc, err := s.topicDoc(topicID)
	if err != nil {
		return models.Card{}, err
	}
	ref, _, err := doc.Collection(cardsCollection).Add(ctx, firestoreCard{
		Question: card.Question,
		Answer:   card.Answer,
	})
	if err != nil {
		return models.Card{}, fmt.Errorf("insert card: %w", err)
	}
	card.ID = ref.ID
	return card, nil
}

// ListCards reads the cards subcollection of topicID. A missing parent
// document simply has no cards, and neither has an ID that cannot exist.
func (s *FirestoreDeckRepository) ListCards(ctx context.Context, topicID string) ([]models.Card, error) {
	doc, err := s.topicDoc(topicID)
	if err != nil {
		return []models.Card{}, nil
	}
	docs, err := doc.Collection(cardsCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("ListCards: %w", err)
	}

	cards := make([]models.Card, 0, len(docs))
	for _, d := range docs {
		var c firestoreCard
		if err := d.DataTo(&c); err != nil {
			return nil, fmt.Errorf("decode card %q: %w", d.Ref.ID, err)
		}
		cards = append(cards, models.Card{ID: d.Ref.ID, Question: c.Question, Answer: c.Answer})
	}
	return cards, nil
}

// Ping performs a single-document read of the topics collection.
func (s *FirestoreDeckRepository) Ping(ctx context.Context) error {
	_, err := s.topics().Limit(1).Documents(ctx).GetAll()
	return err
}

// Close closes the Firestore client.
func (s *FirestoreDeckRepository) Close() error {
	return s.Client.Close()
}
