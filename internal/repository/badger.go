package repository

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/atinyakov/FlashCards/internal/models"
)

// Key layout:
//
//	topic/<id>                      -> {"name": ...}
//	card/<hex(topicID)>/<uuidv7>    -> {"question": ..., "answer": ...}
//
// The topic ID is hex encoded in card keys so that a topic whose ID contains
// "/" cannot shadow the prefix of another topic. UUIDv7 keeps cards in
// creation order under a prefix scan.
const (
	prefixTopic = "topic/"
	prefixCard  = "card/"

	maxConflictRetries = 5
)

func keyTopic(id string) []byte { return []byte(prefixTopic + id) }

func keyCardPrefix(topicID string) []byte {
	return []byte(prefixCard + hex.EncodeToString([]byte(topicID)) + "/")
}

type badgerTopic struct {
	Name string `json:"name"`
}

type badgerCard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// BadgerDeckRepository stores topics and cards in an embedded Badger
// database. Topic creation runs in a single read-write transaction, so
// Badger's conflict detection serializes concurrent creations of one ID.
type BadgerDeckRepository struct {
	db    *badgerdb.DB
	newID func() (string, error)
}

// NewBadgerDeckRepository wraps an open Badger database.
func NewBadgerDeckRepository(db *badgerdb.DB) *BadgerDeckRepository {
	return &BadgerDeckRepository{db: db, newID: newTimeOrderedID}
}

func newTimeOrderedID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// update runs fn in a read-write transaction, retrying when Badger reports
// a conflict with a concurrently committed transaction.
func (s *BadgerDeckRepository) update(ctx context.Context, fn func(txn *badgerdb.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err = s.db.Update(fn)
		if !errors.Is(err, badgerdb.ErrConflict) {
			return err
		}
	}
	return err
}

// CreateTopic stores topic unless its ID is taken.
func (s *BadgerDeckRepository) CreateTopic(ctx context.Context, topic models.Topic) error {
	created, err := s.EnsureTopic(ctx, topic)
	if err != nil {
		return err
	}
	if !created {
		return ErrAlreadyExists
	}
	return nil
}

// EnsureTopic stores topic if its ID is free and reports whether it did.
func (s *BadgerDeckRepository) EnsureTopic(ctx context.Context, topic models.Topic) (bool, error) {
	var created bool
	err := s.update(ctx, func(txn *badgerdb.Txn) error {
		created = false
		_, err := txn.Get(keyTopic(topic.ID))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badgerdb.ErrKeyNotFound) {
			return err
		}

		data, err := json.Marshal(badgerTopic{Name: topic.Name})
		if err != nil {
			return err
		}
		if err := txn.Set(keyTopic(topic.ID), data); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("ensure topic: %w", err)
	}
	return created, nil
}

// ListTopics scans every topic key.
func (s *BadgerDeckRepository) ListTopics(ctx context.Context) ([]models.Topic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	topics := make([]models.Topic, 0)
	err := s.db.View(func(txn *badgerdb.Txn) error {
		prefix := []byte(prefixTopic)
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id := string(item.Key()[len(prefix):])
			err := item.Value(func(val []byte) error {
				var t badgerTopic
				if err := json.Unmarshal(val, &t); err != nil {
					return fmt.Errorf("decode topic %q: %w", id, err)
				}
				topics = append(topics, models.Topic{ID: id, Name: t.Name})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ListTopics: %w", err)
	}
	return topics, nil
}

// AddCard stores card under topicID with a generated time-ordered ID.
func (s *BadgerDeckRepository) AddCard(ctx context.Context, topicID string, card models.Card) (models.Card, error) {
	id, err := s.newID()
	if err != nil {
		return models.Card{}, fmt.Errorf("generate card id: %w", err)
	}
	card.ID = id

	data, err := json.Marshal(badgerCard{Question: card.Question, Answer: card.Answer})
	if err != nil {
		return models.Card{}, err
	}
	key := append(keyCardPrefix(topicID), id...)

	err = s.update(ctx, func(txn *badgerdb.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return models.Card{}, fmt.Errorf("insert card: %w", err)
	}
	return card, nil
}

// ListCards scans the cards of topicID. A topic without cards yields an
// empty slice.
func (s *BadgerDeckRepository) ListCards(ctx context.Context, topicID string) ([]models.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cards := make([]models.Card, 0)
	err := s.db.View(func(txn *badgerdb.Txn) error {
		prefix := keyCardPrefix(topicID)
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id := string(item.Key()[len(prefix):])
			err := item.Value(func(val []byte) error {
				var c badgerCard
				if err := json.Unmarshal(val, &c); err != nil {
					return fmt.Errorf("decode card %q: %w", id, err)
				}
				cards = append(cards, models.Card{ID: id, Question: c.Question, Answer: c.Answer})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ListCards: %w", err)
	}
	return cards, nil
}

// Ping reports ErrClosed once the database has been closed.
func (s *BadgerDeckRepository) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	return ctx.Err()
}

// Close closes the Badger database.
func (s *BadgerDeckRepository) Close() error {
	return s.db.Close()
}
