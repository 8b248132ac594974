package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/FlashCards/internal/models"
	"github.com/google/uuid"
)

// PostgresDeckRepository implements topic and card storage against a
// PostgreSQL database. The schema is created by db.InitPostgres.
type PostgresDeckRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB

	newID func() string
}

// NewPostgresDeckRepository creates a new PostgresDeckRepository using the provided *sql.DB.
// db must be a valid connection to a PostgreSQL instance.
func NewPostgresDeckRepository(db *sql.DB) *PostgresDeckRepository {
	return &PostgresDeckRepository{DB: db, newID: uuid.NewString}
}

// CreateTopic inserts a topic row. The insert is conditional on the primary
// key, so two concurrent creations of the same ID cannot both succeed; the
// loser gets ErrAlreadyExists.
//
//	ctx:   context for cancellation and deadlines
//	topic: topic with its normalized ID and display name
func (s *PostgresDeckRepository) CreateTopic(ctx context.Context, topic models.Topic) error {
	created, err := s.EnsureTopic(ctx, topic)
	if err != nil {
		return err
	}
	if !created {
		return ErrAlreadyExists
	}
	return nil
}

// EnsureTopic inserts the topic if its ID is free and reports whether a row
// was written.
func (s *PostgresDeckRepository) EnsureTopic(ctx context.Context, topic models.Topic) (bool, error) {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO topics (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		topic.ID, topic.Name,
	)
	if err != nil {
		return false, fmt.Errorf("insert topic: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert topic rows affected: %w", err)
	}
	return n == 1, nil
}

// ListTopics fetches all topics in the order PostgreSQL returns them.
func (s *PostgresDeckRepository) ListTopics(ctx context.Context) ([]models.Topic, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, name FROM topics`)
	if err != nil {
		return nil, fmt.Errorf("ListTopics: %w", err)
	}
	defer rows.Close()

	topics := make([]models.Topic, 0)
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// AddCard inserts a card under topicID with a generated UUID.
//
//	ctx:     context for cancellation and deadlines
//	topicID: normalized topic identifier
//	card:    question and answer; ID is ignored and replaced
//
// Returns the stored card with its new ID.
func (s *PostgresDeckRepository) AddCard(ctx context.Context, topicID string, card models.Card) (models.Card, error) {
	card.ID = s.newID()
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO cards (id, topic_id, question, answer) VALUES ($1, $2, $3, $4)`,
		card.ID, topicID, card.Question, card.Answer,
	)
	if err != nil {
		return models.Card{}, fmt.Errorf("insert card: %w", err)
	}
	return card, nil
}

// ListCards fetches the cards of topicID in insertion order. A topic with no
// rows, existing or not, yields an empty slice.
func (s *PostgresDeckRepository) ListCards(ctx context.Context, topicID string) ([]models.Card, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, question, answer FROM cards WHERE topic_id = $1 ORDER BY created_at, id
	`, topicID)
	if err != nil {
		return nil, fmt.Errorf("ListCards: %w", err)
	}
	defer rows.Close()

	cards := make([]models.Card, 0)
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.Question, &c.Answer); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// Ping checks the database connection.
func (s *PostgresDeckRepository) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close closes the underlying database handle.
func (s *PostgresDeckRepository) Close() error {
	return s.DB.Close()
}
