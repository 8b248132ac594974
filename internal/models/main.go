// Package models defines the core data structures for topics and cards.
package models

import "strings"

// Topic is a named category that owns a set of cards.
type Topic struct {
	// ID is the normalized form of the display name and the store key.
	ID string `json:"id"`
	// Name is the display name as entered, trimmed.
	Name string `json:"name"`
}

// Card is a question/answer pair belonging to exactly one topic.
type Card struct {
	// ID is an opaque identifier assigned by the store.
	ID string `json:"id"`
	// Question is the prompt side of the card.
	Question string `json:"question"`
	// Answer is the reverse side of the card.
	Answer string `json:"answer"`
}

// NormalizeTopicID derives the stable identifier for a topic display name:
// surrounding whitespace removed, then lowercased.
func NormalizeTopicID(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
