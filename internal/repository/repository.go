// Package repository provides persistence implementations for topics and
// their cards. Each backend offers the same document-store contract: list a
// collection, create a topic only if absent, and append a card under a topic
// with a store-generated identifier.
package repository

import "errors"

// ErrAlreadyExists is returned by CreateTopic when a topic with the same
// identifier is already stored. No write happens in that case.
var ErrAlreadyExists = errors.New("repository: topic already exists")

// ErrClosed is returned by backends whose underlying handle was closed.
var ErrClosed = errors.New("repository: store is closed")

// ErrInvalidID is returned by backends that cannot store an identifier,
// such as Firestore for IDs containing "/".
var ErrInvalidID = errors.New("repository: identifier not supported by store")
