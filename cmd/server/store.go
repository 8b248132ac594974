package main

import (
	"context"
	"fmt"

	"github.com/atinyakov/FlashCards/internal/config"
	"github.com/atinyakov/FlashCards/internal/db"
	"github.com/atinyakov/FlashCards/internal/repository"
	"github.com/atinyakov/FlashCards/internal/service"
	"go.uber.org/zap"
)

// store is what every backend offers the rest of the program.
type store interface {
	service.DeckRepository
	db.Pinger
	Close() error
}

// openStore connects the backend selected in opts.
func openStore(ctx context.Context, opts *config.Options, log *zap.Logger) (store, error) {
	switch opts.Store.Backend {
	case config.BackendMemory:
		log.Warn("using in-memory store; data is lost on restart")
		return repository.NewMemoryDeckRepository(), nil

	case config.BackendPostgres:
		sqlDB, err := db.InitPostgres(opts.Store.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		return repository.NewPostgresDeckRepository(sqlDB), nil

	case config.BackendBadger:
		bdb, err := db.OpenBadger(opts.Store.BadgerPath, log)
		if err != nil {
			return nil, fmt.Errorf("open badger: %w", err)
		}
		return repository.NewBadgerDeckRepository(bdb), nil

	case config.BackendFirestore:
		client, err := db.OpenFirestore(ctx, db.FirebaseCredentials{
			ProjectID:   opts.Firebase.ProjectID,
			ClientEmail: opts.Firebase.ClientEmail,
			PrivateKey:  opts.Firebase.PrivateKey,
		})
		if err != nil {
			return nil, fmt.Errorf("open firestore: %w", err)
		}
		return repository.NewFirestoreDeckRepository(client), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", opts.Store.Backend)
}
