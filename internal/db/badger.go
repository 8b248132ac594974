package db

import (
	"fmt"
	"strings"

	badgerdb "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// badgerLogger routes Badger's internal logging through zap.
type badgerLogger struct {
	s *zap.SugaredLogger
}

func (l badgerLogger) Errorf(f string, v ...interface{})   { l.s.Errorf(trimNL(f), v...) }
func (l badgerLogger) Warningf(f string, v ...interface{}) { l.s.Warnf(trimNL(f), v...) }
func (l badgerLogger) Infof(f string, v ...interface{})    { l.s.Infof(trimNL(f), v...) }
func (l badgerLogger) Debugf(f string, v ...interface{})   { l.s.Debugf(trimNL(f), v...) }

func trimNL(f string) string { return strings.TrimRight(f, "\n") }

// OpenBadger opens a Badger database at path. An empty path opens an
// in-memory database, which is lost on exit.
func OpenBadger(path string, log *zap.Logger) (*badgerdb.DB, error) {
	opts := badgerdb.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	if log != nil {
		opts = opts.WithLogger(badgerLogger{s: log.Named("badger").Sugar()})
	} else {
		opts = opts.WithLogger(nil)
	}

	bdb, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return bdb, nil
}
