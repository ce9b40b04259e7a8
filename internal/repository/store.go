package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// QueryObserver receives timings for every query a repository issues.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

type store struct {
	db       *sqlx.DB
	observer QueryObserver
}

func (s store) observe(label string, start time.Time) {
	if s.observer != nil {
		s.observer.ObserveDBQuery(label, time.Since(start))
	}
}

type documentRow struct {
	ID  string `db:"id"`
	Doc []byte `db:"doc"`
}
