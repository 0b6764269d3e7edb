// Package memory implements repository.Repository with in-process maps. It
// backs the development mode and the service and handler tests.
package memory

import (
	"sync"
	"time"

	"github.com/emzola/bookreviews/data"
	"github.com/emzola/bookreviews/repository"
)

var _ repository.Repository = &Store{}

// Store keeps every record in memory. The mutex only protects the maps;
// callers see the same semantics as the PostgreSQL repository.
type Store struct {
	mu           sync.RWMutex
	nextUserID   int64
	nextBookID   int64
	nextReviewID int64
	users        map[int64]*data.User
	tokens       map[string]*data.Token
	books        map[int64]*data.Book
	reviews      map[int64]*data.Review
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		nextUserID:   1,
		nextBookID:   1,
		nextReviewID: 1,
		users:        make(map[int64]*data.User),
		tokens:       make(map[string]*data.Token),
		books:        make(map[int64]*data.Book),
		reviews:      make(map[int64]*data.Review),
	}
}

// now truncates to microseconds, the precision PostgreSQL keeps.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
