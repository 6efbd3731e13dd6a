package memory

import (
	"sync"
	"time"

	"course-assistant-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps conversation sessions in memory. Sessions expire
// after an hour of inactivity; expired entries are purged every 10 minutes.
type SessionRepository struct {
	cache *cache.Cache
	locks sync.Map // session id -> *sync.Mutex
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

// Delete drops the session and its mutex. Callers must hold the session's
// lock; a goroutine already blocked on the old mutex may interleave with one
// acquiring a fresh mutex afterwards, which both treat the session as new.
func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
	r.locks.Delete(sessionID)
}

// Lock serializes work on one session. Different sessions use different
// mutexes and never block each other. The returned function releases the lock.
func (r *SessionRepository) Lock(sessionID string) func() {
	mu, _ := r.locks.LoadOrStore(sessionID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
