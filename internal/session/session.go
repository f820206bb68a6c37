package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/go-pkgz/lgr"
	"github.com/google/uuid"

	"github.com/seojun-park/naverboard/internal/config"
)

// CookieName carries the session ID between requests.
const CookieName = "nb_sid"

const contextKey = "naverboard-session"

// PagingState tracks the two pagination cursors of one search tab: Start
// for plain mode (raw API offset) and Page for exact-match mode.
type PagingState struct {
	Start int
	Page  int
}

// State is the explicit per-session dashboard state. Reset rule: changing
// the query resets all pagination cursors to their initial values.
type State struct {
	mu sync.Mutex

	LastQuery    string
	Blog         PagingState
	Cafe         PagingState
	DidFirstLoad bool

	// Dashboard-supplied credential override for this session only; never
	// persisted anywhere.
	ClientID     string
	ClientSecret string

	LastSeen time.Time
}

func newState() *State {
	return &State{
		Blog:     PagingState{Start: 1, Page: 1},
		Cafe:     PagingState{Start: 1, Page: 1},
		LastSeen: time.Now(),
	}
}

// SyncQuery applies the reset rule: if q differs from the last seen query,
// all pagination cursors return to 1. Reports whether a reset happened.
func (s *State) SyncQuery(q string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q == s.LastQuery {
		return false
	}
	s.LastQuery = q
	s.Blog = PagingState{Start: 1, Page: 1}
	s.Cafe = PagingState{Start: 1, Page: 1}
	return true
}

// Update runs fn with the state locked.
func (s *State) Update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

// Credentials returns the session override when one was supplied, otherwise
// resolves the server configuration.
func (s *State) Credentials(cfg *config.Config) (config.Credentials, error) {
	s.mu.Lock()
	id, secret := s.ClientID, s.ClientSecret
	s.mu.Unlock()

	if id != "" && secret != "" {
		return config.Credentials{ClientID: id, ClientSecret: secret}, nil
	}
	return cfg.Credentials()
}

// SetCredentials stores a credential override for this session.
func (s *State) SetCredentials(id, secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ClientID = id
	s.ClientSecret = secret
}

// Store keeps all live sessions, keyed by cookie ID.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*State
	idleTTL  time.Duration
}

// NewStore creates a session store evicting sessions idle longer than
// idleTTL.
func NewStore(idleTTL time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*State),
		idleTTL:  idleTTL,
	}
}

// Get returns the session for id, creating it on first sight, and touches
// its idle timer.
func (s *Store) Get(id string) *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		st = newState()
		s.sessions[id] = st
	}
	st.mu.Lock()
	st.LastSeen = time.Now()
	st.mu.Unlock()
	return st
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts idle sessions and returns how many were removed. It runs on
// a schedule from the server wiring.
func (s *Store) Sweep() int {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, st := range s.sessions {
		st.mu.Lock()
		idle := st.LastSeen.Before(cutoff)
		st.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Middleware resolves the session from the nb_sid cookie, minting a new ID
// on first contact, and exposes the state on the gin context.
func (s *Store) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(CookieName)
		if err != nil || id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieName, id, int((24 * time.Hour).Seconds()), "/", "", false, true)
			log.Printf("[DEBUG] new session %s", id)
		}
		c.Set(contextKey, s.Get(id))
		c.Next()
	}
}

// FromContext returns the session state bound by Middleware.
func FromContext(c *gin.Context) *State {
	if v, ok := c.Get(contextKey); ok {
		if st, ok := v.(*State); ok {
			return st
		}
	}
	// Routes outside the session middleware still get usable state.
	return newState()
}
