// Package state holds the shared, mutable per-client UI state: selected
// customer, customer list, the email buffer being streamed into, and the
// generation flag. Every mutation takes the session lock for just that
// mutation, so a background generation never blocks foreground events.
package state

import (
	"sync"
	"time"

	"github.com/dimitrije/salesdesk-api/internal/models"
)

const (
	DefaultEmailContent = "Click 'Generate Email' to generate a personalized sales email."
	DefaultTone         = "Formal"
	DefaultLength       = "1000"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	EventSnapshot       = "snapshot"
	EventEmailChunk     = "email_chunk"
	EventGenerationDone = "generation_done"
	EventCustomers      = "customers"
	EventToast          = "toast"
)

// Snapshot is a point-in-time copy of a session's observable state.
type Snapshot struct {
	SelectedCustomer *models.User  `json:"selected_customer,omitempty"`
	Customers        []models.User `json:"customers"`
	EmailContent     string        `json:"email_content"`
	Generating       bool          `json:"generating"`
	Tone             string        `json:"tone"`
	Length           string        `json:"length"`
}

// Session is the state container for one connected client. The generation
// epoch increases each time a generation starts; a background writer whose
// epoch is stale stops applying output.
type Session struct {
	ID string

	mu               sync.Mutex
	selectedCustomer *models.User
	customers        []models.User
	emailContent     string
	generating       bool
	tone             string
	length           string
	epoch            uint64
	subscribers      map[chan Event]struct{}
	lastActive       time.Time
}

func newSession(id string) *Session {
	return &Session{
		ID:           id,
		emailContent: DefaultEmailContent,
		tone:         DefaultTone,
		length:       DefaultLength,
		subscribers:  make(map[chan Event]struct{}),
		lastActive:   time.Now(),
	}
}

// notify must be called with the lock held. Slow subscribers are skipped
// rather than blocking the mutation.
func (s *Session) notify(event Event) {
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers a listener for state changes. The returned channel is
// buffered; the caller must Unsubscribe when done.
func (s *Session) Subscribe() chan Event {
	ch := make(chan Event, 256)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers[ch] = struct{}{}
	s.lastActive = time.Now()
	return ch
}

func (s *Session) Unsubscribe(ch chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[ch]; ok {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	customers := make([]models.User, len(s.customers))
	copy(customers, s.customers)
	return Snapshot{
		SelectedCustomer: s.selectedCustomer,
		Customers:        customers,
		EmailContent:     s.emailContent,
		Generating:       s.generating,
		Tone:             s.tone,
		Length:           s.length,
	}
}

func (s *Session) SelectCustomer(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedCustomer = user
	s.lastActive = time.Now()
	s.notify(Event{Type: EventSnapshot, Data: s.snapshotLocked()})
}

func (s *Session) SelectedCustomer() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedCustomer
}

func (s *Session) SetOptions(tone, length string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tone != "" {
		s.tone = tone
	}
	if length != "" {
		s.length = length
	}
	s.lastActive = time.Now()
}

func (s *Session) Options() (tone, length string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tone, s.length
}

func (s *Session) SetCustomers(users []models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = users
	s.notify(Event{Type: EventCustomers, Data: users})
}

func (s *Session) Toast(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify(Event{Type: EventToast, Data: map[string]string{"message": message}})
}

// BeginGeneration clears the buffer, raises the generating flag and bumps
// the epoch, superseding any generation still writing to this session.
func (s *Session) BeginGeneration() (epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.emailContent = ""
	s.generating = true
	s.lastActive = time.Now()
	s.notify(Event{Type: EventSnapshot, Data: s.snapshotLocked()})
	return s.epoch
}

// FailGeneration replaces the buffer with an inline error message and
// clears the flag. Used when preconditions fail before any upstream call.
func (s *Session) FailGeneration(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emailContent = message
	s.generating = false
	s.notify(Event{Type: EventSnapshot, Data: s.snapshotLocked()})
}

// AppendChunk appends a streamed fragment in arrival order. It reports
// false when the epoch is stale, i.e. a newer generation owns the buffer.
func (s *Session) AppendChunk(epoch uint64, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return false
	}
	s.emailContent += text
	s.notify(Event{Type: EventEmailChunk, Data: map[string]string{"text": text}})
	return true
}

// EndGeneration clears the generating flag, keeping whatever text has
// accumulated. A stale epoch leaves the newer generation's flag alone.
func (s *Session) EndGeneration(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return false
	}
	s.generating = false
	s.notify(Event{Type: EventGenerationDone, Data: map[string]string{"email_content": s.emailContent}})
	return true
}

func (s *Session) EmailContent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emailContent
}

func (s *Session) Generating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers) == 0 && s.lastActive.Before(cutoff)
}

// Store tracks one Session per connected client id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns the session for the client id, creating it on first use.
func (st *Store) Get(id string) *Session {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		return sess
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if sess, ok := st.sessions[id]; ok {
		return sess
	}
	sess = newSession(id)
	st.sessions[id] = sess
	return sess
}

// Lookup returns the session without creating one.
func (st *Store) Lookup(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

func (st *Store) Remove(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// ReloadCustomers pushes a fresh customer list into every live session.
func (st *Store) ReloadCustomers(users []models.User) {
	for _, sess := range st.all() {
		sess.SetCustomers(users)
	}
}

// Toast broadcasts a user-visible notification to every live session.
func (st *Store) Toast(message string) {
	for _, sess := range st.all() {
		sess.Toast(message)
	}
}

func (st *Store) all() []*Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sessions := make([]*Session, 0, len(st.sessions))
	for _, sess := range st.sessions {
		sessions = append(sessions, sess)
	}
	return sessions
}

// CleanupIdle drops sessions with no subscribers that have been inactive
// longer than maxIdle. Returns the number removed.
func (st *Store) CleanupIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, sess := range st.sessions {
		if sess.idleSince(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
