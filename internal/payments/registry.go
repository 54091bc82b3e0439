package payments

import (
	"sync"
)

// Registry keeps the poll session of every client that has one.
type Registry struct {
	poller   *Poller
	lock     sync.Mutex
	sessions map[string]*PollSession
}

func NewRegistry(poller *Poller) *Registry {
	return &Registry{poller: poller, sessions: map[string]*PollSession{}}
}

func (r *Registry) Poller() *Poller {
	return r.poller
}

// Open returns the session of the client. Completed or closed sessions are replaced by a
// new idle one, a failed session is kept until it is reset. A replaced session that still
// waits to report its completion reports it before it is closed.
func (r *Registry) Open(clientID string, onCompleted CompletionFunc) (*PollSession, error) {
	r.lock.Lock()
	existing, found := r.sessions[clientID]
	if found && !existing.Closed() && existing.Phase() != PhaseCompleted {
		r.lock.Unlock()
		return existing, nil
	}
	session, err := r.poller.NewSession(clientID, onCompleted)
	if err != nil {
		r.lock.Unlock()
		return nil, err
	}
	r.sessions[clientID] = session
	r.lock.Unlock()
	if found {
		existing.finish()
	}
	return session, nil
}

func (r *Registry) Get(clientID string) (*PollSession, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	session, found := r.sessions[clientID]
	return session, found
}

// Remove closes and forgets the session of the client.
func (r *Registry) Remove(clientID string) bool {
	r.lock.Lock()
	session, found := r.sessions[clientID]
	delete(r.sessions, clientID)
	r.lock.Unlock()
	if found {
		session.Close()
	}
	return found
}

// Release forgets the session if it is still the one registered for its client.
func (r *Registry) Release(session *PollSession) bool {
	r.lock.Lock()
	current, found := r.sessions[session.ClientID]
	released := found && current == session
	if released {
		delete(r.sessions, session.ClientID)
	}
	r.lock.Unlock()
	if released {
		session.Close()
	}
	return released
}

// CloseAll tears down every session, it is used on shutdown and on logout.
func (r *Registry) CloseAll() {
	r.lock.Lock()
	sessions := r.sessions
	r.sessions = map[string]*PollSession{}
	r.lock.Unlock()
	for _, session := range sessions {
		session.Close()
	}
}

func (r *Registry) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.sessions)
}
