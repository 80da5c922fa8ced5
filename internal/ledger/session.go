package ledger

import (
	"errors"

	"github.com/mind-engage/mindengage-grades/internal/course"
)

var (
	ErrNotFound      = errors.New("course not found")
	ErrSessionClosed = errors.New("edit session already closed")
)

// Session is a scratch edit of a ledger. Changes go to a private clone and
// reach the base ledger only on Commit.
type Session struct {
	base   *Ledger
	work   *Ledger
	closed bool
}

func (l *Ledger) BeginEdit() *Session {
	return &Session{base: l, work: l.Clone()}
}

// Put adds r, first removing any record that already uses r's id.
func (s *Session) Put(r course.Record) error {
	if s.closed {
		return ErrSessionClosed
	}
	Upsert(s.work, r)
	return nil
}

func (s *Session) Remove(id string) error {
	if s.closed {
		return ErrSessionClosed
	}
	if _, ok := s.work.Remove(id); !ok {
		return ErrNotFound
	}
	return nil
}

// Working exposes the clone being edited. Callers must not keep it past
// Commit or Cancel.
func (s *Session) Working() *Ledger { return s.work }

func (s *Session) Closed() bool { return s.closed }

// Commit hands the edited records to the base ledger.
func (s *Session) Commit() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.base.Replace(s.work.Records())
	if q, ok := s.work.TargetQuota(); ok {
		s.base.SetTargetQuota(q)
	}
	s.closed = true
	return nil
}

// Cancel discards the edit; the base ledger is untouched.
func (s *Session) Cancel() {
	s.closed = true
	s.work = nil
}

// Upsert replaces the record carrying r's id, or adds r if there is none.
func Upsert(l *Ledger, r course.Record) {
	l.Remove(r.ID)
	l.Add(r)
}
