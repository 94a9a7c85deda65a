package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sidejit/jitd/pkg/model"
	"github.com/sidejit/jitd/pkg/storage"
)

type sessionStore struct {
	store map[string]model.Session
	sync.RWMutex
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		store: make(map[string]model.Session),
	}
}

func (s *sessionStore) Create(m *model.Session) error {
	s.Lock()
	defer s.Unlock()

	m.ID = uuid.New().String()
	m.Status = model.StatusProcessing
	m.StartedAt = time.Now().Round(time.Second).UTC()

	s.store[m.ID] = *m

	return nil
}

func (s *sessionStore) FindByID(id string) (*model.Session, error) {
	s.RLock()
	defer s.RUnlock()
	if m, ok := s.store[id]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *sessionStore) Complete(id, method string, result map[string]any) error {
	s.Lock()
	defer s.Unlock()

	m, ok := s.store[id]
	if !ok {
		return storage.ErrNotFound
	}
	if m.Status != model.StatusProcessing {
		return storage.ErrInvalidTransition
	}

	now := time.Now().Round(time.Second).UTC()
	m.Status = model.StatusCompleted
	m.Method = method
	m.Result = result
	m.CompletedAt = &now
	s.store[id] = m

	return nil
}

func (s *sessionStore) Fail(id, detail string) error {
	s.Lock()
	defer s.Unlock()

	m, ok := s.store[id]
	if !ok {
		return storage.ErrNotFound
	}
	if m.Status != model.StatusProcessing {
		return storage.ErrInvalidTransition
	}

	now := time.Now().Round(time.Second).UTC()
	m.Status = model.StatusFailed
	m.Error = detail
	m.CompletedAt = &now
	s.store[id] = m

	return nil
}

func (s *sessionStore) FetchAllByUDID(udid string) ([]model.Session, error) {
	s.RLock()
	defer s.RUnlock()

	models := make([]model.Session, 0)
	for _, m := range s.store {
		if m.UDID == udid {
			models = append(models, m)
		}
	}

	return models, nil
}

func (s *sessionStore) FetchAll() (models map[string]model.Session, err error) {
	s.RLock()
	defer s.RUnlock()
	models = make(map[string]model.Session, len(s.store))

	for id, m := range s.store {
		models[id] = m
	}

	return models, nil
}

func (s *sessionStore) DeleteExpired(maxAge time.Duration) (int, error) {
	s.Lock()
	defer s.Unlock()

	deadline := time.Now().Add(-maxAge)
	count := 0
	for id, m := range s.store {
		if m.StartedAt.Before(deadline) {
			delete(s.store, id)
			count++
		}
	}

	return count, nil
}
