package document

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sidejit/jitd/pkg/blobstore"
	"github.com/sidejit/jitd/pkg/model"
	"github.com/sidejit/jitd/pkg/storage"
)

type sessionStore struct {
	client blobstore.Client
	sync.Mutex
}

func newSessionStore(client blobstore.Client) *sessionStore {
	return &sessionStore{client: client}
}

func (s *sessionStore) load() (map[string]model.Session, error) {
	data, err := s.client.Read(sessionsDocument)
	if err == blobstore.ErrNotExist {
		return make(map[string]model.Session), nil
	}
	if err != nil {
		return nil, err
	}

	models := make(map[string]model.Session)
	if err := json.Unmarshal(data, &models); err != nil {
		return nil, errors.Wrap(err, "failed to decode sessions document")
	}

	return models, nil
}

func (s *sessionStore) save(models map[string]model.Session) error {
	data, err := json.Marshal(models)
	if err != nil {
		return errors.Wrap(err, "failed to encode sessions document")
	}

	return s.client.Write(sessionsDocument, data)
}

func (s *sessionStore) Create(m *model.Session) error {
	s.Lock()
	defer s.Unlock()

	models, err := s.load()
	if err != nil {
		return err
	}

	m.ID = uuid.New().String()
	m.Status = model.StatusProcessing
	m.StartedAt = time.Now().Round(time.Second).UTC()

	models[m.ID] = *m

	return s.save(models)
}

func (s *sessionStore) FindByID(id string) (*model.Session, error) {
	s.Lock()
	defer s.Unlock()

	models, err := s.load()
	if err != nil {
		return nil, err
	}

	if m, ok := models[id]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *sessionStore) Complete(id, method string, result map[string]any) error {
	s.Lock()
	defer s.Unlock()

	models, err := s.load()
	if err != nil {
		return err
	}

	m, ok := models[id]
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
	models[id] = m

	return s.save(models)
}

func (s *sessionStore) Fail(id, detail string) error {
	s.Lock()
	defer s.Unlock()

	models, err := s.load()
	if err != nil {
		return err
	}

	m, ok := models[id]
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
	models[id] = m

	return s.save(models)
}

func (s *sessionStore) FetchAllByUDID(udid string) ([]model.Session, error) {
	s.Lock()
	defer s.Unlock()

	models, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make([]model.Session, 0)
	for _, m := range models {
		if m.UDID == udid {
			out = append(out, m)
		}
	}

	return out, nil
}

func (s *sessionStore) FetchAll() (map[string]model.Session, error) {
	s.Lock()
	defer s.Unlock()

	return s.load()
}

func (s *sessionStore) DeleteExpired(maxAge time.Duration) (int, error) {
	s.Lock()
	defer s.Unlock()

	models, err := s.load()
	if err != nil {
		return 0, err
	}

	deadline := time.Now().Add(-maxAge)
	count := 0
	for id, m := range models {
		if m.StartedAt.Before(deadline) {
			delete(models, id)
			count++
		}
	}

	if count == 0 {
		return 0, nil
	}

	return count, s.save(models)
}
