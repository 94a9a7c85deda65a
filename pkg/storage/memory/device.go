package memory

import (
	"sync"
	"time"

	"github.com/sidejit/jitd/pkg/model"
	"github.com/sidejit/jitd/pkg/storage"
)

type deviceStore struct {
	store map[string]model.Device
	sync.RWMutex
}

func newDeviceStore() *deviceStore {
	return &deviceStore{
		store: make(map[string]model.Device),
	}
}

func (s *deviceStore) Save(m *model.Device) error {
	s.Lock()
	defer s.Unlock()

	now := time.Now().Round(time.Second).UTC()
	if existing, ok := s.store[m.UDID]; ok {
		m.RegisteredAt = existing.RegisteredAt
	} else {
		m.RegisteredAt = now
	}
	m.LastActiveAt = now

	s.store[m.UDID] = *m

	return nil
}

func (s *deviceStore) FindByUDID(udid string) (*model.Device, error) {
	s.RLock()
	defer s.RUnlock()
	if m, ok := s.store[udid]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *deviceStore) Touch(udid string) error {
	s.Lock()
	defer s.Unlock()

	m, ok := s.store[udid]
	if !ok {
		return storage.ErrNotFound
	}

	m.LastActiveAt = time.Now().Round(time.Second).UTC()
	s.store[udid] = m

	return nil
}

func (s *deviceStore) FetchAll() (models map[string]model.Device, err error) {
	s.RLock()
	defer s.RUnlock()
	models = make(map[string]model.Device, len(s.store))

	for udid, m := range s.store {
		models[udid] = m
	}

	return models, nil
}

func (s *deviceStore) Delete(udid string) error {
	s.Lock()
	defer s.Unlock()

	_, ok := s.store[udid]
	if !ok {
		return storage.ErrNotFound
	}

	delete(s.store, udid)

	return nil
}
