package document

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sidejit/jitd/pkg/blobstore"
	"github.com/sidejit/jitd/pkg/model"
	"github.com/sidejit/jitd/pkg/storage"
)

type deviceStore struct {
	client blobstore.Client
	sync.Mutex
}

func newDeviceStore(client blobstore.Client) *deviceStore {
	return &deviceStore{client: client}
}

func (s *deviceStore) load() (map[string]model.Device, error) {
	data, err := s.client.Read(devicesDocument)
	if err == blobstore.ErrNotExist {
		return make(map[string]model.Device), nil
	}
	if err != nil {
		return nil, err
	}

	models := make(map[string]model.Device)
	if err := json.Unmarshal(data, &models); err != nil {
		return nil, errors.Wrap(err, "failed to decode devices document")
	}

	return models, nil
}

func (s *deviceStore) save(models map[string]model.Device) error {
	data, err := json.Marshal(models)
	if err != nil {
		return errors.Wrap(err, "failed to encode devices document")
	}

	return s.client.Write(devicesDocument, data)
}

func (s *deviceStore) Save(m *model.Device) error {
	s.Lock()
	defer s.Unlock()

	models, err := s.load()
	if err != nil {
		return err
	}

	now := time.Now().Round(time.Second).UTC()
	if existing, ok := models[m.UDID]; ok {
		m.RegisteredAt = existing.RegisteredAt
	} else {
		m.RegisteredAt = now
	}
	m.LastActiveAt = now

	models[m.UDID] = *m

	return s.save(models)
}

func (s *deviceStore) FindByUDID(udid string) (*model.Device, error) {
	s.Lock()
	defer s.Unlock()

	models, err := s.load()
	if err != nil {
		return nil, err
	}

	if m, ok := models[udid]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *deviceStore) Touch(udid string) error {
	s.Lock()
	defer s.Unlock()

	models, err := s.load()
	if err != nil {
		return err
	}

	m, ok := models[udid]
	if !ok {
		return storage.ErrNotFound
	}

	m.LastActiveAt = time.Now().Round(time.Second).UTC()
	models[udid] = m

	return s.save(models)
}

func (s *deviceStore) FetchAll() (map[string]model.Device, error) {
	s.Lock()
	defer s.Unlock()

	return s.load()
}

func (s *deviceStore) Delete(udid string) error {
	s.Lock()
	defer s.Unlock()

	models, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := models[udid]; !ok {
		return storage.ErrNotFound
	}

	delete(models, udid)

	return s.save(models)
}
