package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/arez-sajeel/Project-Green/internal/models"
	"github.com/arez-sajeel/Project-Green/internal/repository"
)

// In-memory fakes for the storage contracts. Kept deliberately dumb; any
// cleverness belongs in the services under test.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  []*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now().UTC()
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, userID int64, role string, portfolioID *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ID == userID {
			user.Role = role
			if portfolioID != nil {
				user.PortfolioID = portfolioID
			}
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (f *fakeUserRepo) SetPrimaryProperty(_ context.Context, userID, propertyID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ID == userID {
			id := propertyID
			user.PropertyID = &id
			return nil
		}
	}
	return repository.ErrUserNotFound
}

type fakePortfolioRepo struct {
	mu         sync.Mutex
	nextID     int64
	portfolios []*models.Portfolio
}

func newFakePortfolioRepo() *fakePortfolioRepo {
	return &fakePortfolioRepo{}
}

func (f *fakePortfolioRepo) Create(_ context.Context, portfolio *models.Portfolio) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	portfolio.ID = f.nextID
	portfolio.CreatedAt = time.Now().UTC()
	f.portfolios = append(f.portfolios, portfolio)
	return nil
}

type fakePropertyRepo struct {
	mu         sync.Mutex
	nextID     int64
	properties []*models.Property
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{}
}

func (f *fakePropertyRepo) Create(_ context.Context, property *models.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	property.ID = f.nextID
	property.CreatedAt = time.Now().UTC()
	property.UpdatedAt = property.CreatedAt
	f.properties = append(f.properties, property)
	return nil
}

func (f *fakePropertyRepo) GetByID(_ context.Context, id int64) (*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, property := range f.properties {
		if property.ID == id {
			return property, nil
		}
	}
	return nil, repository.ErrPropertyNotFound
}

func (f *fakePropertyRepo) GetByMPAN(_ context.Context, mpanID string) (*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, property := range f.properties {
		if property.MPANID == mpanID {
			return property, nil
		}
	}
	return nil, repository.ErrPropertyNotFound
}

func (f *fakePropertyRepo) ListByOwner(_ context.Context, ownerUserID int64) ([]models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Property
	for _, property := range f.properties {
		if property.OwnerUserID != nil && *property.OwnerUserID == ownerUserID {
			out = append(out, *property)
		}
	}
	return out, nil
}

func (f *fakePropertyRepo) ListByPortfolio(_ context.Context, portfolioID int64) ([]models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Property
	for _, property := range f.properties {
		if property.PortfolioID != nil && *property.PortfolioID == portfolioID {
			out = append(out, *property)
		}
	}
	return out, nil
}

func (f *fakePropertyRepo) Update(_ context.Context, property *models.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.properties {
		if existing.ID == property.ID {
			existing.Address = property.Address
			existing.Location = property.Location
			existing.SqFootage = property.SqFootage
			existing.UpdatedAt = time.Now().UTC()
			property.UpdatedAt = existing.UpdatedAt
			return nil
		}
	}
	return repository.ErrPropertyNotFound
}

func (f *fakePropertyRepo) Patch(_ context.Context, id int64, update models.PropertyUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.properties {
		if existing.ID == id {
			if update.Address != nil {
				existing.Address = *update.Address
			}
			if update.Location != nil {
				existing.Location = *update.Location
			}
			if update.SqFootage != nil {
				existing.SqFootage = *update.SqFootage
			}
			existing.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return repository.ErrPropertyNotFound
}

func (f *fakePropertyRepo) AssignTariff(_ context.Context, id, tariffID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.properties {
		if existing.ID == id {
			t := tariffID
			existing.TariffID = &t
			return nil
		}
	}
	return repository.ErrPropertyNotFound
}

type fakeDeviceRepo struct {
	mu      sync.Mutex
	nextID  int64
	devices []*models.Device
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{}
}

func (f *fakeDeviceRepo) Create(_ context.Context, device *models.Device) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	device.ID = f.nextID
	device.CreatedAt = time.Now().UTC()
	f.devices = append(f.devices, device)
	return nil
}

func (f *fakeDeviceRepo) GetByID(_ context.Context, id int64) (*models.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, device := range f.devices {
		if device.ID == id {
			return device, nil
		}
	}
	return nil, repository.ErrDeviceNotFound
}

func (f *fakeDeviceRepo) ListByProperty(_ context.Context, propertyID int64) ([]models.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Device
	for _, device := range f.devices {
		if device.PropertyID == propertyID {
			out = append(out, *device)
		}
	}
	return out, nil
}

type fakeTariffRepo struct {
	mu      sync.Mutex
	nextID  int64
	tariffs []*models.Tariff
}

func newFakeTariffRepo() *fakeTariffRepo {
	return &fakeTariffRepo{}
}

func (f *fakeTariffRepo) add(tariff models.Tariff) *models.Tariff {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	tariff.ID = f.nextID
	stored := tariff
	f.tariffs = append(f.tariffs, &stored)
	return &stored
}

func (f *fakeTariffRepo) GetByID(_ context.Context, id int64) (*models.Tariff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tariff := range f.tariffs {
		if tariff.ID == id {
			return tariff, nil
		}
	}
	return nil, repository.ErrTariffNotFound
}

func (f *fakeTariffRepo) List(_ context.Context) ([]models.Tariff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Tariff, 0, len(f.tariffs))
	for _, tariff := range f.tariffs {
		out = append(out, *tariff)
	}
	return out, nil
}

type fakeUsageRepo struct {
	mu   sync.Mutex
	logs []models.UsageLog
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{}
}

func (f *fakeUsageRepo) Insert(_ context.Context, log *models.UsageLog) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.logs {
		if existing.MPANID == log.MPANID && existing.Timestamp.Equal(log.Timestamp) {
			return false, nil
		}
	}
	log.ID = int64(len(f.logs) + 1)
	log.CreatedAt = time.Now().UTC()
	f.logs = append(f.logs, *log)
	return true, nil
}

func (f *fakeUsageRepo) ListByMPAN(_ context.Context, mpanID string, from, to time.Time, limit int) ([]models.UsageLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.UsageLog
	for _, log := range f.logs {
		if log.MPANID == mpanID && !log.Timestamp.Before(from) && log.Timestamp.Before(to) {
			out = append(out, log)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeUsageRepo) Totals(_ context.Context, mpanID string, from, to time.Time) (float64, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kwh, cost float64
	for _, log := range f.logs {
		if log.MPANID == mpanID && !log.Timestamp.Before(from) && log.Timestamp.Before(to) {
			kwh += log.KWhConsumption
			cost += log.KWhCost
		}
	}
	return kwh, cost, nil
}

type fakeScenarioRepo struct {
	mu   sync.Mutex
	runs []models.ScenarioRun
}

func newFakeScenarioRepo() *fakeScenarioRepo {
	return &fakeScenarioRepo{}
}

func (f *fakeScenarioRepo) Create(_ context.Context, run *models.ScenarioRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run.CreatedAt = time.Now().UTC()
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeScenarioRepo) ListByUser(_ context.Context, userID int64, limit int) ([]models.ScenarioRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ScenarioRun
	for i := len(f.runs) - 1; i >= 0; i-- {
		if f.runs[i].UserID == userID {
			out = append(out, f.runs[i])
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type publishedEvent struct {
	mpanID  string
	payload []byte
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakePublisher) Publish(mpanID string, payload []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{mpanID: mpanID, payload: payload})
}

func (f *fakePublisher) published() []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]publishedEvent, len(f.events))
	copy(out, f.events)
	return out
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("hash mismatch")
	}
	return nil
}
