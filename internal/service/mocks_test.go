package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/repository"
)

// MockHorseRepository mocks the horse repository
type MockHorseRepository struct {
	mock.Mock
}

func (m *MockHorseRepository) Create(ctx context.Context, horse *models.Horse) error {
	return m.Called(ctx, horse).Error(0)
}

func (m *MockHorseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Horse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Horse), args.Error(1)
}

func (m *MockHorseRepository) GetByName(ctx context.Context, name string) (*models.Horse, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Horse), args.Error(1)
}

func (m *MockHorseRepository) List(ctx context.Context) ([]*models.Horse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Horse), args.Error(1)
}

func (m *MockHorseRepository) ListActive(ctx context.Context) ([]*models.Horse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Horse), args.Error(1)
}

func (m *MockHorseRepository) Update(ctx context.Context, horse *models.Horse) error {
	return m.Called(ctx, horse).Error(0)
}

func (m *MockHorseRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockRaceRepository mocks the race repository
type MockRaceRepository struct {
	mock.Mock
}

func (m *MockRaceRepository) Record(ctx context.Context, race *models.Race, results []models.FinisherResult) error {
	return m.Called(ctx, race, results).Error(0)
}

func (m *MockRaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Race, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Race), args.Error(1)
}

func (m *MockRaceRepository) GetResults(ctx context.Context, raceID uuid.UUID) ([]models.FinisherResult, error) {
	args := m.Called(ctx, raceID)
	return args.Get(0).([]models.FinisherResult), args.Error(1)
}

func (m *MockRaceRepository) Recent(ctx context.Context, limit int) ([]*models.Race, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.Race), args.Error(1)
}

func (m *MockRaceRepository) RecentPositions(ctx context.Context, horseID uuid.UUID, limit int) ([]int, error) {
	args := m.Called(ctx, horseID, limit)
	return args.Get(0).([]int), args.Error(1)
}

// MockBetRepository mocks the bet repository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	return m.Called(ctx, bet).Error(0)
}

func (m *MockBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.Bet, error) {
	args := m.Called(ctx, raceID)
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) Update(ctx context.Context, bet *models.Bet) error {
	return m.Called(ctx, bet).Error(0)
}

func (m *MockBetRepository) GetPendingBets(ctx context.Context) ([]*models.Bet, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) NetProfit(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockChampionshipRepository is a mock implementation of ChampionshipRepository
type MockChampionshipRepository struct {
	mock.Mock
}

func (m *MockChampionshipRepository) Record(ctx context.Context, result *models.ChampionshipResult) error {
	return m.Called(ctx, result).Error(0)
}

func (m *MockChampionshipRepository) PrizeTotal(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// mockStore wires mocks into a repository.Store
type mockStore struct {
	horses *MockHorseRepository
	races  *MockRaceRepository
	bets   *MockBetRepository
	series *MockChampionshipRepository
	txs    int
}

func newMockStore() *mockStore {
	return &mockStore{
		horses: &MockHorseRepository{},
		races:  &MockRaceRepository{},
		bets:   &MockBetRepository{},
		series: &MockChampionshipRepository{},
	}
}

func (s *mockStore) Horses() repository.HorseRepository { return s.horses }
func (s *mockStore) Injuries() repository.InjuryRepository { return nil }
func (s *mockStore) Races() repository.RaceRepository { return s.races }
func (s *mockStore) Bets() repository.BetRepository { return s.bets }
func (s *mockStore) Championships() repository.ChampionshipRepository { return s.series }
func (s *mockStore) Close() error { return nil }

func (s *mockStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txs++
	return fn(ctx)
}
