package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/repositories"
)

// Mocks

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateChecked(ctx context.Context, booking *entities.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, booking *entities.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) ListOccupiedByShop(ctx context.Context, shopID string, from, to time.Time) ([]*entities.Booking, error) {
	args := m.Called(ctx, shopID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string, filter repositories.BookingPageFilter) ([]*entities.Booking, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Booking), args.Error(1)
}

type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) GetByID(ctx context.Context, id string) (*entities.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Shop), args.Error(1)
}

type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Service), args.Error(1)
}

type MockBusinessHourRepository struct {
	mock.Mock
}

func (m *MockBusinessHourRepository) GetByShopAndWeekday(ctx context.Context, shopID string, weekday time.Weekday) (*entities.BusinessHourRule, error) {
	args := m.Called(ctx, shopID, weekday)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BusinessHourRule), args.Error(1)
}

func (m *MockBusinessHourRepository) ListByShop(ctx context.Context, shopID string) ([]*entities.BusinessHourRule, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BusinessHourRule), args.Error(1)
}

func (m *MockBusinessHourRepository) Upsert(ctx context.Context, rule *entities.BusinessHourRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entities.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *entities.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) ListByShop(ctx context.Context, shopID string, filter repositories.ReviewPageFilter) ([]*entities.Review, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Review), args.Error(1)
}

func (m *MockReviewRepository) CountLikes(ctx context.Context, reviewIDs []string) (map[string]int, error) {
	args := m.Called(ctx, reviewIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockReviewRepository) ListUserLikes(ctx context.Context, userID string, reviewIDs []string) (map[string]struct{}, error) {
	args := m.Called(ctx, userID, reviewIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockReviewRepository) AddLike(ctx context.Context, reviewID, userID string) error {
	args := m.Called(ctx, reviewID, userID)
	return args.Error(0)
}

func (m *MockReviewRepository) RemoveLike(ctx context.Context, reviewID, userID string) error {
	args := m.Called(ctx, reviewID, userID)
	return args.Error(0)
}

func (m *MockReviewRepository) StatsByShop(ctx context.Context, shopID string) (*entities.ReviewStats, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ReviewStats), args.Error(1)
}
