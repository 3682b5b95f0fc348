package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
	apperrors "github.com/willianOliveira-dev/barber-app-sub000/pkg/errors"
)

func TestBusinessHourRule_Validate(t *testing.T) {
	t.Run("valid open day", func(t *testing.T) {
		rule := &entities.BusinessHourRule{IsOpen: true, OpensAt: "09:00", ClosesAt: "18:00"}
		assert.NoError(t, rule.Validate())
	})

	t.Run("closed day needs no window", func(t *testing.T) {
		rule := &entities.BusinessHourRule{IsOpen: false}
		assert.NoError(t, rule.Validate())
	})

	t.Run("closing equal to opening is rejected", func(t *testing.T) {
		rule := &entities.BusinessHourRule{IsOpen: true, OpensAt: "09:00", ClosesAt: "09:00"}
		err := rule.Validate()
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidHours))
	})

	t.Run("closing before opening is rejected", func(t *testing.T) {
		rule := &entities.BusinessHourRule{IsOpen: true, OpensAt: "18:00", ClosesAt: "09:00"}
		err := rule.Validate()
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidHours))
	})

	t.Run("garbage time is rejected", func(t *testing.T) {
		rule := &entities.BusinessHourRule{IsOpen: true, OpensAt: "whenever", ClosesAt: "18:00"}
		err := rule.Validate()
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidHours))
	})
}

func TestBusinessHourRule_OpeningWindow(t *testing.T) {
	rule := &entities.BusinessHourRule{IsOpen: true, OpensAt: "09:30", ClosesAt: "17:00"}
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	open, close, err := rule.OpeningWindow(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC), open)
	assert.Equal(t, time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC), close)
}
