package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cotador/internal/models"
)

type noopRefresher struct{}

func (noopRefresher) RefreshPrices(ctx context.Context) (models.PriceDB, error) {
	return models.PriceDB{}, nil
}

func TestNewEmptySpecDisablesScheduler(t *testing.T) {
	s, err := New("", noopRefresher{})
	require.NoError(t, err)
	assert.Nil(t, s)

	// Nil scheduler is inert.
	s.Start()
	s.Stop()
}

func TestNewBadSpecIsError(t *testing.T) {
	_, err := New("every now and then", noopRefresher{})
	assert.Error(t, err)
}

func TestNewValidSpec(t *testing.T) {
	s, err := New("@hourly", noopRefresher{})
	require.NoError(t, err)
	require.NotNil(t, s)

	s.Start()
	s.Stop()
}
