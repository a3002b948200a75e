package adapters

import (
	"testing"

	"drone-pickup/internal/features/catalog/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticCatalog_Locations(t *testing.T) {
	c := NewStaticCatalog()

	locs := c.Locations()
	require.Len(t, locs, 2)
	assert.Equal(t, "vp-building-a", locs[0].ID)

	locs[0].ArrivePoints[0].ID = "mutated"
	again, err := c.Location("vp-building-a")
	require.NoError(t, err)
	assert.Equal(t, "AP-101", again.ArrivePoints[0].ID)
}

func TestStaticCatalog_Location(t *testing.T) {
	c := NewStaticCatalog()

	loc, err := c.Location("vp-building-b")
	require.NoError(t, err)
	assert.Len(t, loc.ArrivePoints, 2)

	_, err = c.Location("nowhere")
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}

func TestStaticCatalog_ArrivePoint(t *testing.T) {
	c := NewStaticCatalog()

	tests := []struct {
		name        string
		locationID  string
		pointID     string
		expectedErr error
	}{
		{name: "Owned", locationID: "vp-building-a", pointID: "AP-201"},
		{name: "OtherLocation", locationID: "vp-building-a", pointID: "AP-B1", expectedErr: domain.ErrArrivePointNotFound},
		{name: "UnknownLocation", locationID: "nowhere", pointID: "AP-201", expectedErr: domain.ErrLocationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ap, err := c.ArrivePoint(tt.locationID, tt.pointID)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pointID, ap.ID)
		})
	}
}

func TestStaticCatalog_Merchant(t *testing.T) {
	c := NewStaticCatalog()

	m, err := c.Merchant("merchant-1")
	require.NoError(t, err)
	assert.True(t, m.Open)

	closed, err := c.Merchant("merchant-3")
	require.NoError(t, err)
	assert.False(t, closed.Open)

	_, err = c.Merchant("merchant-99")
	assert.ErrorIs(t, err, domain.ErrMerchantNotFound)

	assert.Len(t, c.Merchants(), 4)
}
