package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray1729/gpx-profile/pkg/geo"
)

func TestRefString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		ref  Ref
		want string
	}{
		{Ref{Easting: 545200.4, Northing: 258300.9}, "TL 45200 58300"},
		{Ref{Easting: 0, Northing: 0}, "SV 00000 00000"},
		{Ref{Easting: 325000, Northing: 673000}, "NT 25000 73000"},
		{Ref{Easting: 651409, Northing: 313177}, "TG 51409 13177"},
		{Ref{Easting: -10, Northing: 5}, "-10, 5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.ref.String())
	}
}

func TestToNationalGrid(t *testing.T) {
	t.Parallel()
	c, err := NewConverter()
	require.NoError(t, err)
	// Great St Mary's, Cambridge
	ref, err := c.ToNationalGrid(geo.Point{Lat: 52.2053, Lon: 0.1180, Ele: 20})
	require.NoError(t, err)
	assert.InDelta(t, 544800, ref.Easting, 1000)
	assert.InDelta(t, 258400, ref.Northing, 1000)
	assert.Equal(t, "TL", ref.String()[:2])
}
