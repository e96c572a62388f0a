package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

func TestDistance_SamePointIsZero(t *testing.T) {
	p := Point{Lat: 55.7558, Lng: 37.6173}
	d, err := Distance(p, p)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestDistance_Symmetry(t *testing.T) {
	// Symmetry must hold bit-for-bit, not just approximately.
	pairs := []struct {
		a, b Point
	}{
		{Point{55.7558, 37.6173}, Point{59.9343, 30.3351}},
		{Point{-33.8688, 151.2093}, Point{40.7128, -74.0060}},
		{Point{0.001, -0.001}, Point{-0.001, 0.001}},
		{Point{89.9, 179.9}, Point{-89.9, -179.9}},
	}

	for _, pair := range pairs {
		ab, err := Distance(pair.a, pair.b)
		require.NoError(t, err)
		ba, err := Distance(pair.b, pair.a)
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
	}
}

func TestDistance_OneDegreeLatitude(t *testing.T) {
	// Один градус широты на сфере радиуса 6371 км - примерно 111.195 км.
	d, err := Distance(Point{0, 0}, Point{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 111194.9, d, 1.0)
}

func TestDistance_MoscowToSaintPetersburg(t *testing.T) {
	d, err := Distance(Point{55.7558, 37.6173}, Point{59.9343, 30.3351})
	require.NoError(t, err)
	// Около 634 км по прямой.
	assert.InDelta(t, 634000, d, 2000)
}

func TestDistance_CityBlockScale(t *testing.T) {
	// Масштаб игры: сотня метров в центре города.
	d, err := Distance(Point{55.7558, 37.6173}, Point{55.7567, 37.6173})
	require.NoError(t, err)
	assert.InDelta(t, 100, d, 1.0)
}

func TestDistance_InvalidCoordinates(t *testing.T) {
	valid := Point{10, 10}

	_, err := Distance(Point{91, 0}, valid)
	assert.ErrorIs(t, err, shared.ErrLatitudeOutOfRange)

	_, err = Distance(valid, Point{0, 181})
	assert.ErrorIs(t, err, shared.ErrLongitudeOutOfRange)

	_, err = Distance(Point{-90.0001, 0}, valid)
	assert.ErrorIs(t, err, shared.ErrInvalidCoordinate)
}

func TestNewPoint(t *testing.T) {
	p, err := NewPoint(-90, 180)
	require.NoError(t, err)
	assert.Equal(t, -90.0, p.Lat)

	_, err = NewPoint(0, -180.5)
	assert.ErrorIs(t, err, shared.ErrInvalidCoordinate)
}

func TestDistance_AntipodalDoesNotOverflow(t *testing.T) {
	// h в формуле может чуть превысить 1 из-за плавающей точки;
	// на антиподах это не должно дать NaN.
	d, err := Distance(Point{0, 0}, Point{0, 180})
	require.NoError(t, err)
	assert.InDelta(t, EarthRadiusMeters*3.14159265, d, 1000)
}
