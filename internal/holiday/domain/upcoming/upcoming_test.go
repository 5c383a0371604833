package upcoming

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feriadobot/internal/holiday/models"
)

func record(t *testing.T, date, name string) models.Record {
	t.Helper()
	d, err := models.ParseDate(date)
	require.NoError(t, err)
	return models.Record{Date: d, Name: name}
}

func TestSelect(t *testing.T) {
	loc, err := time.LoadLocation("America/Buenos_Aires")
	require.NoError(t, err)

	navidad := record(t, "2025-12-25", "Navidad")
	inmaculada := record(t, "2025-12-08", "Inmaculada Concepción de María")
	soberania := record(t, "2025-11-24", "Día de la Soberanía Nacional")

	t.Run("returns the only qualifying record", func(t *testing.T) {
		now := time.Date(2025, time.December, 20, 9, 0, 0, 0, loc)
		got, ok := Select([]models.Record{soberania, inmaculada, navidad}, now)
		require.True(t, ok)
		assert.Equal(t, navidad, got)
	})

	t.Run("none when every holiday has passed", func(t *testing.T) {
		now := time.Date(2025, time.December, 26, 0, 0, 0, 0, loc)
		_, ok := Select([]models.Record{soberania, inmaculada, navidad}, now)
		assert.False(t, ok)
	})

	t.Run("none for an empty list", func(t *testing.T) {
		_, ok := Select(nil, time.Date(2025, time.January, 1, 0, 0, 0, 0, loc))
		assert.False(t, ok)
	})

	t.Run("today counts regardless of time of day", func(t *testing.T) {
		now := time.Date(2025, time.December, 25, 23, 59, 0, 0, loc)
		got, ok := Select([]models.Record{navidad}, now)
		require.True(t, ok)
		assert.Equal(t, "Navidad", got.Name)
	})

	t.Run("unsorted input yields the minimum qualifying date", func(t *testing.T) {
		now := time.Date(2025, time.November, 1, 12, 0, 0, 0, loc)
		input := []models.Record{navidad, soberania, inmaculada}
		got, ok := Select(input, now)
		require.True(t, ok)
		assert.Equal(t, soberania, got)
		assert.Equal(t, []models.Record{navidad, soberania, inmaculada}, input, "input order is untouched")
	})

	t.Run("ties resolve to the first record", func(t *testing.T) {
		now := time.Date(2025, time.December, 1, 0, 0, 0, 0, loc)
		puente := record(t, "2025-12-08", "Feriado puente")
		got, ok := Select([]models.Record{navidad, inmaculada, puente}, now)
		require.True(t, ok)
		assert.Equal(t, inmaculada.Name, got.Name)
	})

	t.Run("today is taken in the location of now", func(t *testing.T) {
		// 02:00 UTC on the 25th is still the 24th in Buenos Aires.
		now := time.Date(2025, time.December, 25, 2, 0, 0, 0, time.UTC).In(loc)
		nochebuena := record(t, "2025-12-24", "Nochebuena")
		got, ok := Select([]models.Record{nochebuena, navidad}, now)
		require.True(t, ok)
		assert.Equal(t, nochebuena, got)
	})
}
