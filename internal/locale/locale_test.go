package locale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	for _, lang := range Languages() {
		t.Run(lang, func(t *testing.T) {
			c, err := Load(lang)
			require.NoError(t, err)
			assert.Len(t, c.Weekdays, 7)
			assert.Len(t, c.Months, 12)
			assert.NotEmpty(t, c.Columns.VideoID)
			assert.NotEmpty(t, c.Columns.DurationMinutes)
			assert.NotEmpty(t, c.Unknown)
		})
	}
}

func TestLoad_Unsupported(t *testing.T) {
	_, err := Load("de")
	assert.Error(t, err)
}

func TestCatalogsHaveSameLabels(t *testing.T) {
	en, err := Load("en")
	require.NoError(t, err)
	ru, err := Load("ru")
	require.NoError(t, err)

	for key := range en.Labels {
		assert.Contains(t, ru.Labels, key)
	}
	assert.Len(t, ru.Labels, len(en.Labels))
}

func TestCalendarNames(t *testing.T) {
	en, err := Load("en")
	require.NoError(t, err)
	ru, err := Load("ru")
	require.NoError(t, err)

	assert.Equal(t, "Sunday", en.Weekday(time.Sunday))
	assert.Equal(t, "Monday", en.WeekdayAt(0))
	assert.Equal(t, "Понедельник", ru.Weekday(time.Monday))
	assert.Equal(t, "December", en.Month(time.December))
	assert.Equal(t, "Январь", ru.Month(time.January))
}

func TestLabel(t *testing.T) {
	en, err := Load("en")
	require.NoError(t, err)

	assert.Equal(t, "Total videos", en.Label("total_videos"))
	assert.Equal(t, "no_such_key", en.Label("no_such_key"))
}

func TestNumbers(t *testing.T) {
	en, err := Load("en")
	require.NoError(t, err)

	assert.Equal(t, "1,234,567", en.Int(1234567))
	assert.Equal(t, "12.5", en.Float(12.46))

	ru, err := Load("ru")
	require.NoError(t, err)
	assert.NotEqual(t, en.Int(1234567), ru.Int(1234567))
}

func TestDuration(t *testing.T) {
	en, err := Load("en")
	require.NoError(t, err)

	assert.Equal(t, "45 seconds", en.Duration(45))
	assert.Equal(t, "2 minutes 5 seconds", en.Duration(125))
	assert.Equal(t, "1 hours 1 minutes", en.Duration(3660))
}
