package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/watchstats/internal/duration"
	"github.com/sells-group/watchstats/internal/model"
	"github.com/sells-group/watchstats/internal/resilience"
	"github.com/sells-group/watchstats/pkg/youtube"
	"github.com/sells-group/watchstats/pkg/youtube/mocks"
)

func fastRetry() resilience.Policy {
	return resilience.Policy{
		Attempts: 3,
		Base:     time.Millisecond,
		Cap:      2 * time.Millisecond,
	}
}

func TestRetrying_RetriesUnavailable(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("Duration", mock.Anything, idA).
		Return(0, &youtube.FetchError{Kind: youtube.Unavailable, VideoID: idA, StatusCode: 503}).Once()
	client.On("Duration", mock.Anything, idA).Return(212, nil).Once()

	got, err := Retrying(client, fastRetry()).Duration(context.Background(), idA)

	require.NoError(t, err)
	assert.Equal(t, 212, got)
}

func TestRetrying_DoesNotRetryQuota(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("Duration", mock.Anything, idA).
		Return(0, &youtube.FetchError{Kind: youtube.QuotaExceeded, VideoID: idA, StatusCode: 403}).Once()

	_, err := Retrying(client, fastRetry()).Duration(context.Background(), idA)

	require.Error(t, err)
	assert.True(t, youtube.IsFatal(err))
}

func TestRetrying_DoesNotRetryNotFound(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("Duration", mock.Anything, idA).
		Return(0, &youtube.FetchError{Kind: youtube.NotFound, VideoID: idA}).Once()

	_, err := Retrying(client, fastRetry()).Duration(context.Background(), idA)

	assert.Equal(t, youtube.NotFound, youtube.KindOf(err))
}

func TestManualSource(t *testing.T) {
	in := strings.NewReader("3:07\n\nabc\n1:02:03\n")
	var out bytes.Buffer
	src := NewManualSource(in, &out)
	ctx := context.Background()

	got, err := src.Duration(ctx, idA)
	require.NoError(t, err)
	assert.Equal(t, 187, got)

	_, err = src.Duration(ctx, idB)
	assert.Equal(t, youtube.NotFound, youtube.KindOf(err))

	// An unparseable answer prompts again.
	got, err = src.Duration(ctx, idC)
	require.NoError(t, err)
	assert.Equal(t, 3723, got)
	assert.Contains(t, out.String(), `unrecognized duration "abc"`)
	assert.Contains(t, out.String(), "https://www.youtube.com/watch?v="+idC)

	_, err = src.Duration(ctx, idA)
	assert.ErrorIs(t, err, ErrSourceExhausted)
}

func TestEnrich_ManualSourceExhaustedStops(t *testing.T) {
	src := NewManualSource(strings.NewReader("2:00\n"), &bytes.Buffer{})
	sample := []model.ViewingRow{testRows()[0], testRows()[2], testRows()[3]}
	tracker := duration.NewTracker()

	report := Enrich(context.Background(), sample, src, tracker, noPacing())

	assert.True(t, report.Aborted)
	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 1, report.Enriched)
	assert.Equal(t, 120, tracker.Durations()[idA])
}
