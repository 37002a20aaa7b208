package store

import (
	"errors"
	"testing"

	"github.com/bobby-s-dev/weather-planner/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEventStore(t *testing.T) (*EventStore, KeyValueStore) {
	t.Helper()
	kv := NewMemoryStore()
	return NewEventStore(kv, "events", zap.NewNop()), kv
}

func TestLoad_EmptyStorage(t *testing.T) {
	s, kv := newTestEventStore(t)

	events, err := s.Load()
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)

	require.NoError(t, kv.Set("events", ""))
	events, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, events)

	require.NoError(t, kv.Set("events", "null"))
	events, err = s.Load()
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestLoad_CorruptContent(t *testing.T) {
	s, kv := newTestEventStore(t)
	require.NoError(t, kv.Set("events", "{not json"))

	_, err := s.Load()
	assert.Error(t, err)
}

func TestLoad_ReadsPersistedFormat(t *testing.T) {
	s, kv := newTestEventStore(t)
	require.NoError(t, kv.Set("events", `[{"title":"Meeting","date":"2024-06-01"}]`))

	events, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []models.CalendarEvent{{Title: "Meeting", Date: "2024-06-01"}}, events)
}

func TestAddThenDeleteScenario(t *testing.T) {
	s, _ := newTestEventStore(t)

	events, err := s.Load()
	require.NoError(t, err)

	meeting := models.CalendarEvent{Title: "Meeting", Date: "2024-06-01"}
	events, err = s.Add(events, meeting)
	require.NoError(t, err)

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, meeting, loaded[0])

	events, err = s.Remove(events, "2024-06-01")
	require.NoError(t, err)
	assert.Empty(t, events)

	loaded, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestMutationsMatchReadBack(t *testing.T) {
	s, _ := newTestEventStore(t)

	type op struct {
		add  *models.CalendarEvent
		date string
	}
	ops := []op{
		{add: &models.CalendarEvent{Title: "a", Date: "2024-06-01"}},
		{add: &models.CalendarEvent{Title: "b", Date: "2024-06-02"}},
		{add: &models.CalendarEvent{Title: "c", Date: "2024-06-01"}},
		{date: "2024-06-03"},
		{add: &models.CalendarEvent{Title: "d", Date: "2024-06-03"}},
		{date: "2024-06-01"},
		{date: "2024-06-01"},
		{date: "2024-06-02"},
	}

	events := []models.CalendarEvent{}
	for i, o := range ops {
		var err error
		if o.add != nil {
			events, err = s.Add(events, *o.add)
		} else {
			events, err = s.Remove(events, o.date)
		}
		require.NoError(t, err, "op %d", i)

		loaded, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, events, loaded, "op %d", i)
	}
	assert.Equal(t, []models.CalendarEvent{{Title: "d", Date: "2024-06-03"}}, events)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s, _ := newTestEventStore(t)
	events := []models.CalendarEvent{
		{Title: "a", Date: "2024-06-01"},
		{Title: "b", Date: "2024-06-02"},
		{Title: "c", Date: "2024-06-01"},
	}

	once, err := s.Remove(events, "2024-06-01")
	require.NoError(t, err)
	twice, err := s.Remove(once, "2024-06-01")
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, []models.CalendarEvent{{Title: "b", Date: "2024-06-02"}}, twice)
}

func TestAddDoesNotAliasInput(t *testing.T) {
	s, _ := newTestEventStore(t)
	base := make([]models.CalendarEvent, 1, 4)
	base[0] = models.CalendarEvent{Title: "a", Date: "2024-06-01"}

	first, err := s.Add(base, models.CalendarEvent{Title: "b", Date: "2024-06-02"})
	require.NoError(t, err)
	second, err := s.Add(base, models.CalendarEvent{Title: "c", Date: "2024-06-03"})
	require.NoError(t, err)

	assert.Equal(t, "b", first[1].Title)
	assert.Equal(t, "c", second[1].Title)
	assert.Len(t, base, 1)
}

func TestAddRejectsMissingFields(t *testing.T) {
	s, kv := newTestEventStore(t)

	_, err := s.Add(nil, models.CalendarEvent{Date: "2024-06-01"})
	assert.True(t, errors.Is(err, models.ErrInvalidEvent))

	_, ok, _ := kv.Get("events")
	assert.False(t, ok, "nothing should be written for an invalid event")
}

type failingStore struct{}

func (failingStore) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }
func (failingStore) Set(string, string) error        { return errors.New("disk gone") }

func TestStorageErrorsPropagate(t *testing.T) {
	s := NewEventStore(failingStore{}, "", zap.NewNop())

	_, err := s.Load()
	assert.Error(t, err)

	_, err = s.Add(nil, models.CalendarEvent{Title: "a", Date: "2024-06-01"})
	assert.Error(t, err)
}
