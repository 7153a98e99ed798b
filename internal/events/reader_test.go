package events

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestReader_SkipsBlankLinesAndEndsWithEOF(t *testing.T) {
	in := `{"id":"ssh-01","profile_id":"ssh","status":"failed","full_description":"SSH Protocol should eq 2","exception":{"class":"Failure","message":"expected 2 got 1"}}

   
{"id":"ssh-02","status":"pending","pending_message":"later","run_time":0.25,"started_at":"2024-05-01T10:00:00Z"}
`
	r := NewReader(strings.NewReader(in), nil)

	first, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "ssh-01", first.ID)
	assert.Equal(t, "ssh", first.ProfileID)
	require.NotNil(t, first.Exception)
	assert.Equal(t, "expected 2 got 1", first.Exception.Message)

	second, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "pending", second.Status)
	require.NotNil(t, second.RunTime)
	assert.Equal(t, 0.25, *second.RunTime)
	require.NotNil(t, second.StartedAt)
	assert.True(t, second.StartedAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_IllTypedOptionalFieldsAreDropped(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	in := `{"id":"b","status":"failed","full_description":"d","run_time":"slow","started_at":"yesterday","description_args":"x","exception":{"class":1}}
{"id":"c","status":"passed"}
`
	r := NewReader(strings.NewReader(in), zap.New(core))

	ev, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", ev.ID)
	assert.Equal(t, "failed", ev.Status)
	assert.Equal(t, "d", ev.FullDescription)
	assert.Nil(t, ev.RunTime)
	assert.Nil(t, ev.StartedAt)
	assert.Nil(t, ev.DescriptionArgs)
	assert.Nil(t, ev.Exception)

	next, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "c", next.ID, "stream continues past the bad fields")

	var dropped []string
	for _, e := range logs.FilterMessage("dropped malformed event field").All() {
		dropped = append(dropped, e.ContextMap()["field"].(string))
		assert.Equal(t, int64(1), e.ContextMap()["line"])
	}
	assert.ElementsMatch(t, []string{"run_time", "started_at", "description_args", "exception"}, dropped)
}

func TestReader_EventWithoutIDIsKept(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := NewReader(strings.NewReader(`{"id":42,"status":"passed","full_description":"anon"}`), zap.New(core))

	ev, err := r.Next()
	require.NoError(t, err)
	assert.Empty(t, ev.ID)
	assert.Equal(t, "anon", ev.FullDescription)
	assert.Equal(t, 1, logs.FilterMessage("event without id").Len())
}

func TestReader_NullFieldsAreAbsent(t *testing.T) {
	ev, err := NewReader(strings.NewReader(`{"id":"a","run_time":null,"exception":null}`), nil).Next()
	require.NoError(t, err)
	assert.Nil(t, ev.RunTime)
	assert.Nil(t, ev.Exception)
}

func TestReader_NonObjectLineReportsLineNumber(t *testing.T) {
	r := NewReader(strings.NewReader("{\"id\":\"a\"}\n\n{not json\n"), nil)
	_, err := r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3: not a JSON object")

	for _, in := range []string{"[1,2]", "null", `"text"`} {
		_, err := NewReader(strings.NewReader(in), nil).Next()
		assert.ErrorContains(t, err, "line 1: not a JSON object", in)
	}
}

func TestReader_EmptyInput(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), nil).Next()
	assert.ErrorIs(t, err, io.EOF)
}
