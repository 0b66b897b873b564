package timeframe

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// now is a fixed Wednesday used as the reference date in these tests.
var wednesday = time.Date(2024, time.March, 13, 10, 30, 0, 0, time.UTC)

func TestResolveUsualIsUnbounded(t *testing.T) {
	r, err := Resolve("usual", wednesday)
	require.NoError(t, err)
	assert.Nil(t, r.Start)
	assert.Nil(t, r.End)
	assert.False(t, r.Bounded())
	assert.Equal(t, "", r.StartString())
	assert.Equal(t, "", r.EndString())
}

func TestResolveLastWeek(t *testing.T) {
	r, err := Resolve("last week", wednesday)
	require.NoError(t, err)
	require.True(t, r.Bounded())

	// Nominal range 2024-03-04..2024-03-11, shifted back two years.
	assert.Equal(t, "2022-03-04", r.StartString())
	assert.Equal(t, "2022-03-11", r.EndString())
}

func TestResolveLastMonth(t *testing.T) {
	r, err := Resolve("last month", wednesday)
	require.NoError(t, err)
	assert.Equal(t, "2022-02-01", r.StartString())
	// Nominal end is 2024-02-29; shifting a leap day back two years
	// normalizes it forward to March 1st.
	assert.Equal(t, "2022-03-01", r.EndString())
}

func TestResolveLastYear(t *testing.T) {
	r, err := Resolve("last year", wednesday)
	require.NoError(t, err)
	assert.Equal(t, "2021-01-01", r.StartString())
	assert.Equal(t, "2021-12-31", r.EndString())
}

func TestResolveLastMonthName(t *testing.T) {
	r, err := Resolve("last june", wednesday)
	require.NoError(t, err)

	// June one year before now, shifted back two more.
	assert.Equal(t, "2021-06-01", r.StartString())
	assert.Equal(t, "2021-06-30", r.EndString())
}

func TestResolveUnrecognizedPhrases(t *testing.T) {
	for _, phrase := range []string{"", "yesterday", "last fortnight", "next week", "week"} {
		_, err := Resolve(phrase, wednesday)
		assert.ErrorIs(t, err, ErrUnresolvedTimeframe, "phrase %q", phrase)
	}
}

func TestResolveOrderingAndBaselineShift(t *testing.T) {
	phrases := []string{
		"last week", "last month", "last year",
		"last january", "last february", "last march", "last april",
		"last may", "last june", "last july", "last august",
		"last september", "last october", "last november", "last december",
	}

	for _, phrase := range phrases {
		r, err := Resolve(phrase, wednesday)
		require.NoError(t, err, "phrase %q", phrase)
		require.True(t, r.Bounded(), "phrase %q", phrase)

		assert.False(t, r.End.Before(*r.Start), "phrase %q: start after end", phrase)

		// The shift must be exactly two years relative to the nominal range.
		nominalStart, nominalEnd, err := lastFormRange(phrase[len("last "):], wednesday)
		require.NoError(t, err)
		assert.Equal(t, nominalStart.AddDate(-2, 0, 0), *r.Start, "phrase %q", phrase)
		assert.Equal(t, nominalEnd.AddDate(-2, 0, 0), *r.End, "phrase %q", phrase)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	a, err := Resolve("last week", wednesday)
	require.NoError(t, err)
	b, err := Resolve("last week", wednesday)
	require.NoError(t, err)
	assert.Equal(t, a.StartString(), b.StartString())
	assert.Equal(t, a.EndString(), b.EndString())
}

func TestResolveErrorIsTyped(t *testing.T) {
	_, err := Resolve("last nonsense", wednesday)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvedTimeframe))
}
