package dbx

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatParseTime_RoundTripUTC(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	in := time.Date(2024, 5, 1, 12, 30, 0, 1500, loc)

	s := FormatTime(in)
	assert.Equal(t, "2024-05-01T09:30:00.000001500Z", s)

	out, err := ParseTime(s)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
}

func TestFormatTime_LexicalOrderMatchesTime(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 5, 100_000_000, time.UTC)
	b := time.Date(2024, 1, 1, 0, 0, 5, 120_000_000, time.UTC)
	assert.Less(t, FormatTime(a), FormatTime(b))
}

func TestParseTime_Invalid(t *testing.T) {
	_, err := ParseTime("yesterday")
	assert.Error(t, err)
}

func TestNullString(t *testing.T) {
	assert.Equal(t, sql.NullString{}, NullString(nil))

	v := "f1"
	assert.Equal(t, sql.NullString{String: "f1", Valid: true}, NullString(&v))

	assert.Nil(t, StringPtr(sql.NullString{}))
	p := StringPtr(sql.NullString{String: "f2", Valid: true})
	require.NotNil(t, p)
	assert.Equal(t, "f2", *p)
}
