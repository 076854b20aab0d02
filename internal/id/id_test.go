package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTxnID(t *testing.T) {
	tests := []struct {
		year, month, seq int
		want             string
	}{
		{2025, 1, 1, "2025-01-001"},
		{2025, 12, 99, "2025-12-099"},
		{2025, 6, 123, "2025-06-123"},
		{2025, 6, 1234, "2025-06-1234"},
	}
	for _, tt := range tests {
		got := FormatTxnID(tt.year, tt.month, tt.seq)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseTxnID(t *testing.T) {
	tests := []struct {
		input               string
		wantYear, wantMonth int
		wantSeq             int
	}{
		{"2025-01-001", 2025, 1, 1},
		{"2025-12-099", 2025, 12, 99},
		{"2025-06-1234", 2025, 6, 1234},
	}
	for _, tt := range tests {
		year, month, seq, err := ParseTxnID(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.wantYear, year)
		assert.Equal(t, tt.wantMonth, month)
		assert.Equal(t, tt.wantSeq, seq)
	}
}

func TestParseTxnID_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"not-valid",
		"2025-01",
		"xxxx-01-001",
		"2025-13-001",
		"2025-01-000",
		"2025-01-abc",
	}
	for _, input := range badInputs {
		_, _, _, err := ParseTxnID(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}

func TestRoundTrip(t *testing.T) {
	year, month, seq, err := ParseTxnID(FormatTxnID(2024, 2, 7))
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2, 7}, []int{year, month, seq})
}

func TestNewBatchID(t *testing.T) {
	a := NewBatchID()
	b := NewBatchID()
	assert.NotEqual(t, a, b)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
}
