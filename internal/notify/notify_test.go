package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pesapeak/pesapeak/internal/model"
	"github.com/pesapeak/pesapeak/internal/statement"
)

func TestSummarize(t *testing.T) {
	txns := []model.Transaction{{}, {}}

	tests := []struct {
		name string
		res  statement.Result
		want []Toast
	}{
		{
			name: "clean",
			res:  statement.Result{Transactions: txns},
			want: []Toast{{LevelSuccess, "2 transactions parsed, 0 errors"}},
		},
		{
			name: "partial",
			res:  statement.Result{Transactions: txns[:1], Errors: []string{"Error parsing row 3: invalid date \"x\""}},
			want: []Toast{
				{LevelError, "Error parsing row 3: invalid date \"x\""},
				{LevelWarning, "1 transaction parsed, 1 error"},
			},
		},
		{
			name: "nothing",
			res:  statement.Result{Errors: []string{"CSV file is empty"}},
			want: []Toast{
				{LevelError, "CSV file is empty"},
				{LevelError, "0 transactions parsed, 1 error"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.res))
		})
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	NotifyAll(NewConsole(&buf), []Toast{
		{LevelError, "Unknown CSV format. Supported formats: Equity Bank, MPesa"},
		{LevelError, "0 transactions parsed, 1 error"},
	})
	assert.Equal(t, "[error] Unknown CSV format. Supported formats: Equity Bank, MPesa\n[error] 0 transactions parsed, 1 error\n", buf.String())
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Notify(Toast{LevelSuccess, "ok"})
	got := r.Toasts()
	assert.Equal(t, []Toast{{LevelSuccess, "ok"}}, got)

	got[0].Message = "changed"
	assert.Equal(t, "ok", r.Toasts()[0].Message)
}
