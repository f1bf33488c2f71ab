package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name: "nil error returns empty",
		},
		{
			name:        "unsupported type",
			err:         fmt.Errorf("%w: %q", ErrUnsupportedType, "text/plain"),
			wantCode:    "IMP001",
			wantMessage: "Tipo de ficheiro não suportado. Use CSV ou JSON.",
		},
		{
			name:        "read error",
			err:         fmt.Errorf("%w: unexpected EOF", ErrRead),
			wantCode:    "IMP002",
			wantMessage: "Erro ao carregar o ficheiro.",
		},
		{
			name:        "file too large reads as read error",
			err:         ErrFileTooLarge,
			wantCode:    "IMP002",
			wantMessage: "Erro ao carregar o ficheiro.",
		},
		{
			name:        "parse error carries decoder message",
			err:         &ParseError{Format: FormatJSON, Err: errors.New("invalid character 'x'")},
			wantCode:    "IMP003",
			wantMessage: "Erro ao analisar o ficheiro: invalid character 'x'",
		},
		{
			name:        "empty dataset",
			err:         ErrEmptyDataset,
			wantCode:    "IMP004",
			wantMessage: "O ficheiro está vazio ou o formato é inválido.",
		},
		{
			name:        "simulated failure",
			err:         ErrSimulatedFailure,
			wantCode:    "IMP005",
			wantMessage: "Erro de processamento no servidor (Simulado).",
		},
		{
			name:        "endpoint failure",
			err:         fmt.Errorf("%w: endpoint returned 500", ErrSubmission),
			wantCode:    "IMP005",
			wantMessage: "Erro de processamento no servidor.",
		},
		{
			name:        "busy",
			err:         ErrBusy,
			wantCode:    "IMP006",
			wantMessage: "Já existe uma importação em curso.",
		},
		{
			name:        "limiter timeout",
			err:         ErrTooManyImports,
			wantCode:    "IMP007",
			wantMessage: "O servidor está ocupado.",
		},
		{
			name:        "cancelled",
			err:         fmt.Errorf("%w: %w", ErrRead, context.Canceled),
			wantCode:    "IMP002",
			wantMessage: "Erro ao carregar o ficheiro.",
		},
		{
			name:        "bare deadline",
			err:         context.DeadlineExceeded,
			wantCode:    "IMP008",
			wantMessage: "A importação excedeu o tempo limite.",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("something else"),
			wantCode:    "ERR000",
			wantMessage: "Ocorreu um erro inesperado.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantMessage, got.Message)
		})
	}
}

func TestFeedback(t *testing.T) {
	assert.True(t, NoFeedback().IsNone())
	assert.True(t, Feedback{}.IsNone())

	ok := SuccessFeedback(3)
	assert.Equal(t, FeedbackSuccess, ok.Kind)
	assert.Equal(t, "Sucesso: 3 registos importados.", ok.Message)
	assert.False(t, ok.IsNone())

	bad := ErrorFeedback(ErrEmptyDataset)
	assert.Equal(t, FeedbackError, bad.Kind)
	assert.Equal(t, "IMP004", bad.Code)
	assert.NotEmpty(t, bad.Action)
}
