package importer

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

// blockingReader never returns until release is closed.
type blockingReader struct{ release chan struct{} }

func (r blockingReader) Read([]byte) (int, error) {
	<-r.release
	return 0, io.EOF
}

func TestReadContent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text", input: "a,b\n1,2", want: "a,b\n1,2"},
		{name: "utf-8 bom dropped", input: "\xef\xbb\xbfa;b\n1;2", want: "a;b\n1;2"},
		{name: "accents preserved", input: "nome\nJoão", want: "nome\nJoão"},
		{name: "invalid bytes replaced", input: "caf\xe9", want: "caf�"},
		{name: "utf-16 with bom decoded", input: "\xff\xfea\x00,\x00b\x00", want: "a,b"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadContent(context.Background(), strings.NewReader(tt.input), 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadContent_IOError(t *testing.T) {
	_, err := ReadContent(context.Background(), failingReader{err: errors.New("disk on fire")}, 0)
	assert.ErrorIs(t, err, ErrRead)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestReadContent_NilReader(t *testing.T) {
	_, err := ReadContent(context.Background(), nil, 0)
	assert.ErrorIs(t, err, ErrRead)
}

func TestReadContent_Limit(t *testing.T) {
	got, err := ReadContent(context.Background(), strings.NewReader("12345"), 5)
	require.NoError(t, err)
	assert.Equal(t, "12345", got)

	_, err = ReadContent(context.Background(), strings.NewReader("123456"), 5)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.ErrorIs(t, err, ErrRead)
}

func TestReadContent_ContextCancelled(t *testing.T) {
	r := blockingReader{release: make(chan struct{})}
	defer close(r.release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := ReadContent(ctx, r, 0)
	assert.ErrorIs(t, err, ErrRead)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
