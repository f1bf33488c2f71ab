package importer

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadContent reads the whole of r and returns it as text.
//
// The bytes are decoded as UTF-8 (or UTF-16 when a BOM says so), a leading
// BOM is dropped and invalid sequences become U+FFFD. The read runs on its
// own goroutine so the caller can abandon it through ctx; it completes
// exactly once. limit <= 0 disables the size check.
func ReadContent(ctx context.Context, r io.Reader, limit int64) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: no content", ErrRead)
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		text, err := readAll(r, limit)
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", ErrRead, ctx.Err())
	case res := <-done:
		return res.text, res.err
	}
}

func readAll(r io.Reader, limit int64) (string, error) {
	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}

	raw, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRead, err)
	}
	if limit > 0 && int64(len(raw)) > limit {
		return "", fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, limit)
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return "", fmt.Errorf("%w: decode: %w", ErrRead, err)
	}
	return string(decoded), nil
}
