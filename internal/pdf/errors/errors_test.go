package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindEmptyInput, "EMPTY_INPUT"},
		{KindInvalidHeader, "INVALID_HEADER"},
		{KindCorruptedStructure, "CORRUPTED_STRUCTURE"},
		{KindEncrypted, "ENCRYPTED"},
		{KindNoPages, "NO_PAGES"},
		{KindTooLarge, "TOO_LARGE"},
		{KindMalformedPage, "MALFORMED_PAGE"},
		{KindUnknown, "UNKNOWN"},
		{ErrorKind(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestExtractionError_Error(t *testing.T) {
	err := Wrap(KindCorruptedStructure, "cannot read cross-reference table", io.ErrUnexpectedEOF)
	assert.Equal(t, "[CORRUPTED_STRUCTURE] cannot read cross-reference table: unexpected EOF", err.Error())

	pageErr := New(KindMalformedPage, "content stream could not be decoded").WithPage(3)
	assert.Equal(t, "[MALFORMED_PAGE] content stream could not be decoded (page 3)", pageErr.Error())
}

func TestExtractionError_Unwrap(t *testing.T) {
	err := fmt.Errorf("inspect: %w", Wrap(KindEncrypted, "document is encrypted", io.EOF))

	assert.True(t, IsExtractionError(err))
	assert.Equal(t, KindEncrypted, KindOf(err))
	assert.True(t, stderrors.Is(err, io.EOF))

	assert.False(t, IsExtractionError(io.EOF))
	assert.Equal(t, KindUnknown, KindOf(io.EOF))
}

func TestGuard(t *testing.T) {
	t.Run("returns fn error unchanged", func(t *testing.T) {
		err := Guard("read", func() error { return io.EOF })
		assert.Equal(t, io.EOF, err)
	})

	t.Run("converts panic into PanicError", func(t *testing.T) {
		err := Guard("decode page", func() error {
			var m map[string]int
			m["boom"]++
			return nil
		})

		require.Error(t, err)
		var pe *PanicError
		require.True(t, stderrors.As(err, &pe))
		assert.Equal(t, "decode page", pe.Op)
		assert.NotEmpty(t, pe.StackTrace)
		assert.Contains(t, err.Error(), "panic during decode page")
	})

	t.Run("nil on success", func(t *testing.T) {
		assert.NoError(t, Guard("noop", func() error { return nil }))
	})
}
