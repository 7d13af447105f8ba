package rest

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusError(t *testing.T) {
	testCases := []struct {
		status   int
		expected Kind
	}{
		{status: 400, expected: KindBadRequest},
		{status: 401, expected: KindUnauthorized},
		{status: 403, expected: KindForbidden},
		{status: 404, expected: KindNotFound},
		{status: 402, expected: KindError4xx},
		{status: 405, expected: KindError4xx},
		{status: 418, expected: KindError4xx},
		{status: 429, expected: KindError4xx},
		{status: 499, expected: KindError4xx},
		{status: 500, expected: KindServerError},
		{status: 501, expected: KindError5xx},
		{status: 503, expected: KindError5xx},
		{status: 599, expected: KindError5xx},
		{status: 600, expected: KindUnknown},
		{status: 301, expected: KindUnknown},
		{status: 0, expected: KindUnknown},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("status_%d", tc.status), func(t *testing.T) {
			serviceErr := StatusError(tc.status)
			require.NotNil(t, serviceErr)
			assert.Equal(t, tc.expected, serviceErr.Kind)
			assert.Equal(t, tc.status, serviceErr.Code)
		})
	}
}

func TestServiceError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	serviceErr := TransportError(cause)

	assert.Equal(t, KindTransport, serviceErr.Kind)
	assert.ErrorIs(t, serviceErr, cause)
	assert.Contains(t, serviceErr.Error(), "connection refused")
}

func TestAsServiceError(t *testing.T) {
	serviceErr := StatusError(404)
	wrapped := fmt.Errorf("get patient 42: %w", serviceErr)

	unwrapped, ok := AsServiceError(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, unwrapped.Kind)
	assert.Equal(t, 404, unwrapped.Code)

	_, ok = AsServiceError(errors.New("something else"))
	assert.False(t, ok)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnauthorized, KindOf(StatusError(401)))
	assert.Equal(t, KindDecoding, KindOf(DecodingError(errors.New("bad json"))))
	assert.Equal(t, KindUnknown, KindOf(errors.New("foreign")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}
