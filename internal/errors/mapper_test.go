package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	svcErr "github.com/kindredapp/kindred/internal/errors"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{svcErr.ErrUnauthenticated, http.StatusUnauthorized},
		{svcErr.InvalidArgument("bad"), http.StatusBadRequest},
		{svcErr.ErrDuplicateEdge, http.StatusConflict},
		{svcErr.ErrQuotaExhausted, http.StatusTooManyRequests},
		{svcErr.Forbidden("no"), http.StatusForbidden},
		{svcErr.NotFound("gone"), http.StatusNotFound},
		{fmt.Errorf("%w: disk full", svcErr.ErrStorageFailure), http.StatusInternalServerError},
		{fmt.Errorf("something else"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, svcErr.Status(tc.err), tc.err.Error())
	}
}
