// Package errors_test provides table-driven unit tests for the error code
// definitions in pkg/errors/codes.go.
package errors_test

import (
	"net/http"
	"testing"

	"github.com/seekr-io/seekr/pkg/errors"
)

func TestErrorCodeString(t *testing.T) {
	cases := []struct {
		code errors.ErrorCode
		want string
	}{
		{errors.CodeOK, "OK"},
		{errors.CodeUnknown, "UNKNOWN"},
		{errors.CodeInvalidParam, "INVALID_PARAM"},
		{errors.CodeUnauthorized, "UNAUTHORIZED"},
		{errors.CodeForbidden, "FORBIDDEN"},
		{errors.CodeNotFound, "NOT_FOUND"},
		{errors.CodeConflict, "CONFLICT"},
		{errors.CodeInternal, "INTERNAL_ERROR"},
		{errors.CodeClusterNotFound, "CLUSTER_NOT_FOUND"},
		{errors.CodeClusterUnreachable, "CLUSTER_UNREACHABLE"},
		{errors.CodeFetchTimeout, "FETCH_TIMEOUT"},
		{errors.CodeSubscriptionNotFound, "SUBSCRIPTION_NOT_FOUND"},
		{errors.CodeDBConnectionError, "DB_CONNECTION_ERROR"},
		{errors.CodeDBQueryError, "DB_QUERY_ERROR"},
		{errors.CodeStoreUnavailable, "STORE_UNAVAILABLE"},
		{errors.CodeMessageQueueError, "MESSAGE_QUEUE_ERROR"},
		{errors.ErrorCode(99999), "UNKNOWN_CODE"},
	}
	for _, c := range cases {
		if got := c.code.String(); got != c.want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", c.code, got, c.want)
		}
	}
}

func TestErrorCodeHTTPStatus(t *testing.T) {
	cases := []struct {
		code errors.ErrorCode
		want int
	}{
		{errors.CodeOK, http.StatusOK},
		{errors.CodeInvalidParam, http.StatusBadRequest},
		{errors.CodeUnauthorized, http.StatusUnauthorized},
		{errors.CodeForbidden, http.StatusForbidden},
		{errors.CodeNotFound, http.StatusNotFound},
		{errors.CodeClusterNotFound, http.StatusNotFound},
		{errors.CodeSubscriptionNotFound, http.StatusNotFound},
		{errors.CodeConflict, http.StatusConflict},
		{errors.CodeClusterUnreachable, http.StatusServiceUnavailable},
		{errors.CodeDBConnectionError, http.StatusServiceUnavailable},
		{errors.CodeStoreUnavailable, http.StatusServiceUnavailable},
		{errors.CodeMessageQueueError, http.StatusServiceUnavailable},
		{errors.CodeFetchTimeout, http.StatusGatewayTimeout},
		{errors.CodeDBQueryError, http.StatusInternalServerError},
		{errors.CodeInternal, http.StatusInternalServerError},
		{errors.CodeUnknown, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := c.code.HTTPStatus(); got != c.want {
			t.Errorf("ErrorCode(%d).HTTPStatus() = %d, want %d", c.code, got, c.want)
		}
	}
}
