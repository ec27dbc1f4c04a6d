// Package handlers implements the control plane's REST API: cluster and
// subscription CRUD plus the cached-metadata read endpoint, per the wire
// contract rooted at /api/v1.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/seekr-io/seekr/pkg/errors"
)

// idResponse is the {id} body every create/update endpoint returns.
type idResponse struct {
	ID int64 `json:"id"`
}

// errorResponse is the body returned alongside any non-2xx status.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeAppError translates an error into the wire response and status code
// dictated by pkg/errors.ErrorCode.HTTPStatus, defaulting unrecognised
// errors to 500 so internal detail never leaks to the caller.
func writeAppError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	status := code.HTTPStatus()
	if status == 0 {
		status = http.StatusInternalServerError
	}
	message := err.Error()
	if code == apperrors.CodeUnknown {
		message = "internal server error"
	}
	c.JSON(status, errorResponse{Code: code.String(), Message: message})
}

// invalidPathParam builds the validation error for a malformed numeric path
// parameter such as a non-integer {id}.
func invalidPathParam(name, raw string) error {
	return apperrors.InvalidParam("invalid " + name + " path parameter: " + raw)
}
