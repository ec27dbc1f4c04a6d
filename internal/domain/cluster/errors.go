package cluster

import (
	"fmt"

	"github.com/seekr-io/seekr/pkg/errors"
)

var (
	errClusterNameRequired    = errors.InvalidParam("cluster name is required")
	errClusterKindRequired    = errors.InvalidParam("cluster kind is required")
	errClusterKindUnsupported = errors.InvalidParam("unsupported cluster kind")
)

// NotFound builds the canonical not-found error for a missing cluster id.
func NotFound(id int64) error {
	return errors.New(errors.CodeClusterNotFound, "cluster not found").WithDetail(fmt.Sprintf("id=%d", id))
}
