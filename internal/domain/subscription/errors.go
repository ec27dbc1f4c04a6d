package subscription

import (
	"fmt"

	"github.com/seekr-io/seekr/pkg/errors"
)

var (
	errSubscriptionClusterIDRequired = errors.InvalidParam("subscription cluster_id is required")
	errSubscriptionTopicRequired     = errors.InvalidParam("subscription topic_name is required")
)

// NotFound builds the canonical not-found error for a missing subscription.
func NotFound(clusterID, id int64) error {
	return errors.New(errors.CodeSubscriptionNotFound, "subscription not found").
		WithDetail(fmt.Sprintf("cluster_id=%d id=%d", clusterID, id))
}
