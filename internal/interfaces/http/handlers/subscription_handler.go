package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seekr-io/seekr/internal/domain/subscription"
	"github.com/seekr-io/seekr/internal/store"
	apperrors "github.com/seekr-io/seekr/pkg/errors"
)

// SubscriptionHandler implements the /subscriptions resource. Every
// endpoint except Delete first confirms cluster_id resolves to a persisted
// cluster; Delete removes the row without a cluster lookup.
type SubscriptionHandler struct {
	clusters      store.ClusterStore
	subscriptions store.SubscriptionStore
}

// NewSubscriptionHandler constructs a SubscriptionHandler.
func NewSubscriptionHandler(clusters store.ClusterStore, subs store.SubscriptionStore) *SubscriptionHandler {
	return &SubscriptionHandler{clusters: clusters, subscriptions: subs}
}

type subscriptionCreateRequest struct {
	ClusterID int64             `json:"cluster_id"`
	TopicName string            `json:"topic_name"`
	Config    map[string]string `json:"config"`
}

type subscriptionUpdateRequest struct {
	TopicName string            `json:"topic_name"`
	Config    map[string]string `json:"config"`
}

// requireCluster 404s unless clusterID resolves to a persisted cluster.
func (h *SubscriptionHandler) requireCluster(c *gin.Context, clusterID int64) bool {
	if _, err := h.clusters.Get(c.Request.Context(), clusterID); err != nil {
		writeAppError(c, err)
		return false
	}
	return true
}

// Create handles POST /subscriptions.
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req subscriptionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeAppError(c, apperrors.InvalidParam(err.Error()))
		return
	}
	if !h.requireCluster(c, req.ClusterID) {
		return
	}

	sub := &subscription.Subscription{ClusterID: req.ClusterID, TopicName: req.TopicName, Config: req.Config}
	id, err := h.subscriptions.Insert(c.Request.Context(), sub)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, idResponse{ID: id})
}

// List handles GET /subscriptions/{cluster_id}.
func (h *SubscriptionHandler) List(c *gin.Context) {
	clusterID, err := parseID(c, "cluster_id")
	if err != nil {
		return
	}
	if !h.requireCluster(c, clusterID) {
		return
	}

	subs, err := h.subscriptions.List(c.Request.Context(), &clusterID)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

// Get handles GET /subscriptions/{cluster_id}/{id}.
func (h *SubscriptionHandler) Get(c *gin.Context) {
	clusterID, err := parseID(c, "cluster_id")
	if err != nil {
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	if !h.requireCluster(c, clusterID) {
		return
	}

	sub, err := h.subscriptions.Get(c.Request.Context(), clusterID, id)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// Update handles PUT /subscriptions/{cluster_id}/{id}.
func (h *SubscriptionHandler) Update(c *gin.Context) {
	clusterID, err := parseID(c, "cluster_id")
	if err != nil {
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	if !h.requireCluster(c, clusterID) {
		return
	}

	var req subscriptionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeAppError(c, apperrors.InvalidParam(err.Error()))
		return
	}

	sub := &subscription.Subscription{ID: id, ClusterID: clusterID, TopicName: req.TopicName, Config: req.Config}
	if _, err := h.subscriptions.Update(c.Request.Context(), sub); err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, idResponse{ID: id})
}

// Delete handles DELETE /subscriptions/{cluster_id}/{id}.
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	clusterID, err := parseID(c, "cluster_id")
	if err != nil {
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	if _, err := h.subscriptions.Remove(c.Request.Context(), clusterID, id); err != nil && !apperrors.IsNotFound(err) {
		writeAppError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
