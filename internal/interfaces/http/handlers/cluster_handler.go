package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/seekr-io/seekr/internal/domain/cluster"
	"github.com/seekr-io/seekr/internal/metadata"
	"github.com/seekr-io/seekr/internal/store"
	apperrors "github.com/seekr-io/seekr/pkg/errors"
)

// clusterRegistry is the subset of *manager.Manager the cluster handler
// drives. Defined here rather than importing internal/metadata/manager
// directly so the handler can be unit tested with a stub.
type clusterRegistry interface {
	Register(c *cluster.Cluster) error
	Remove(id int64)
	Get(id int64) (metadata.CachedMetadataEntry, bool)
}

// ClusterHandler implements the /clusters resource.
type ClusterHandler struct {
	store   store.ClusterStore
	manager clusterRegistry
}

// NewClusterHandler constructs a ClusterHandler.
func NewClusterHandler(s store.ClusterStore, m clusterRegistry) *ClusterHandler {
	return &ClusterHandler{store: s, manager: m}
}

type clusterRequest struct {
	Kind   cluster.Kind      `json:"kind"`
	Name   string            `json:"name"`
	Config map[string]string `json:"config"`
}

// Create handles POST /clusters.
func (h *ClusterHandler) Create(c *gin.Context) {
	var req clusterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeAppError(c, apperrors.InvalidParam(err.Error()))
		return
	}

	newCluster := &cluster.Cluster{Kind: req.Kind, Name: req.Name, Config: req.Config}
	id, err := h.store.Insert(c.Request.Context(), newCluster)
	if err != nil {
		writeAppError(c, err)
		return
	}
	newCluster.ID = id

	if err := h.manager.Register(newCluster); err != nil {
		writeAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, idResponse{ID: id})
}

// List handles GET /clusters.
func (h *ClusterHandler) List(c *gin.Context) {
	clusters, err := h.store.List(c.Request.Context(), nil)
	if err != nil {
		writeAppError(c, err)
		return
	}

	summaries := make([]cluster.Summary, 0, len(clusters))
	for _, cl := range clusters {
		summaries = append(summaries, cl.ToSummary())
	}
	c.JSON(http.StatusOK, gin.H{"clusters": summaries})
}

// Get handles GET /clusters/{id}.
func (h *ClusterHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	cl, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cluster": cl.ToSummary()})
}

// Update handles PUT /clusters/{id}.
func (h *ClusterHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req clusterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeAppError(c, apperrors.InvalidParam(err.Error()))
		return
	}

	updated := &cluster.Cluster{ID: id, Kind: req.Kind, Name: req.Name, Config: req.Config}
	if _, err := h.store.Update(c.Request.Context(), updated); err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, idResponse{ID: id})
}

// Delete handles DELETE /clusters/{id}. Store removal happens before
// deregistering the poller so the registry can never resurrect a deleted
// cluster on its next poll.
func (h *ClusterHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	if _, err := h.store.Remove(c.Request.Context(), id); err != nil && !apperrors.IsNotFound(err) {
		writeAppError(c, err)
		return
	}
	// Deregister even when the row was already gone, so a live poller can
	// never outlast its deleted cluster.
	h.manager.Remove(id)
	c.Status(http.StatusOK)
}

// Metadata handles GET /clusters/{id}/metadata, returning the cache entry
// verbatim as its externally-tagged JSON form.
func (h *ClusterHandler) Metadata(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	entry, ok := h.manager.Get(id)
	if !ok {
		writeAppError(c, cluster.NotFound(id))
		return
	}
	b, err := entry.MarshalJSON()
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", b)
}

// parseID extracts and validates an int64 path parameter, writing a 400
// response and returning a non-nil error if it is missing or malformed.
func parseID(c *gin.Context, param string) (int64, error) {
	raw := c.Param(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeAppError(c, invalidPathParam(param, raw))
		return 0, err
	}
	return id, nil
}
