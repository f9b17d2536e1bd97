package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/agentflow/internal/domain/dto"
	"github.com/guttosm/agentflow/internal/domain/model"
	"github.com/guttosm/agentflow/internal/i18n"
	"github.com/guttosm/agentflow/internal/service"
)

// WorkflowHandler serves /api/workflows.
type WorkflowHandler struct {
	workflows service.WorkflowService
}

// NewWorkflowHandler creates a WorkflowHandler.
func NewWorkflowHandler(workflows service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflows: workflows}
}

// RegisterRoutes registers the workflow routes on rg.
func (h *WorkflowHandler) RegisterRoutes(rg *gin.RouterGroup) {
	workflows := rg.Group("/workflows")
	workflows.GET("", h.List)
	workflows.POST("", h.Create)
	workflows.GET("/:id", h.Get)
	workflows.PUT("/:id", h.Update)
	workflows.DELETE("/:id", h.Delete)
}

// List handles GET /api/workflows?owner=.
func (h *WorkflowHandler) List(c *gin.Context) {
	builder := NewResponseBuilder(c)
	owner := c.Query("owner")
	if owner == "" {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyOwnerRequired, dto.ErrMissingOwner)
		return
	}
	workflows, err := h.workflows.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		builder.Fail(err)
		return
	}
	if workflows == nil {
		workflows = []model.Workflow{}
	}
	builder.SuccessOK(workflows)
}

// Get handles GET /api/workflows/:id.
func (h *WorkflowHandler) Get(c *gin.Context) {
	builder := NewResponseBuilder(c)
	wf, err := h.workflows.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(wf)
}

// Create handles POST /api/workflows.
func (h *WorkflowHandler) Create(c *gin.Context) {
	builder := NewResponseBuilder(c)
	req, err := BindJSON[dto.CreateWorkflowRequest](c)
	if err != nil {
		builder.InvalidBody(err)
		return
	}
	wf := req.ToModel()
	if err := h.workflows.Create(c.Request.Context(), &wf); err != nil {
		builder.Fail(err)
		return
	}
	c.Header("Location", "/api/workflows/"+wf.ID)
	builder.SuccessCreated(wf)
}

// Update handles PUT /api/workflows/:id.
func (h *WorkflowHandler) Update(c *gin.Context) {
	builder := NewResponseBuilder(c)
	req, err := BindJSON[dto.UpdateWorkflowRequest](c)
	if err != nil {
		builder.InvalidBody(err)
		return
	}
	wf, err := h.workflows.Update(c.Request.Context(), c.Param("id"), req.Apply)
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(wf)
}

// Delete handles DELETE /api/workflows/:id.
func (h *WorkflowHandler) Delete(c *gin.Context) {
	builder := NewResponseBuilder(c)
	if err := h.workflows.Delete(c.Request.Context(), c.Param("id")); err != nil {
		builder.Fail(err)
		return
	}
	builder.Message(i18n.SuccessKeyDeleted)
}
