package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/agentflow/internal/domain/dto"
	"github.com/guttosm/agentflow/internal/domain/model"
	"github.com/guttosm/agentflow/internal/i18n"
	"github.com/guttosm/agentflow/internal/service"
)

// AgentHandler serves /api/agents.
type AgentHandler struct {
	agents service.AgentService
}

// NewAgentHandler creates an AgentHandler.
func NewAgentHandler(agents service.AgentService) *AgentHandler {
	return &AgentHandler{agents: agents}
}

// RegisterRoutes registers the workflow routes on rg.
func (h *AgentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	agents := rg.Group("/agents")
	agents.GET("", h.List)
	agents.POST("", h.Create)
	agents.GET("/:id", h.Get)
	agents.PUT("/:id", h.Update)
	agents.DELETE("/:id", h.Delete)
}

// List handles GET /api/agents?owner=.
func (h *AgentHandler) List(c *gin.Context) {
	builder := NewResponseBuilder(c)
	owner := c.Query("owner")
	if owner == "" {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyOwnerRequired, dto.ErrMissingOwner)
		return
	}
	agents, err := h.agents.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		builder.Fail(err)
		return
	}
	if agents == nil {
		agents = []model.Agent{}
	}
	builder.SuccessOK(agents)
}

// Get handles GET /api/agents/:id.
func (h *AgentHandler) Get(c *gin.Context) {
	builder := NewResponseBuilder(c)
	a, err := h.agents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(a)
}

// Create handles POST /api/agents.
func (h *AgentHandler) Create(c *gin.Context) {
	builder := NewResponseBuilder(c)
	req, err := BindJSON[dto.CreateAgentRequest](c)
	if err != nil {
		builder.InvalidBody(err)
		return
	}
	a := req.ToModel()
	if err := h.agents.Create(c.Request.Context(), &a); err != nil {
		builder.Fail(err)
		return
	}
	c.Header("Location", "/api/agents/"+a.ID)
	builder.SuccessCreated(a)
}

// Update handles PUT /api/agents/:id.
func (h *AgentHandler) Update(c *gin.Context) {
	builder := NewResponseBuilder(c)
	req, err := BindJSON[dto.UpdateAgentRequest](c)
	if err != nil {
		builder.InvalidBody(err)
		return
	}
	a, err := h.agents.Update(c.Request.Context(), c.Param("id"), req.Apply)
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(a)
}

// Delete handles DELETE /api/agents/:id.
func (h *AgentHandler) Delete(c *gin.Context) {
	builder := NewResponseBuilder(c)
	if err := h.agents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		builder.Fail(err)
		return
	}
	builder.Message(i18n.SuccessKeyDeleted)
}
