package app

import (
	"github.com/guttosm/agentflow/internal/repository"
	"github.com/guttosm/agentflow/internal/service"
)

// ServiceComponents holds the record services.
type ServiceComponents struct {
	Workflows service.WorkflowService
	Agents    service.AgentService
}

// InitializeServices creates the record services over their namespace
// caches. Without a database the services report
// service.ErrRepositoryNotConfigured.
func InitializeServices(db *DatabaseComponents, workflows, agents *NamespaceCache) *ServiceComponents {
	var (
		workflowRepo repository.WorkflowRepositoryInterface
		agentRepo    repository.AgentRepositoryInterface
	)
	if db != nil {
		workflowRepo = db.Workflows
		agentRepo = db.Agents
	}

	return &ServiceComponents{
		Workflows: service.NewWorkflowService(workflowRepo, workflows.Tiered, workflows.Publisher(), 0),
		Agents:    service.NewAgentService(agentRepo, agents.Tiered, agents.Publisher(), 0),
	}
}
