package services

import (
	portsrepo "github.com/finledger/finledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finledger/finledger_backend/internal/core/ports/services"
	"github.com/finledger/finledger_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// User service first since the statement service depends on it for
	// existence checks.
	container.User = NewUserService(repos.UserRepo)
	container.Statement = NewStatementService(repos.StatementRepo, container.User)
	container.Token = NewTokenService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.UserSvcFacade      = (*userService)(nil)
	_ portssvc.StatementSvcFacade = (*statementService)(nil)
)
