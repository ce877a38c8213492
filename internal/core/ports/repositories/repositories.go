package repositories

// RepositoryProvider bundles the repository implementations handed to the
// service layer by the composition root.
type RepositoryProvider struct {
	UserRepo      UserRepositoryFacade
	StatementRepo StatementRepositoryFacade
}
