package repositories

// RepositoryProvider bundles the repository implementations handed to the
// service container at startup.
type RepositoryProvider struct {
	UserRepo        UserRepositoryFacade
	DoctorRepo      DoctorRepositoryFacade
	AppointmentRepo AppointmentRepositoryFacade
	ReportingRepo   ReportingRepository
}
