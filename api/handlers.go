package api

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(s dependencies) *routeHandlers {
	return &routeHandlers{
		publicHandler: newPublicHandler(s.backend, s.cache, s.mailer, s.cv, s.startupTime, s.backendName),
		loginHandler:  newLoginHandler(s.gate, s.workspaces),
		adminHandler:  newAdminHandler(s.workspaces),
	}
}
