package api

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, metrics *Metrics) *routeHandlers {
	return &routeHandlers{
		projectHandler:  newProjectHandler(deps.Projects),
		blogPostHandler: newBlogPostHandler(deps.BlogPosts),
		contactHandler:  newContactHandler(deps.Messages, deps.Notifier, metrics),
		messageHandler:  newMessageHandler(deps.Messages),
		authHandler:     newAuthHandler(deps.Auth),
		healthHandler:   newHealthHandler(deps.Health),
	}
}
