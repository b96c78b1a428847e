package api

import (
	"time"

	"github.com/rpupo63/portfolio-site/auth"
	"github.com/rpupo63/portfolio-site/content"
	"github.com/rpupo63/portfolio-site/editor"
	"github.com/rpupo63/portfolio-site/registry"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	publicHandler publicHandler
	loginHandler  loginHandler
	adminHandler  adminHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type pageViewRequest struct {
	PagePath string `json:"page_path"`
	Referrer string `json:"referrer"`
}

type healthResponse struct {
	Status      string    `json:"status"`
	StartupTime time.Time `json:"startup_time"`
	Uptime      string    `json:"uptime"`
	Backend     string    `json:"backend"`
}

type homePage struct {
	Site              content.Site
	Contact           string
	ProjectsEmpty     string
	TechnologiesEmpty string
}

type loginPage struct {
	Email string
	Error string
}

type adminPage struct {
	User  auth.User
	View  editor.View
	Modal *modal
}

// modal is the open add/edit form.
type modal struct {
	Title     string
	Resource  registry.Resource
	Draft     registry.Record
	Uploading bool
}
