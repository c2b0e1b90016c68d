package api

import (
	"context"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler  projectHandler
	blogPostHandler blogPostHandler
	contactHandler  contactHandler
	messageHandler  messageHandler
	authHandler     authHandler
	healthHandler   healthHandler
}

type ProjectStore interface {
	ListActive(ctx context.Context) ([]models.Project, error)
	ListActivePage(ctx context.Context, page models.PageRequest) ([]models.Project, int64, error)
	ListAll(ctx context.Context) ([]models.Project, error)
	FindActive(ctx context.Context, id uint) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Replace(ctx context.Context, id uint, project *models.Project) error
	Delete(ctx context.Context, id uint) error
}

type BlogPostStore interface {
	ListActive(ctx context.Context, category string) ([]models.BlogPost, error)
	FindActive(ctx context.Context, id uint) (*models.BlogPost, error)
	ListPage(ctx context.Context, page models.PageRequest) ([]models.BlogPost, int64, error)
	FindByID(ctx context.Context, id uint) (*models.BlogPost, error)
	Create(ctx context.Context, post *models.BlogPost) error
	Replace(ctx context.Context, id uint, post *models.BlogPost) error
	Delete(ctx context.Context, id uint) error
}

type ContactMessageStore interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	ListPage(ctx context.Context, page models.PageRequest) ([]models.ContactMessage, int64, error)
}

// AuthService is the part of auth.Service the HTTP layer calls.
type AuthService interface {
	Setup(ctx context.Context, username, password, setupKey string) error
	Login(ctx context.Context, username, password string) (auth.Session, error)
	RequestRecovery(ctx context.Context, username, recoveryKey string) (auth.IssuedToken, error)
	ResetPassword(ctx context.Context, recoveryToken, newPassword string) error
	UpdateProfile(ctx context.Context, id models.Identity, newUsername, newPassword string) (auth.Session, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies is everything the router needs. Notifier may be nil.
type Dependencies struct {
	Projects  ProjectStore
	BlogPosts BlogPostStore
	Messages  ContactMessageStore
	Auth      AuthService
	Verifier  auth.CredentialVerifier
	Notifier  services.Notifier
	Health    HealthChecker
}
