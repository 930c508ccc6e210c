package handlers

import (
	"context"

	"tenderbolt/models"
)

type StorageInterface interface {
	CreateTender(ctx context.Context, t *models.Tender) error
	GetTender(ctx context.Context, id string) (*models.Tender, error)
	GetTenders(ctx context.Context, status models.TenderStatus, limit, offset int) ([]models.Tender, error)
	UpdateTenderFields(ctx context.Context, id string, fields map[string]any) error
	UpdateTenderScores(ctx context.Context, id string, technical, commercial, compliance, risk, winProbability int) error
	DeleteTender(ctx context.Context, id string) error

	CreateDocument(ctx context.Context, d *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	GetDocuments(ctx context.Context, tenderID string) ([]models.Document, error)
	UpdateDocumentSummary(ctx context.Context, id, summary string) error
	DeleteDocument(ctx context.Context, id string) error

	CreateInsights(ctx context.Context, insights []models.Insight) (int, error)
	GetInsights(ctx context.Context, tenderID string, typeFilter models.InsightType) ([]models.Insight, error)

	CreateStage(ctx context.Context, st *models.Stage) error
	GetStage(ctx context.Context, id string) (*models.Stage, error)
	GetStages(ctx context.Context, tenderID string) ([]models.Stage, error)
	UpdateStage(ctx context.Context, st *models.Stage) error
	ReorderStages(ctx context.Context, tenderID string, orders map[string]int) error
	DeleteStage(ctx context.Context, id string) error

	CreateTeamMember(ctx context.Context, m *models.TeamMember) error
	GetTeamMembers(ctx context.Context, tenderID string) ([]models.TeamMember, error)
	DeleteTeamMember(ctx context.Context, id string) error
}
