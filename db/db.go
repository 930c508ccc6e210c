package db

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tenderbolt/models"
)

// psql builds queries with $N placeholders for lib/pq.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

// Tender

func (s *Storage) CreateTender(ctx context.Context, t *models.Tender) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = models.StatusDiscovery
	}
	query := `
        INSERT INTO tender (id, title, status, value, deadline)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING technical_score, commercial_score, compliance_score, risk_score,
                  win_probability, created_at, updated_at`
	return s.db.QueryRowContext(ctx, query, t.ID, t.Title, t.Status, t.Value, t.Deadline).
		Scan(&t.TechnicalScore, &t.CommercialScore, &t.ComplianceScore, &t.RiskScore,
			&t.WinProbability, &t.CreatedAt, &t.UpdatedAt)
}

func (s *Storage) GetTender(ctx context.Context, id string) (*models.Tender, error) {
	t := &models.Tender{}
	query := `SELECT * FROM tender WHERE id=$1`
	err := s.db.GetContext(ctx, t, query, id)
	return t, err
}

func (s *Storage) GetTenders(ctx context.Context, status models.TenderStatus, limit, offset int) ([]models.Tender, error) {
	b := psql.Select("*").From("tender").OrderBy("created_at DESC").
		Limit(uint64(limit)).Offset(uint64(offset))
	if status != "" {
		b = b.Where(sq.Eq{"status": status})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build tender query: %w", err)
	}
	tenders := []models.Tender{}
	if err := s.db.SelectContext(ctx, &tenders, query, args...); err != nil {
		return nil, err
	}
	return tenders, nil
}

// UpdateTenderFields applies a partial update. fields maps column names to
// new values; callers validate values before this point.
func (s *Storage) UpdateTenderFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()
	query, args, err := psql.Update("tender").SetMap(fields).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build tender update: %w", err)
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// UpdateTenderScores overwrites the four sub-scores and the derived win
// probability, stamping last_scored_at.
func (s *Storage) UpdateTenderScores(ctx context.Context, id string, technical, commercial, compliance, risk, winProbability int) error {
	query := `
        UPDATE tender
        SET technical_score=$1, commercial_score=$2, compliance_score=$3, risk_score=$4,
            win_probability=$5, last_scored_at=NOW(), updated_at=NOW()
        WHERE id=$6`
	_, err := s.db.ExecContext(ctx, query, technical, commercial, compliance, risk, winProbability, id)
	return err
}

// DeleteTender removes the tender; stages, documents, insights and team
// members go with it via ON DELETE CASCADE.
func (s *Storage) DeleteTender(ctx context.Context, id string) error {
	query := `DELETE FROM tender WHERE id=$1`
	_, err := s.db.ExecContext(ctx, query, id)
	return err
}

// Document

func (s *Storage) CreateDocument(ctx context.Context, d *models.Document) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Category == "" {
		d.Category = models.CategoryTender
	}
	query := `
        INSERT INTO document (id, tender_id, filename, text, category, doc_type, summary, size_bytes)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at`
	return s.db.QueryRowContext(ctx, query,
		d.ID, d.TenderID, d.Filename, d.Text, d.Category, d.DocType, d.Summary, d.SizeBytes).
		Scan(&d.CreatedAt)
}

func (s *Storage) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	d := &models.Document{}
	query := `SELECT * FROM document WHERE id=$1`
	err := s.db.GetContext(ctx, d, query, id)
	return d, err
}

// GetDocuments returns the tender's own documents plus globally visible
// supporting/company documents. With an empty tenderID only the global
// documents are returned.
func (s *Storage) GetDocuments(ctx context.Context, tenderID string) ([]models.Document, error) {
	docs := []models.Document{}
	if tenderID == "" {
		query := `SELECT * FROM document WHERE tender_id IS NULL ORDER BY created_at DESC`
		err := s.db.SelectContext(ctx, &docs, query)
		return docs, err
	}
	query := `
        SELECT * FROM document
        WHERE tender_id = $1 OR tender_id IS NULL
        ORDER BY created_at DESC`
	err := s.db.SelectContext(ctx, &docs, query, tenderID)
	return docs, err
}

// UpdateDocumentSummary backfills the summary, the one permitted mutation
// after a document is created.
func (s *Storage) UpdateDocumentSummary(ctx context.Context, id, summary string) error {
	query := `UPDATE document SET summary=$1 WHERE id=$2`
	_, err := s.db.ExecContext(ctx, query, summary, id)
	return err
}

func (s *Storage) DeleteDocument(ctx context.Context, id string) error {
	query := `DELETE FROM document WHERE id=$1`
	_, err := s.db.ExecContext(ctx, query, id)
	return err
}

// Insight

// CreateInsights persists one row per insight. Writes are independent:
// a failure stops the batch and reports how many rows made it, but rows
// already written are not rolled back.
func (s *Storage) CreateInsights(ctx context.Context, insights []models.Insight) (int, error) {
	query := `
        INSERT INTO insight (id, tender_id, type, content, citation)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at`
	for i := range insights {
		ins := &insights[i]
		if ins.ID == "" {
			ins.ID = uuid.NewString()
		}
		err := s.db.QueryRowContext(ctx, query,
			ins.ID, ins.TenderID, ins.Type, ins.Content, ins.Citation).
			Scan(&ins.CreatedAt)
		if err != nil {
			return i, fmt.Errorf("insert insight %d of %d: %w", i+1, len(insights), err)
		}
	}
	return len(insights), nil
}

// GetInsights lists a tender's insights newest first, optionally filtered
// by type.
func (s *Storage) GetInsights(ctx context.Context, tenderID string, typeFilter models.InsightType) ([]models.Insight, error) {
	b := psql.Select("*").From("insight").
		Where(sq.Eq{"tender_id": tenderID}).
		OrderBy("created_at DESC")
	if typeFilter != "" {
		b = b.Where(sq.Eq{"type": typeFilter})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insight query: %w", err)
	}
	insights := []models.Insight{}
	if err := s.db.SelectContext(ctx, &insights, query, args...); err != nil {
		return nil, err
	}
	return insights, nil
}

// Stage

func (s *Storage) CreateStage(ctx context.Context, st *models.Stage) error {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.Status == "" {
		st.Status = models.StagePending
	}
	query := `
        INSERT INTO stage (id, tender_id, name, stage_order, status, due_date)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`
	return s.db.QueryRowContext(ctx, query,
		st.ID, st.TenderID, st.Name, st.Order, st.Status, st.DueDate).
		Scan(&st.CreatedAt)
}

func (s *Storage) GetStage(ctx context.Context, id string) (*models.Stage, error) {
	st := &models.Stage{}
	query := `SELECT * FROM stage WHERE id=$1`
	err := s.db.GetContext(ctx, st, query, id)
	return st, err
}

func (s *Storage) GetStages(ctx context.Context, tenderID string) ([]models.Stage, error) {
	stages := []models.Stage{}
	query := `SELECT * FROM stage WHERE tender_id=$1 ORDER BY stage_order ASC`
	err := s.db.SelectContext(ctx, &stages, query, tenderID)
	return stages, err
}

func (s *Storage) UpdateStage(ctx context.Context, st *models.Stage) error {
	query := `
        UPDATE stage
        SET name=$1, stage_order=$2, status=$3, due_date=$4
        WHERE id=$5`
	_, err := s.db.ExecContext(ctx, query, st.Name, st.Order, st.Status, st.DueDate, st.ID)
	return err
}

// ReorderStages applies {id, order} pairs one statement at a time; pairs
// whose id does not belong to tenderID are ignored.
func (s *Storage) ReorderStages(ctx context.Context, tenderID string, orders map[string]int) error {
	query := `UPDATE stage SET stage_order=$1 WHERE id=$2 AND tender_id=$3`
	for id, order := range orders {
		if _, err := s.db.ExecContext(ctx, query, order, id, tenderID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) DeleteStage(ctx context.Context, id string) error {
	query := `DELETE FROM stage WHERE id=$1`
	_, err := s.db.ExecContext(ctx, query, id)
	return err
}

// TeamMember

func (s *Storage) CreateTeamMember(ctx context.Context, m *models.TeamMember) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	query := `
        INSERT INTO team_member (id, tender_id, name, role, email)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at`
	return s.db.QueryRowContext(ctx, query, m.ID, m.TenderID, m.Name, m.Role, m.Email).
		Scan(&m.CreatedAt)
}

func (s *Storage) GetTeamMembers(ctx context.Context, tenderID string) ([]models.TeamMember, error) {
	members := []models.TeamMember{}
	query := `SELECT * FROM team_member WHERE tender_id=$1 ORDER BY created_at ASC`
	err := s.db.SelectContext(ctx, &members, query, tenderID)
	return members, err
}

func (s *Storage) DeleteTeamMember(ctx context.Context, id string) error {
	query := `DELETE FROM team_member WHERE id=$1`
	_, err := s.db.ExecContext(ctx, query, id)
	return err
}
