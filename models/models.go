package models

import "time"

type (
	TenderStatus     string // lifecycle status of a tender
	StageStatus      string // status of one pipeline stage
	InsightType      string // category of an extracted insight
	DocumentCategory string // visibility scope of a document
)

const (
	StatusDiscovery     TenderStatus = "discovery"
	StatusQualification TenderStatus = "qualification"
	StatusActive        TenderStatus = "active"
	StatusSubmitted     TenderStatus = "submitted"
	StatusWon           TenderStatus = "won"
	StatusLost          TenderStatus = "lost"

	StagePending    StageStatus = "pending"
	StageInProgress StageStatus = "in_progress"
	StageComplete   StageStatus = "complete"

	InsightRequirement InsightType = "requirement"
	InsightCompliance  InsightType = "compliance"
	InsightRisk        InsightType = "risk"
	InsightDeadline    InsightType = "deadline"

	// Tender-specific documents belong to one tender; supporting and
	// company documents are visible across all tenders.
	CategoryTender     DocumentCategory = "tender"
	CategorySupporting DocumentCategory = "supporting"
	CategoryCompany    DocumentCategory = "company"
)

// ValidTenderStatus reports whether s is one of the known lifecycle values.
// Any transition between known values is allowed; only unknown values are
// rejected at the API boundary.
func ValidTenderStatus(s TenderStatus) bool {
	switch s {
	case StatusDiscovery, StatusQualification, StatusActive, StatusSubmitted, StatusWon, StatusLost:
		return true
	}
	return false
}

// ValidStageStatus reports whether s is one of the three stage states.
func ValidStageStatus(s StageStatus) bool {
	switch s {
	case StagePending, StageInProgress, StageComplete:
		return true
	}
	return false
}

// ValidInsightType reports whether t is one of the four insight categories.
func ValidInsightType(t InsightType) bool {
	switch t {
	case InsightRequirement, InsightCompliance, InsightRisk, InsightDeadline:
		return true
	}
	return false
}

// ValidDocumentCategory reports whether c is a known document category.
func ValidDocumentCategory(c DocumentCategory) bool {
	switch c {
	case CategoryTender, CategorySupporting, CategoryCompany:
		return true
	}
	return false
}

// Tender is the aggregate root: scores, status and the owned stage,
// document, insight and team-member records.
type Tender struct {
	ID              string       `db:"id" json:"id"`
	Title           string       `db:"title" json:"title" validate:"required,max=200"`
	Status          TenderStatus `db:"status" json:"status"`
	TechnicalScore  int          `db:"technical_score" json:"technicalScore"`
	CommercialScore int          `db:"commercial_score" json:"commercialScore"`
	ComplianceScore int          `db:"compliance_score" json:"complianceScore"`
	RiskScore       int          `db:"risk_score" json:"riskScore"`
	WinProbability  int          `db:"win_probability" json:"winProbability"`
	Value           float64      `db:"value" json:"value"`
	Deadline        *time.Time   `db:"deadline" json:"deadline,omitempty"`
	LastScoredAt    *time.Time   `db:"last_scored_at" json:"lastScoredAt,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updatedAt"`
}

// Document is a text-bearing artifact, either owned by one tender or
// globally visible (supporting/company categories, TenderID nil).
type Document struct {
	ID        string           `db:"id" json:"id"`
	TenderID  *string          `db:"tender_id" json:"tenderId,omitempty"`
	Filename  string           `db:"filename" json:"filename" validate:"required"`
	Text      string           `db:"text" json:"text"`
	Category  DocumentCategory `db:"category" json:"category"`
	DocType   string           `db:"doc_type" json:"docType"`
	Summary   string           `db:"summary" json:"summary"`
	SizeBytes int64            `db:"size_bytes" json:"sizeBytes"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}

// Insight is an extracted or authored fact, immutable once created.
type Insight struct {
	ID        string      `db:"id" json:"id"`
	TenderID  string      `db:"tender_id" json:"tenderId"`
	Type      InsightType `db:"type" json:"type"`
	Content   string      `db:"content" json:"content"`
	Citation  string      `db:"citation" json:"citation,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// Stage is one step in a tender's proposal pipeline. Order values form a
// caller-defined ordering and need not be contiguous.
type Stage struct {
	ID        string      `db:"id" json:"id"`
	TenderID  string      `db:"tender_id" json:"tenderId"`
	Name      string      `db:"name" json:"name" validate:"required,max=100"`
	Order     int         `db:"stage_order" json:"order"`
	Status    StageStatus `db:"status" json:"status"`
	DueDate   *time.Time  `db:"due_date" json:"dueDate,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// TeamMember is an assignment of a person to a tender.
type TeamMember struct {
	ID        string    `db:"id" json:"id"`
	TenderID  string    `db:"tender_id" json:"tenderId"`
	Name      string    `db:"name" json:"name" validate:"required,max=100"`
	Role      string    `db:"role" json:"role"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// DefaultStages is the stage set materialized when a tender is created.
func DefaultStages() []Stage {
	return []Stage{
		{Name: "Document Review", Order: 1, Status: StagePending},
		{Name: "Proposal Draft", Order: 2, Status: StagePending},
		{Name: "Internal Review", Order: 3, Status: StagePending},
		{Name: "Submission", Order: 4, Status: StagePending},
	}
}
