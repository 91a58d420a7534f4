package domain

import "time"

// ProjectStatus represents the lifecycle state of a funding request.
type ProjectStatus string

const (
	StatusDraft              ProjectStatus = "draft"
	StatusPending            ProjectStatus = "pending"
	StatusDocumentsRequested ProjectStatus = "documents_requested"
	StatusValidated          ProjectStatus = "validated"
	StatusApproved           ProjectStatus = "approved"
	StatusRejected           ProjectStatus = "rejected"
)

// AllStatuses lists every valid lifecycle state.
var AllStatuses = []ProjectStatus{
	StatusDraft,
	StatusPending,
	StatusDocumentsRequested,
	StatusValidated,
	StatusApproved,
	StatusRejected,
}

// IsValidStatus reports whether s is one of the six defined states.
func IsValidStatus(s ProjectStatus) bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Operation identifies a lifecycle transition on a project.
type Operation string

const (
	OpSubmit           Operation = "submit"
	OpValidate         Operation = "validate"
	OpApprove          Operation = "approve"
	OpReject           Operation = "reject"
	OpRequestDocuments Operation = "request_documents"
)

// TransitionRule declares, for one operation, which roles may perform it,
// which current states allow it, and the resulting state.
type TransitionRule struct {
	Roles []Role
	From  []ProjectStatus
	To    ProjectStatus
}

// transitionRules is the single source of truth for the lifecycle state
// machine. Every status change goes through this table; there are no ad hoc
// per-endpoint checks.
var transitionRules = map[Operation]TransitionRule{
	OpSubmit: {
		Roles: []Role{RoleCitizen, RoleAdmin},
		From:  []ProjectStatus{StatusDraft, StatusDocumentsRequested},
		To:    StatusPending,
	},
	OpValidate: {
		Roles: []Role{RoleOfficial, RoleAdmin},
		From:  []ProjectStatus{StatusPending},
		To:    StatusValidated,
	},
	OpApprove: {
		Roles: []Role{RoleAdmin},
		From:  []ProjectStatus{StatusValidated},
		To:    StatusApproved,
	},
	OpReject: {
		Roles: []Role{RoleOfficial, RoleAdmin},
		From:  []ProjectStatus{StatusPending, StatusValidated},
		To:    StatusRejected,
	},
	OpRequestDocuments: {
		Roles: []Role{RoleOfficial, RoleAdmin},
		From:  []ProjectStatus{StatusPending},
		To:    StatusDocumentsRequested,
	},
}

// RuleFor returns the transition rule for op. The bool is false for unknown
// operations.
func RuleFor(op Operation) (TransitionRule, bool) {
	r, ok := transitionRules[op]
	return r, ok
}

// AllowsRole reports whether role may perform the operation.
func (r TransitionRule) AllowsRole(role Role) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// AllowsFrom reports whether the operation is valid from the given state.
func (r TransitionRule) AllowsFrom(s ProjectStatus) bool {
	for _, allowed := range r.From {
		if allowed == s {
			return true
		}
	}
	return false
}

// ProjectDocument is a file attached to a project.
type ProjectDocument struct {
	ID         string    `json:"id" bson:"id"`
	Name       string    `json:"name" bson:"name"`
	FileURL    string    `json:"file_url" bson:"file_url"`
	FileType   string    `json:"file_type" bson:"file_type"`
	FileSize   int64     `json:"file_size" bson:"file_size"`
	UploadedAt time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

// Project is the core aggregate root: one funding request owned by one citizen.
type Project struct {
	ID                     string             `json:"id" bson:"_id"`
	UserID                 string             `json:"user_id" bson:"user_id"`
	Title                  string             `json:"title" bson:"title"`
	Description            string             `json:"description" bson:"description"`
	Category               string             `json:"category" bson:"category"`
	FundingRequested       float64            `json:"funding_requested" bson:"funding_requested"`
	StartDate              string             `json:"start_date" bson:"start_date"`
	DurationMonths         int                `json:"duration_months" bson:"duration_months"`
	Objectives             []string           `json:"objectives" bson:"objectives"`
	BudgetBreakdown        map[string]float64 `json:"budget_breakdown" bson:"budget_breakdown"`
	Location               string             `json:"location,omitempty" bson:"location,omitempty"`
	Status                 ProjectStatus      `json:"status" bson:"status"`
	Documents              []ProjectDocument  `json:"documents" bson:"documents"`
	RejectionReason        string             `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	DocumentsRequestReason string             `json:"documents_request_reason,omitempty" bson:"documents_request_reason,omitempty"`
	AssignedOfficialID     string             `json:"assigned_official_id,omitempty" bson:"assigned_official_id,omitempty"`
	CreatedAt              time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at" bson:"updated_at"`
	SubmittedAt            *time.Time         `json:"submitted_at,omitempty" bson:"submitted_at,omitempty"`
	ValidatedAt            *time.Time         `json:"validated_at,omitempty" bson:"validated_at,omitempty"`
	ApprovedAt             *time.Time         `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
}

// officialVisibleStatuses are the states an official may inspect without being
// assigned to the project.
var officialVisibleStatuses = []ProjectStatus{
	StatusPending,
	StatusDocumentsRequested,
	StatusValidated,
}

// CanRead reports whether an actor may read this project:
// citizens see their own, officials see reviewable or assigned projects,
// admins see everything.
func (p *Project) CanRead(role Role, userID string) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleOfficial:
		if p.AssignedOfficialID == userID {
			return true
		}
		for _, s := range officialVisibleStatuses {
			if p.Status == s {
				return true
			}
		}
		return false
	default:
		return p.UserID == userID
	}
}

// Categories is the fixed list of project categories accepted by the platform.
var Categories = []string{
	"Agriculture",
	"Éducation",
	"Santé",
	"Commerce",
	"Artisanat",
	"Technologie",
	"Environnement",
	"IA",
	"IT",
	"Mode",
	"Événementiel",
	"Santé & Bien-être",
	"MLM (Marketing relationnel)",
	"Transport",
	"Retail",
	"Tourisme",
	"Restauration",
	"BTP/Construction",
	"Services",
	"Culture & Arts",
	"Sport",
	"Énergie",
	"Finance/Fintech",
	"Immobilier",
	"Média/Communication",
	"Autre",
}

// IsValidCategory reports whether c is a known category.
func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
