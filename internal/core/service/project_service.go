package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/terangafund/citizen-projects/internal/api/metrics"
	"github.com/terangafund/citizen-projects/internal/core/domain"
	"github.com/terangafund/citizen-projects/internal/core/ports"
)

const (
	maxDocumentBytes    = 5 * 1024 * 1024
	defaultHistoryLimit = 100
)

// allowedDocumentTypes are the content types accepted for project documents.
var allowedDocumentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
}

// ProjectService is the lifecycle engine. Every status change goes through
// the domain transition table, produces exactly one history entry, and
// triggers the notifications declared for that operation.
type ProjectService struct {
	projects     ports.ProjectRepository
	users        ports.UserRepository
	history      ports.HistoryRepository
	notifier     ports.Notifier
	attachments  ports.AttachmentStore
	historyLimit int
	logger       zerolog.Logger
}

func NewProjectService(
	projects ports.ProjectRepository,
	users ports.UserRepository,
	history ports.HistoryRepository,
	notifier ports.Notifier,
	attachments ports.AttachmentStore,
	historyLimit int,
	logger zerolog.Logger,
) *ProjectService {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &ProjectService{
		projects:     projects,
		users:        users,
		history:      history,
		notifier:     notifier,
		attachments:  attachments,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// Create opens a new funding request in draft state.
func (s *ProjectService) Create(ctx context.Context, actor ports.Actor, in ports.CreateProjectInput) (*domain.Project, error) {
	if actor.Role != domain.RoleCitizen && actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("create project: %w", domain.ErrForbidden)
	}
	if in.Title == "" || in.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", domain.ErrValidation)
	}
	if !domain.IsValidCategory(in.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, in.Category)
	}
	if in.FundingRequested <= 0 {
		return nil, fmt.Errorf("%w: funding_requested must be positive", domain.ErrValidation)
	}

	now := time.Now().UTC()
	p := &domain.Project{
		ID:               uuid.NewString(),
		UserID:           actor.ID,
		Title:            in.Title,
		Description:      in.Description,
		Category:         in.Category,
		FundingRequested: in.FundingRequested,
		StartDate:        in.StartDate,
		DurationMonths:   in.DurationMonths,
		Objectives:       in.Objectives,
		BudgetBreakdown:  in.BudgetBreakdown,
		Location:         in.Location,
		Status:           domain.StatusDraft,
		Documents:        []domain.ProjectDocument{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if p.Objectives == nil {
		p.Objectives = []string{}
	}
	if p.BudgetBreakdown == nil {
		p.BudgetBreakdown = map[string]float64{}
	}

	if err := s.projects.Insert(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("user_id", actor.ID).Msg("failed to create project")
		return nil, err
	}

	s.record(ctx, p.ID, actor, "Projet créé", nil, &p.Status)
	metrics.ProjectsCreatedTotal.WithLabelValues(p.Category).Inc()

	s.logger.Info().Str("project_id", p.ID).Str("user_id", actor.ID).Msg("project created")
	return p, nil
}

// Get returns one project, enforcing role visibility.
func (s *ProjectService) Get(ctx context.Context, actor ports.Actor, id string) (*domain.Project, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanRead(actor.Role, actor.ID) {
		return nil, fmt.Errorf("get project: %w", domain.ErrForbidden)
	}
	return p, nil
}

// List returns projects visible to the actor, newest first, with optional
// status/category/search filters layered on top of the role visibility.
func (s *ProjectService) List(ctx context.Context, actor ports.Actor, in ports.ListProjectsInput) ([]*domain.Project, error) {
	if in.Status != "" && !domain.IsValidStatus(in.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, in.Status)
	}

	f := ports.ListProjectsFilter{
		Status:   in.Status,
		Category: in.Category,
		Search:   in.Search,
	}
	switch actor.Role {
	case domain.RoleAdmin:
		// no implicit filter
	case domain.RoleOfficial:
		f.OfficialID = actor.ID
		f.VisibleStatuses = []domain.ProjectStatus{
			domain.StatusPending,
			domain.StatusDocumentsRequested,
			domain.StatusValidated,
		}
	default:
		f.OwnerID = actor.ID
	}

	return s.projects.List(ctx, f)
}

// Update edits project attributes. Citizens may edit their own projects only
// in draft or documents_requested; admins may edit any project, including its
// status. A history entry is written iff the status changed.
func (s *ProjectService) Update(ctx context.Context, actor ports.Actor, id string, in ports.UpdateProjectInput) (*domain.Project, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case domain.RoleAdmin:
		// unrestricted
	case domain.RoleCitizen:
		if p.UserID != actor.ID {
			return nil, fmt.Errorf("update project: %w", domain.ErrForbidden)
		}
		if p.Status != domain.StatusDraft && p.Status != domain.StatusDocumentsRequested {
			return nil, fmt.Errorf("update from %s: %w", p.Status, domain.ErrInvalidTransition)
		}
		if in.Status != nil {
			return nil, fmt.Errorf("update project status: %w", domain.ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("update project: %w", domain.ErrForbidden)
	}

	if in.Category != nil && !domain.IsValidCategory(*in.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, *in.Category)
	}
	if in.Status != nil && !domain.IsValidStatus(*in.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *in.Status)
	}

	now := time.Now().UTC()
	patch := ports.ProjectPatch{
		Title:            in.Title,
		Description:      in.Description,
		Category:         in.Category,
		FundingRequested: in.FundingRequested,
		StartDate:        in.StartDate,
		DurationMonths:   in.DurationMonths,
		Objectives:       in.Objectives,
		BudgetBreakdown:  in.BudgetBreakdown,
		Location:         in.Location,
		Status:           in.Status,
	}
	if err := s.projects.Update(ctx, id, patch, now); err != nil {
		return nil, err
	}

	if in.Status != nil && *in.Status != p.Status {
		oldStatus := p.Status
		s.record(ctx, id, actor,
			fmt.Sprintf("Statut modifié: %s → %s", oldStatus, *in.Status),
			&oldStatus, in.Status)
	}

	return s.projects.FindByID(ctx, id)
}

// Submit moves a project from draft/documents_requested to pending and
// notifies every official and admin.
func (s *ProjectService) Submit(ctx context.Context, actor ports.Actor, id string) error {
	p, rule, err := s.beginTransition(ctx, actor, id, domain.OpSubmit)
	if err != nil {
		return err
	}
	if p.UserID != actor.ID {
		return fmt.Errorf("submit project: %w", domain.ErrForbidden)
	}

	now := time.Now().UTC()
	ch := ports.StatusChange{
		From:        rule.From,
		To:          rule.To,
		SubmittedAt: &now,
		UpdatedAt:   now,
	}
	if err := s.projects.ApplyStatusChange(ctx, id, ch); err != nil {
		return err
	}
	oldStatus := p.Status
	s.record(ctx, id, actor, "Projet soumis pour validation", &oldStatus, &rule.To)
	metrics.ProjectTransitionsTotal.WithLabelValues(string(domain.OpSubmit), string(rule.To)).Inc()

	reviewers, err := s.users.ListByRoles(ctx, []domain.Role{domain.RoleOfficial, domain.RoleAdmin})
	if err != nil {
		s.logger.Warn().Err(err).Str("project_id", id).Msg("could not list reviewers for submission notice")
		return nil
	}
	for _, reviewer := range reviewers {
		s.notify(ctx, reviewer.ID, domain.NotifProjectSubmitted,
			"Nouveau projet soumis",
			fmt.Sprintf("Un nouveau projet '%s' a été soumis pour validation.", p.Title),
			map[string]any{"project_id": id})
	}
	return nil
}

// Validate moves a pending project to validated and assigns the acting
// official.
func (s *ProjectService) Validate(ctx context.Context, actor ports.Actor, id string) error {
	p, rule, err := s.beginTransition(ctx, actor, id, domain.OpValidate)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	ch := ports.StatusChange{
		From:               rule.From,
		To:                 rule.To,
		ValidatedAt:        &now,
		AssignedOfficialID: &actor.ID,
		UpdatedAt:          now,
	}
	if err := s.projects.ApplyStatusChange(ctx, id, ch); err != nil {
		return err
	}
	oldStatus := p.Status
	s.record(ctx, id, actor, "Projet validé", &oldStatus, &rule.To)
	metrics.ProjectTransitionsTotal.WithLabelValues(string(domain.OpValidate), string(rule.To)).Inc()

	s.notify(ctx, p.UserID, domain.NotifProjectValidated,
		"Projet validé",
		fmt.Sprintf("Votre projet '%s' a été validé par un fonctionnaire.", p.Title),
		map[string]any{"project_id": id})
	return nil
}

// Approve moves a validated project to approved (terminal success).
func (s *ProjectService) Approve(ctx context.Context, actor ports.Actor, id string) error {
	p, rule, err := s.beginTransition(ctx, actor, id, domain.OpApprove)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	ch := ports.StatusChange{
		From:       rule.From,
		To:         rule.To,
		ApprovedAt: &now,
		UpdatedAt:  now,
	}
	if err := s.projects.ApplyStatusChange(ctx, id, ch); err != nil {
		return err
	}
	oldStatus := p.Status
	s.record(ctx, id, actor, "Projet approuvé pour financement", &oldStatus, &rule.To)
	metrics.ProjectTransitionsTotal.WithLabelValues(string(domain.OpApprove), string(rule.To)).Inc()

	s.notify(ctx, p.UserID, domain.NotifProjectApproved,
		"Projet approuvé !",
		fmt.Sprintf("Félicitations ! Votre projet '%s' a été approuvé pour financement.", p.Title),
		map[string]any{"project_id": id})
	return nil
}

// Reject moves a pending or validated project to rejected (terminal failure).
// A non-empty reason is required and recorded on the project.
func (s *ProjectService) Reject(ctx context.Context, actor ports.Actor, id, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: rejection reason is required", domain.ErrValidation)
	}
	p, rule, err := s.beginTransition(ctx, actor, id, domain.OpReject)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	ch := ports.StatusChange{
		From:            rule.From,
		To:              rule.To,
		RejectionReason: &reason,
		UpdatedAt:       now,
	}
	if err := s.projects.ApplyStatusChange(ctx, id, ch); err != nil {
		return err
	}
	oldStatus := p.Status
	s.record(ctx, id, actor, "Projet rejeté: "+reason, &oldStatus, &rule.To)
	metrics.ProjectTransitionsTotal.WithLabelValues(string(domain.OpReject), string(rule.To)).Inc()

	s.notify(ctx, p.UserID, domain.NotifProjectRejected,
		"Projet rejeté",
		fmt.Sprintf("Votre projet '%s' a été rejeté. Raison: %s", p.Title, reason),
		map[string]any{"project_id": id, "reason": reason})
	return nil
}

// RequestDocuments sends a pending project back to the owner for additional
// documents and assigns the acting official.
func (s *ProjectService) RequestDocuments(ctx context.Context, actor ports.Actor, id, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: documents request reason is required", domain.ErrValidation)
	}
	p, rule, err := s.beginTransition(ctx, actor, id, domain.OpRequestDocuments)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	ch := ports.StatusChange{
		From:                   rule.From,
		To:                     rule.To,
		DocumentsRequestReason: &reason,
		AssignedOfficialID:     &actor.ID,
		UpdatedAt:              now,
	}
	if err := s.projects.ApplyStatusChange(ctx, id, ch); err != nil {
		return err
	}
	oldStatus := p.Status
	s.record(ctx, id, actor, "Documents supplémentaires demandés: "+reason, &oldStatus, &rule.To)
	metrics.ProjectTransitionsTotal.WithLabelValues(string(domain.OpRequestDocuments), string(rule.To)).Inc()

	s.notify(ctx, p.UserID, domain.NotifDocumentsRequested,
		"Documents supplémentaires requis",
		fmt.Sprintf("Des documents supplémentaires sont nécessaires pour votre projet '%s': %s", p.Title, reason),
		map[string]any{"project_id": id, "reason": reason})
	return nil
}

// UploadDocument validates size and content type, stores the file, and
// appends the document to the project.
func (s *ProjectService) UploadDocument(ctx context.Context, actor ports.Actor, id string, up ports.DocumentUpload) (*domain.ProjectDocument, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != actor.ID && actor.Role != domain.RoleOfficial && actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("upload document: %w", domain.ErrForbidden)
	}
	if len(up.Content) > maxDocumentBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrValidation, maxDocumentBytes)
	}
	if _, ok := allowedDocumentTypes[up.ContentType]; !ok {
		return nil, fmt.Errorf("%w: content type %q not accepted", domain.ErrValidation, up.ContentType)
	}

	url, err := s.attachments.Store(ctx, up.Content, up.Filename, up.ContentType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := domain.ProjectDocument{
		ID:         uuid.NewString(),
		Name:       up.Filename,
		FileURL:    url,
		FileType:   up.ContentType,
		FileSize:   int64(len(up.Content)),
		UploadedAt: now,
	}
	if err := s.projects.PushDocument(ctx, id, doc, now); err != nil {
		return nil, err
	}

	s.record(ctx, id, actor, "Document ajouté: "+up.Filename, nil, nil)
	metrics.DocumentUploadsTotal.WithLabelValues(up.ContentType).Inc()
	return &doc, nil
}

// DeleteDocument removes a document by id. Deletions are audited like
// uploads.
func (s *ProjectService) DeleteDocument(ctx context.Context, actor ports.Actor, id, documentID string) error {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.UserID != actor.ID && actor.Role != domain.RoleAdmin {
		return fmt.Errorf("delete document: %w", domain.ErrForbidden)
	}

	var name string
	for _, d := range p.Documents {
		if d.ID == documentID {
			name = d.Name
			break
		}
	}
	if name == "" {
		return fmt.Errorf("delete document: %w", domain.ErrDocumentNotFound)
	}

	if err := s.projects.PullDocument(ctx, id, documentID, time.Now().UTC()); err != nil {
		return err
	}
	s.record(ctx, id, actor, "Document supprimé: "+name, nil, nil)
	return nil
}

// History returns the audit ledger for a project, newest first.
func (s *ProjectService) History(ctx context.Context, actor ports.Actor, id string) ([]*domain.HistoryEntry, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanRead(actor.Role, actor.ID) {
		return nil, fmt.Errorf("project history: %w", domain.ErrForbidden)
	}
	return s.history.ListByProject(ctx, id, s.historyLimit)
}

// beginTransition loads the project and checks role and current state against
// the transition table. The state check here is a fast fail; the write itself
// re-checks it atomically via ApplyStatusChange.
func (s *ProjectService) beginTransition(ctx context.Context, actor ports.Actor, id string, op domain.Operation) (*domain.Project, domain.TransitionRule, error) {
	rule, ok := domain.RuleFor(op)
	if !ok {
		return nil, rule, fmt.Errorf("unknown operation %q: %w", op, domain.ErrValidation)
	}
	if !rule.AllowsRole(actor.Role) {
		return nil, rule, fmt.Errorf("%s as %s: %w", op, actor.Role, domain.ErrForbidden)
	}
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, rule, err
	}
	if !rule.AllowsFrom(p.Status) {
		return nil, rule, fmt.Errorf("%s from %s to %s: %w", op, p.Status, rule.To, domain.ErrInvalidTransition)
	}
	return p, rule, nil
}

// record appends a history entry. Ledger failures are logged, not propagated:
// the transition itself already committed.
func (s *ProjectService) record(ctx context.Context, projectID string, actor ports.Actor, action string, oldStatus, newStatus *domain.ProjectStatus) {
	entry := &domain.HistoryEntry{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		UserID:    actor.ID,
		UserName:  actor.Name,
		Action:    action,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.history.Insert(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("project_id", projectID).Str("action", action).Msg("failed to append history entry")
	}
}

// notify forwards to the dispatcher; notification failures never fail the
// lifecycle operation.
func (s *ProjectService) notify(ctx context.Context, userID string, t domain.NotificationType, title, message string, data map[string]any) {
	if err := s.notifier.Notify(ctx, userID, t, title, message, data); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Str("type", string(t)).Msg("notification failed")
	}
}
