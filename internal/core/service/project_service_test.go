package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/terangafund/citizen-projects/internal/core/domain"
	"github.com/terangafund/citizen-projects/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubProjectRepo struct {
	byID      map[string]*domain.Project
	insertErr error
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{byID: make(map[string]*domain.Project)}
}

func (r *stubProjectRepo) Insert(_ context.Context, p *domain.Project) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	clone := *p
	return &clone, nil
}

// List applies the same filters the real Mongo repo would use.
func (r *stubProjectRepo) List(_ context.Context, f ports.ListProjectsFilter) ([]*domain.Project, error) {
	var matched []*domain.Project
	for _, p := range r.byID {
		if f.OwnerID != "" && p.UserID != f.OwnerID {
			continue
		}
		if f.OfficialID != "" {
			visible := p.AssignedOfficialID == f.OfficialID
			for _, s := range f.VisibleStatuses {
				if p.Status == s {
					visible = true
				}
			}
			if !visible {
				continue
			}
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Search != "" {
			title := strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Search))
			desc := strings.Contains(strings.ToLower(p.Description), strings.ToLower(f.Search))
			if !title && !desc {
				continue
			}
		}
		clone := *p
		matched = append(matched, &clone)
	}
	return matched, nil
}

func (r *stubProjectRepo) Update(_ context.Context, id string, patch ports.ProjectPatch, updatedAt time.Time) error {
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.FundingRequested != nil {
		p.FundingRequested = *patch.FundingRequested
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	p.UpdatedAt = updatedAt
	return nil
}

// ApplyStatusChange mirrors the conditional update of the real repo: the write
// only lands when the current status is still in ch.From.
func (r *stubProjectRepo) ApplyStatusChange(_ context.Context, id string, ch ports.StatusChange) error {
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	inFrom := false
	for _, s := range ch.From {
		if p.Status == s {
			inFrom = true
		}
	}
	if !inFrom {
		return domain.ErrInvalidTransition
	}
	p.Status = ch.To
	p.UpdatedAt = ch.UpdatedAt
	if ch.SubmittedAt != nil {
		p.SubmittedAt = ch.SubmittedAt
	}
	if ch.ValidatedAt != nil {
		p.ValidatedAt = ch.ValidatedAt
	}
	if ch.ApprovedAt != nil {
		p.ApprovedAt = ch.ApprovedAt
	}
	if ch.AssignedOfficialID != nil {
		p.AssignedOfficialID = *ch.AssignedOfficialID
	}
	if ch.RejectionReason != nil {
		p.RejectionReason = *ch.RejectionReason
	}
	if ch.DocumentsRequestReason != nil {
		p.DocumentsRequestReason = *ch.DocumentsRequestReason
	}
	return nil
}

func (r *stubProjectRepo) PushDocument(_ context.Context, id string, doc domain.ProjectDocument, updatedAt time.Time) error {
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	p.Documents = append(p.Documents, doc)
	p.UpdatedAt = updatedAt
	return nil
}

func (r *stubProjectRepo) PullDocument(_ context.Context, id, documentID string, updatedAt time.Time) error {
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	kept := p.Documents[:0]
	for _, d := range p.Documents {
		if d.ID != documentID {
			kept = append(kept, d)
		}
	}
	p.Documents = kept
	p.UpdatedAt = updatedAt
	return nil
}

func (r *stubProjectRepo) FindAll(_ context.Context) ([]*domain.Project, error) {
	out := make([]*domain.Project, 0, len(r.byID))
	for _, p := range r.byID {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

type stubUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *stubUserRepo) add(u *domain.User) {
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
}

func (r *stubUserRepo) Insert(_ context.Context, u *domain.User) error {
	if _, taken := r.byEmail[u.Email]; taken {
		return domain.ErrEmailTaken
	}
	clone := *u
	r.add(&clone)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) ListByRoles(_ context.Context, roles []domain.Role) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.byID {
		for _, role := range roles {
			if u.Role == role {
				clone := *u
				out = append(out, &clone)
			}
		}
	}
	return out, nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.byID {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, p ports.UserPatch, updatedAt time.Time) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = *p.ProfilePicture
	}
	if p.IdentityDocument != nil {
		u.IdentityDocument = p.IdentityDocument
	}
	if p.Filiation != nil {
		u.Filiation = p.Filiation
	}
	u.UpdatedAt = updatedAt
	return nil
}

func (r *stubUserRepo) UpdateAccount(_ context.Context, id string, p ports.AdminUserPatch, updatedAt time.Time) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.IsVerified != nil {
		u.IsVerified = *p.IsVerified
	}
	u.UpdatedAt = updatedAt
	return nil
}

func (r *stubUserRepo) SetPassword(_ context.Context, id, passwordHash string, updatedAt time.Time) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = updatedAt
	return nil
}

func (r *stubUserRepo) SetVerified(_ context.Context, id string, updatedAt time.Time) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsVerified = true
	u.UpdatedAt = updatedAt
	return nil
}

type stubHistoryRepo struct {
	entries   []*domain.HistoryEntry
	insertErr error
}

func (r *stubHistoryRepo) Insert(_ context.Context, e *domain.HistoryEntry) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	clone := *e
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *stubHistoryRepo) ListByProject(_ context.Context, projectID string, limit int) ([]*domain.HistoryEntry, error) {
	var out []*domain.HistoryEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].ProjectID == projectID {
			out = append(out, r.entries[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubHistoryRepo) forProject(projectID string) []*domain.HistoryEntry {
	var out []*domain.HistoryEntry
	for _, e := range r.entries {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out
}

type notified struct {
	userID string
	typ    domain.NotificationType
	title  string
}

type stubNotifier struct {
	sent []notified
	err  error
}

func (n *stubNotifier) Notify(_ context.Context, userID string, t domain.NotificationType, title, _ string, _ map[string]any) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, notified{userID: userID, typ: t, title: title})
	return nil
}

type stubAttachmentStore struct {
	stored int
}

func (s *stubAttachmentStore) Store(_ context.Context, _ []byte, filename, _ string) (string, error) {
	s.stored++
	return "https://files.example.test/" + filename, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var (
	citizenActor  = ports.Actor{ID: "citizen-1", Name: "Awa Diop", Role: domain.RoleCitizen}
	officialActor = ports.Actor{ID: "official-1", Name: "Moussa Fall", Role: domain.RoleOfficial}
	adminActor    = ports.Actor{ID: "admin-1", Name: "Fatou Ndiaye", Role: domain.RoleAdmin}
)

type projectFixture struct {
	svc      *ProjectService
	projects *stubProjectRepo
	users    *stubUserRepo
	history  *stubHistoryRepo
	notifier *stubNotifier
	store    *stubAttachmentStore
}

func newProjectFixture() *projectFixture {
	f := &projectFixture{
		projects: newStubProjectRepo(),
		users:    newStubUserRepo(),
		history:  &stubHistoryRepo{},
		notifier: &stubNotifier{},
		store:    &stubAttachmentStore{},
	}
	f.users.add(&domain.User{ID: citizenActor.ID, Email: "awa@example.sn", Role: domain.RoleCitizen, IsActive: true})
	f.users.add(&domain.User{ID: officialActor.ID, Email: "moussa@example.sn", Role: domain.RoleOfficial, IsActive: true})
	f.users.add(&domain.User{ID: adminActor.ID, Email: "fatou@example.sn", Role: domain.RoleAdmin, IsActive: true})
	f.svc = NewProjectService(f.projects, f.users, f.history, f.notifier, f.store, 0, discardLogger)
	return f
}

func validInput() ports.CreateProjectInput {
	return ports.CreateProjectInput{
		Title:            "Périmètre maraîcher de Thiès",
		Description:      "Production maraîchère irriguée pour le marché local.",
		Category:         "Agriculture",
		FundingRequested: 2_500_000,
		StartDate:        "2026-10-01",
		DurationMonths:   12,
		Objectives:       []string{"Créer 15 emplois"},
		BudgetBreakdown:  map[string]float64{"Semences": 500_000, "Irrigation": 2_000_000},
		Location:         "Thiès",
	}
}

func (f *projectFixture) create(t *testing.T) *domain.Project {
	t.Helper()
	p, err := f.svc.Create(context.Background(), citizenActor, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return p
}

// ---------------------------------------------------------------------------
// Create tests
// ---------------------------------------------------------------------------

func TestProjectService_Create_Success(t *testing.T) {
	f := newProjectFixture()

	p := f.create(t)

	if p.ID == "" {
		t.Error("project id must be set")
	}
	if p.Status != domain.StatusDraft {
		t.Errorf("expected draft, got %q", p.Status)
	}
	if p.UserID != citizenActor.ID {
		t.Errorf("owner mismatch: %q", p.UserID)
	}
	if p.Documents == nil || len(p.Documents) != 0 {
		t.Error("documents must start as an empty list")
	}
	if len(f.history.forProject(p.ID)) != 1 {
		t.Fatalf("expected 1 history entry after create, got %d", len(f.history.forProject(p.ID)))
	}
}

func TestProjectService_Create_OfficialForbidden(t *testing.T) {
	f := newProjectFixture()

	_, err := f.svc.Create(context.Background(), officialActor, validInput())
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestProjectService_Create_Validation(t *testing.T) {
	f := newProjectFixture()

	cases := []struct {
		name   string
		mutate func(*ports.CreateProjectInput)
	}{
		{"empty title", func(in *ports.CreateProjectInput) { in.Title = "" }},
		{"unknown category", func(in *ports.CreateProjectInput) { in.Category = "Cryptomonnaie" }},
		{"zero funding", func(in *ports.CreateProjectInput) { in.FundingRequested = 0 }},
		{"negative funding", func(in *ports.CreateProjectInput) { in.FundingRequested = -100 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			if _, err := f.svc.Create(context.Background(), citizenActor, in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Lifecycle tests
// ---------------------------------------------------------------------------

func TestProjectService_FullLifecycle(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	p := f.create(t)

	if err := f.svc.Submit(ctx, citizenActor, p.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got, _ := f.projects.FindByID(ctx, p.ID); got.Status != domain.StatusPending || got.SubmittedAt == nil {
		t.Fatalf("after submit: status=%q submitted_at=%v", got.Status, got.SubmittedAt)
	}

	if err := f.svc.Validate(ctx, officialActor, p.ID); err != nil {
		t.Fatalf("validate: %v", err)
	}
	got, _ := f.projects.FindByID(ctx, p.ID)
	if got.Status != domain.StatusValidated || got.ValidatedAt == nil {
		t.Fatalf("after validate: status=%q validated_at=%v", got.Status, got.ValidatedAt)
	}
	if got.AssignedOfficialID != officialActor.ID {
		t.Errorf("validation must assign the acting official, got %q", got.AssignedOfficialID)
	}

	if err := f.svc.Approve(ctx, adminActor, p.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	got, _ = f.projects.FindByID(ctx, p.ID)
	if got.Status != domain.StatusApproved || got.ApprovedAt == nil {
		t.Fatalf("after approve: status=%q approved_at=%v", got.Status, got.ApprovedAt)
	}

	// Exactly one ledger entry per step: create + submit + validate + approve.
	if n := len(f.history.forProject(p.ID)); n != 4 {
		t.Errorf("expected 4 history entries, got %d", n)
	}
}

func TestProjectService_Submit_NotifiesAllReviewers(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t)

	if err := f.svc.Submit(context.Background(), citizenActor, p.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	recipients := map[string]bool{}
	for _, n := range f.notifier.sent {
		if n.typ == domain.NotifProjectSubmitted {
			recipients[n.userID] = true
		}
	}
	if !recipients[officialActor.ID] || !recipients[adminActor.ID] {
		t.Errorf("submission must notify every official and admin, got %v", recipients)
	}
	if recipients[citizenActor.ID] {
		t.Error("the owner must not receive the submission notice")
	}
}

func TestProjectService_Submit_OnlyOwner(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t)

	other := ports.Actor{ID: "citizen-2", Name: "Cheikh Ba", Role: domain.RoleCitizen}
	if err := f.svc.Submit(context.Background(), other, p.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestProjectService_InvalidTransitionLeavesStateUnchanged(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	p := f.create(t)

	// Approve straight from draft: the transition table forbids it.
	err := f.svc.Approve(ctx, adminActor, p.ID)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	got, _ := f.projects.FindByID(ctx, p.ID)
	if got.Status != domain.StatusDraft {
		t.Errorf("failed transition must not change state, got %q", got.Status)
	}
	// No ledger entry beyond the creation record.
	if n := len(f.history.forProject(p.ID)); n != 1 {
		t.Errorf("failed transition must not write history, got %d entries", n)
	}
}

// racingProjectRepo flips the project's status between the service's read and
// its conditional write, standing in for a concurrent reviewer winning the
// race.
type racingProjectRepo struct {
	*stubProjectRepo
	flipTo  domain.ProjectStatus
	flipped bool
}

func (r *racingProjectRepo) ApplyStatusChange(ctx context.Context, id string, ch ports.StatusChange) error {
	if !r.flipped {
		r.flipped = true
		r.byID[id].Status = r.flipTo
	}
	return r.stubProjectRepo.ApplyStatusChange(ctx, id, ch)
}

func TestProjectService_Validate_LostRaceSurfacesAsInvalidTransition(t *testing.T) {
	ctx := context.Background()
	projects := &racingProjectRepo{stubProjectRepo: newStubProjectRepo(), flipTo: domain.StatusRejected}
	projects.byID["p-1"] = &domain.Project{
		ID:     "p-1",
		UserID: citizenActor.ID,
		Title:  "Périmètre maraîcher de Thiès",
		Status: domain.StatusPending,
	}
	users := newStubUserRepo()
	history := &stubHistoryRepo{}
	notifier := &stubNotifier{}
	svc := NewProjectService(projects, users, history, notifier, &stubAttachmentStore{}, 0, discardLogger)

	// The precheck sees pending, then a concurrent rejection lands first.
	err := svc.Validate(ctx, officialActor, "p-1")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("lost race must surface as ErrInvalidTransition, got %v", err)
	}

	got, _ := projects.FindByID(ctx, "p-1")
	if got.Status != domain.StatusRejected {
		t.Errorf("the winning write must stand, got %q", got.Status)
	}
	if n := len(history.forProject("p-1")); n != 0 {
		t.Errorf("lost race must not write history, got %d entries", n)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("lost race must not notify, got %d notices", len(notifier.sent))
	}
}

func TestProjectService_Validate_CitizenForbidden(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	p := f.create(t)
	_ = f.svc.Submit(ctx, citizenActor, p.ID)

	if err := f.svc.Validate(ctx, citizenActor, p.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestProjectService_Reject_RequiresReason(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	p := f.create(t)
	_ = f.svc.Submit(ctx, citizenActor, p.ID)

	if err := f.svc.Reject(ctx, officialActor, p.ID, "   "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank reason, got %v", err)
	}

	if err := f.svc.Reject(ctx, officialActor, p.ID, "Budget incohérent"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	got, _ := f.projects.FindByID(ctx, p.ID)
	if got.Status != domain.StatusRejected {
		t.Errorf("expected rejected, got %q", got.Status)
	}
	if got.RejectionReason != "Budget incohérent" {
		t.Errorf("reason not recorded: %q", got.RejectionReason)
	}
	// Owner gets the rejection notice.
	last := f.notifier.sent[len(f.notifier.sent)-1]
	if last.userID != citizenActor.ID || last.typ != domain.NotifProjectRejected {
		t.Errorf("owner must receive rejection notice, got %+v", last)
	}
}

func TestProjectService_RequestDocuments_RoundTrip(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	p := f.create(t)
	_ = f.svc.Submit(ctx, citizenActor, p.ID)

	if err := f.svc.RequestDocuments(ctx, officialActor, p.ID, "Joindre le plan de financement"); err != nil {
		t.Fatalf("request documents: %v", err)
	}
	got, _ := f.projects.FindByID(ctx, p.ID)
	if got.Status != domain.StatusDocumentsRequested {
		t.Fatalf("expected documents_requested, got %q", got.Status)
	}
	if got.AssignedOfficialID != officialActor.ID {
		t.Error("request must assign the acting official")
	}

	// The owner can resubmit from documents_requested.
	if err := f.svc.Submit(ctx, citizenActor, p.ID); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	got, _ = f.projects.FindByID(ctx, p.ID)
	if got.Status != domain.StatusPending {
		t.Errorf("resubmission must return to pending, got %q", got.Status)
	}
}

// ---------------------------------------------------------------------------
// Read access
// ---------------------------------------------------------------------------

func TestProjectService_Get_ForbiddenForStranger(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t)

	other := ports.Actor{ID: "citizen-2", Name: "Cheikh Ba", Role: domain.RoleCitizen}
	if _, err := f.svc.Get(context.Background(), other, p.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestProjectService_Get_NotFound(t *testing.T) {
	f := newProjectFixture()

	if _, err := f.svc.Get(context.Background(), adminActor, "missing"); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestProjectService_List_CitizenSeesOnlyOwn(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	f.create(t)

	other := ports.Actor{ID: "citizen-2", Name: "Cheikh Ba", Role: domain.RoleCitizen}
	if _, err := f.svc.Create(ctx, other, validInput()); err != nil {
		t.Fatalf("create second: %v", err)
	}

	mine, err := f.svc.List(ctx, citizenActor, ports.ListProjectsInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 || mine[0].UserID != citizenActor.ID {
		t.Errorf("citizen must see only own projects, got %d", len(mine))
	}

	all, _ := f.svc.List(ctx, adminActor, ports.ListProjectsInput{})
	if len(all) != 2 {
		t.Errorf("admin must see every project, got %d", len(all))
	}
}

func TestProjectService_List_OfficialSeesReviewable(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	p := f.create(t)

	visible, _ := f.svc.List(ctx, officialActor, ports.ListProjectsInput{})
	if len(visible) != 0 {
		t.Fatalf("drafts must be invisible to officials, got %d", len(visible))
	}

	_ = f.svc.Submit(ctx, citizenActor, p.ID)
	visible, _ = f.svc.List(ctx, officialActor, ports.ListProjectsInput{})
	if len(visible) != 1 {
		t.Errorf("pending projects must be visible to officials, got %d", len(visible))
	}
}

// ---------------------------------------------------------------------------
// Update tests
// ---------------------------------------------------------------------------

func TestProjectService_Update_CitizenDraftOnly(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	p := f.create(t)

	title := "Périmètre maraîcher de Mbour"
	updated, err := f.svc.Update(ctx, citizenActor, p.ID, ports.UpdateProjectInput{Title: &title})
	if err != nil {
		t.Fatalf("update draft: %v", err)
	}
	if updated.Title != title {
		t.Errorf("title not applied: %q", updated.Title)
	}

	_ = f.svc.Submit(ctx, citizenActor, p.ID)
	if _, err := f.svc.Update(ctx, citizenActor, p.ID, ports.UpdateProjectInput{Title: &title}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("editing a pending project must fail, got %v", err)
	}
}

func TestProjectService_Update_CitizenCannotSetStatus(t *testing.T) {
	f := newProjectFixture()
	p := f.create(t)

	status := domain.StatusApproved
	_, err := f.svc.Update(context.Background(), citizenActor, p.ID, ports.UpdateProjectInput{Status: &status})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestProjectService_Update_AdminSetsStatusWithAudit(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	p := f.create(t)

	status := domain.StatusPending
	if _, err := f.svc.Update(ctx, adminActor, p.ID, ports.UpdateProjectInput{Status: &status}); err != nil {
		t.Fatalf("admin update: %v", err)
	}

	entries := f.history.forProject(p.ID)
	last := entries[len(entries)-1]
	if last.OldStatus == nil || *last.OldStatus != domain.StatusDraft {
		t.Error("audit entry must record the old status")
	}
	if last.NewStatus == nil || *last.NewStatus != domain.StatusPending {
		t.Error("audit entry must record the new status")
	}
}

// ---------------------------------------------------------------------------
// Document tests
// ---------------------------------------------------------------------------

func validUpload() ports.DocumentUpload {
	return ports.DocumentUpload{
		Filename:    "budget.pdf",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.4 fake"),
	}
}

func TestProjectService_UploadDocument_Success(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	p := f.create(t)

	doc, err := f.svc.UploadDocument(ctx, citizenActor, p.ID, validUpload())
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.ID == "" || doc.FileURL == "" {
		t.Error("document id and url must be set")
	}
	if f.store.stored != 1 {
		t.Errorf("expected 1 stored file, got %d", f.store.stored)
	}

	got, _ := f.projects.FindByID(ctx, p.ID)
	if len(got.Documents) != 1 {
		t.Fatalf("expected 1 attached document, got %d", len(got.Documents))
	}
}

func TestProjectService_UploadDocument_RejectsOversizeAndType(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	p := f.create(t)

	big := validUpload()
	big.Content = make([]byte, maxDocumentBytes+1)
	if _, err := f.svc.UploadDocument(ctx, citizenActor, p.ID, big); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("oversize upload must fail validation, got %v", err)
	}

	exe := validUpload()
	exe.ContentType = "application/x-msdownload"
	if _, err := f.svc.UploadDocument(ctx, citizenActor, p.ID, exe); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("executable upload must fail validation, got %v", err)
	}
}

func TestProjectService_DeleteDocument_AuditedAndScoped(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	p := f.create(t)
	doc, _ := f.svc.UploadDocument(ctx, citizenActor, p.ID, validUpload())

	other := ports.Actor{ID: "citizen-2", Name: "Cheikh Ba", Role: domain.RoleCitizen}
	if err := f.svc.DeleteDocument(ctx, other, p.ID, doc.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger delete must be forbidden, got %v", err)
	}

	before := len(f.history.forProject(p.ID))
	if err := f.svc.DeleteDocument(ctx, citizenActor, p.ID, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := f.projects.FindByID(ctx, p.ID)
	if len(got.Documents) != 0 {
		t.Errorf("document not removed, %d left", len(got.Documents))
	}
	if len(f.history.forProject(p.ID)) != before+1 {
		t.Error("deletion must append a history entry")
	}

	if err := f.svc.DeleteDocument(ctx, citizenActor, p.ID, doc.ID); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("second delete must report not found, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// History tests
// ---------------------------------------------------------------------------

func TestProjectService_History_AccessMirrorsProject(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	p := f.create(t)

	entries, err := f.svc.History(ctx, citizenActor, p.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	other := ports.Actor{ID: "citizen-2", Name: "Cheikh Ba", Role: domain.RoleCitizen}
	if _, err := f.svc.History(ctx, other, p.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestProjectService_HistoryFailureDoesNotBlockTransition(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	p := f.create(t)

	f.history.insertErr = fmt.Errorf("ledger unavailable")
	if err := f.svc.Submit(ctx, citizenActor, p.ID); err != nil {
		t.Fatalf("submit must succeed despite ledger failure: %v", err)
	}
	got, _ := f.projects.FindByID(ctx, p.ID)
	if got.Status != domain.StatusPending {
		t.Errorf("transition must commit, got %q", got.Status)
	}
}

func TestProjectService_NotifierFailureDoesNotBlockTransition(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	p := f.create(t)

	f.notifier.err = fmt.Errorf("queue down")
	if err := f.svc.Submit(ctx, citizenActor, p.ID); err != nil {
		t.Fatalf("submit must succeed despite notifier failure: %v", err)
	}
}
