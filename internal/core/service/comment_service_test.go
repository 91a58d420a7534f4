package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/terangafund/citizen-projects/internal/core/domain"
	"github.com/terangafund/citizen-projects/internal/core/ports"
)

type stubCommentRepo struct {
	comments []*domain.Comment
}

func (r *stubCommentRepo) Insert(_ context.Context, c *domain.Comment) error {
	clone := *c
	r.comments = append(r.comments, &clone)
	return nil
}

func (r *stubCommentRepo) ListByProject(_ context.Context, projectID string, limit int) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, c := range r.comments {
		if c.ProjectID == projectID {
			clone := *c
			out = append(out, &clone)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type commentFixture struct {
	svc      *CommentService
	comments *stubCommentRepo
	projects *stubProjectRepo
	notifier *stubNotifier
}

func newCommentFixture() *commentFixture {
	f := &commentFixture{
		comments: &stubCommentRepo{},
		projects: newStubProjectRepo(),
		notifier: &stubNotifier{},
	}
	f.svc = NewCommentService(f.comments, f.projects, f.notifier, 0, discardLogger)
	return f
}

func (f *commentFixture) seedProject(status domain.ProjectStatus) *domain.Project {
	p := &domain.Project{
		ID:        "p-1",
		UserID:    citizenActor.ID,
		Title:     "Périmètre maraîcher",
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	f.projects.byID[p.ID] = p
	return p
}

func TestCommentService_Add_SnapshotsAuthor(t *testing.T) {
	f := newCommentFixture()
	f.seedProject(domain.StatusPending)

	c, err := f.svc.Add(context.Background(), officialActor, "p-1", "Merci de détailler le budget.")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if c.UserName != officialActor.Name || c.UserRole != domain.RoleOfficial {
		t.Errorf("author snapshot wrong: %q %q", c.UserName, c.UserRole)
	}
	if c.ID == "" || c.CreatedAt.IsZero() {
		t.Error("id and created_at must be set")
	}
}

func TestCommentService_Add_NotifiesOwnerOnly(t *testing.T) {
	f := newCommentFixture()
	f.seedProject(domain.StatusPending)
	ctx := context.Background()

	// A reviewer's comment notifies the owner.
	if _, err := f.svc.Add(ctx, officialActor, "p-1", "Question sur le budget"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0].userID != citizenActor.ID {
		t.Fatalf("owner must be notified, got %+v", f.notifier.sent)
	}
	if f.notifier.sent[0].typ != domain.NotifNewComment {
		t.Errorf("wrong notification type: %q", f.notifier.sent[0].typ)
	}

	// The owner's own comment notifies nobody.
	if _, err := f.svc.Add(ctx, citizenActor, "p-1", "Réponse"); err != nil {
		t.Fatalf("add own: %v", err)
	}
	if len(f.notifier.sent) != 1 {
		t.Error("self-comments must not notify")
	}
}

func TestCommentService_Add_EmptyContent(t *testing.T) {
	f := newCommentFixture()
	f.seedProject(domain.StatusPending)

	if _, err := f.svc.Add(context.Background(), officialActor, "p-1", "  "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCommentService_AccessMirrorsProjectRead(t *testing.T) {
	f := newCommentFixture()
	f.seedProject(domain.StatusDraft)
	ctx := context.Background()

	// Drafts are invisible to officials, so commenting is forbidden too.
	if _, err := f.svc.Add(ctx, officialActor, "p-1", "trop tôt"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.List(ctx, officialActor, "p-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on list, got %v", err)
	}

	stranger := ports.Actor{ID: "citizen-9", Name: "X", Role: domain.RoleCitizen}
	if _, err := f.svc.List(ctx, stranger, "p-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
}

func TestCommentService_List_ReturnsProjectComments(t *testing.T) {
	f := newCommentFixture()
	f.seedProject(domain.StatusPending)
	ctx := context.Background()

	_, _ = f.svc.Add(ctx, officialActor, "p-1", "Premier")
	_, _ = f.svc.Add(ctx, citizenActor, "p-1", "Deuxième")

	comments, err := f.svc.List(ctx, adminActor, "p-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].Content != "Premier" {
		t.Error("comments must read oldest-first")
	}
}
