package domain

import "testing"

func TestRuleFor_KnownOperations(t *testing.T) {
	cases := []struct {
		op   Operation
		from []ProjectStatus
		to   ProjectStatus
	}{
		{OpSubmit, []ProjectStatus{StatusDraft, StatusDocumentsRequested}, StatusPending},
		{OpValidate, []ProjectStatus{StatusPending}, StatusValidated},
		{OpApprove, []ProjectStatus{StatusValidated}, StatusApproved},
		{OpReject, []ProjectStatus{StatusPending, StatusValidated}, StatusRejected},
		{OpRequestDocuments, []ProjectStatus{StatusPending}, StatusDocumentsRequested},
	}

	for _, tc := range cases {
		rule, ok := RuleFor(tc.op)
		if !ok {
			t.Fatalf("RuleFor(%q) returned ok=false", tc.op)
		}
		if rule.To != tc.to {
			t.Errorf("%s: expected target %q, got %q", tc.op, tc.to, rule.To)
		}
		for _, from := range tc.from {
			if !rule.AllowsFrom(from) {
				t.Errorf("%s: expected %q to be a valid source state", tc.op, from)
			}
		}
	}
}

func TestRuleFor_UnknownOperation(t *testing.T) {
	if _, ok := RuleFor(Operation("promote")); ok {
		t.Fatal("expected ok=false for unknown operation")
	}
}

func TestTransitionRule_TerminalStatesHaveNoExit(t *testing.T) {
	for _, terminal := range []ProjectStatus{StatusApproved, StatusRejected} {
		for op := range transitionRules {
			rule, _ := RuleFor(op)
			if rule.AllowsFrom(terminal) {
				t.Errorf("%s must not be allowed from terminal state %q", op, terminal)
			}
		}
	}
}

func TestTransitionRule_RoleGates(t *testing.T) {
	approve, _ := RuleFor(OpApprove)
	if approve.AllowsRole(RoleOfficial) {
		t.Error("officials must not approve projects")
	}
	if approve.AllowsRole(RoleCitizen) {
		t.Error("citizens must not approve projects")
	}
	if !approve.AllowsRole(RoleAdmin) {
		t.Error("admins must approve projects")
	}

	validate, _ := RuleFor(OpValidate)
	if validate.AllowsRole(RoleCitizen) {
		t.Error("citizens must not validate projects")
	}

	submit, _ := RuleFor(OpSubmit)
	if submit.AllowsRole(RoleOfficial) {
		t.Error("officials must not submit projects")
	}
}

func TestProject_CanRead(t *testing.T) {
	owner := "citizen-1"
	official := "official-1"

	cases := []struct {
		name    string
		project Project
		role    Role
		userID  string
		want    bool
	}{
		{"owner reads own draft", Project{UserID: owner, Status: StatusDraft}, RoleCitizen, owner, true},
		{"stranger cannot read draft", Project{UserID: owner, Status: StatusDraft}, RoleCitizen, "citizen-2", false},
		{"admin reads everything", Project{UserID: owner, Status: StatusDraft}, RoleAdmin, "admin-1", true},
		{"official reads pending", Project{UserID: owner, Status: StatusPending}, RoleOfficial, official, true},
		{"official reads documents_requested", Project{UserID: owner, Status: StatusDocumentsRequested}, RoleOfficial, official, true},
		{"official reads validated", Project{UserID: owner, Status: StatusValidated}, RoleOfficial, official, true},
		{"official cannot read draft", Project{UserID: owner, Status: StatusDraft}, RoleOfficial, official, false},
		{"official reads assigned approved", Project{UserID: owner, Status: StatusApproved, AssignedOfficialID: official}, RoleOfficial, official, true},
		{"official cannot read unassigned approved", Project{UserID: owner, Status: StatusApproved}, RoleOfficial, official, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.project.CanRead(tc.role, tc.userID); got != tc.want {
				t.Errorf("CanRead(%s, %s) = %v, want %v", tc.role, tc.userID, got, tc.want)
			}
		})
	}
}

func TestIsValidCategory(t *testing.T) {
	if !IsValidCategory("Agriculture") {
		t.Error("Agriculture must be a valid category")
	}
	if !IsValidCategory("Santé & Bien-être") {
		t.Error("Santé & Bien-être must be a valid category")
	}
	if IsValidCategory("Blockchain") {
		t.Error("unknown categories must be rejected")
	}
	if IsValidCategory("") {
		t.Error("empty category must be rejected")
	}
}
