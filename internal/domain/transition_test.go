package domain

import (
	"errors"
	"testing"
)

func TestCheckTransitionTable(t *testing.T) {
	t.Parallel()

	allStatuses := []Status{StatusPending, StatusEditing, StatusApproved, StatusRejected, StatusPublished}
	valid := map[ActionKind]map[Status]bool{
		ActionEdit:    {StatusPending: true, StatusEditing: true, StatusApproved: true},
		ActionApprove: {StatusPending: true, StatusEditing: true},
		ActionReject:  {StatusPending: true, StatusEditing: true, StatusApproved: true},
		ActionPublish: {StatusPending: true, StatusEditing: true, StatusApproved: true},
	}

	for action, from := range valid {
		for _, status := range allStatuses {
			err := CheckTransition(status, action)
			if from[status] {
				if err != nil {
					t.Fatalf("%s from %s: unexpected error %v", action, status, err)
				}
				continue
			}
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("%s from %s: expected InvalidTransition, got %v", action, status, err)
			}
		}
	}
}

func TestTerminalStatusesRejectEverything(t *testing.T) {
	t.Parallel()

	for _, status := range []Status{StatusRejected, StatusPublished} {
		if !status.Terminal() {
			t.Fatalf("%s should be terminal", status)
		}
		for _, action := range []ActionKind{ActionEdit, ActionApprove, ActionReject, ActionPublish} {
			if Allowed(status, action) {
				t.Fatalf("%s allowed from terminal %s", action, status)
			}
		}
	}
}

func TestUnknownAction(t *testing.T) {
	t.Parallel()

	err := CheckTransition(StatusPending, ActionKind("archive"))
	if KindOf(err) != "InvalidTransition" {
		t.Fatalf("unexpected kind %q", KindOf(err))
	}
}

func TestResolvedCategoryPrefersManual(t *testing.T) {
	t.Parallel()

	item := CurationItem{SuggestedCategoryID: "economia", ManualCategoryID: "esportes"}
	if got := item.ResolvedCategoryID(); got != "esportes" {
		t.Fatalf("expected manual category, got %s", got)
	}

	item.ManualCategoryID = ""
	if got := item.ResolvedCategoryID(); got != "economia" {
		t.Fatalf("expected suggested category, got %s", got)
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want string
	}{
		{NewError(ErrNotFound, "get", "missing"), "NotFound"},
		{NewError(ErrMissingCategory, "approve", ""), "MissingCategory"},
		{WrapStorage("update", errors.New("disk full")), "StorageError"},
		{errors.New("untyped"), "StorageError"},
		{nil, ""},
	}

	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Fatalf("KindOf(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestWrapStorageKeepsTypedErrors(t *testing.T) {
	t.Parallel()

	typed := NewError(ErrInvalidCategory, "publish", "unknown category")
	if got := WrapStorage("publish", typed); got != typed {
		t.Fatalf("typed error was rewrapped: %v", got)
	}
}
