// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	ids := []Id{
		AuthFileNotFoundId,
		HostRequiredId,
		RemoteNotConfiguredId,
		EncryptFailedId,
		InventoryMalformedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	if AuthFileNotFoundId != 1 {
		t.Errorf("AuthFileNotFoundId = %d, want 1", AuthFileNotFoundId)
	}
}

func TestGet_AllIdsRegistered(t *testing.T) {
	for _, id := range []Id{AuthFileNotFoundId, HostRequiredId, RemoteNotConfiguredId, EncryptFailedId, InventoryMalformedId} {
		issue := Get(id)
		if issue == nil {
			t.Fatalf("Get(%d) returned nil", id)
		}
		if issue.Id() != id {
			t.Errorf("issue.Id() = %d, want %d", issue.Id(), id)
		}
		if issue.MarkdownMsg() == "" {
			t.Errorf("issue %d has empty markdown message", id)
		}
	}
}

func TestIssue_MarkdownMsg(t *testing.T) {
	issue := Get(HostRequiredId)
	if issue == nil {
		t.Fatal("Get(HostRequiredId) returned nil")
	}
	if !strings.Contains(string(issue.MarkdownMsg()), "requires the platform host") {
		t.Error("MarkdownMsg() should explain the host requirement")
	}
}

func TestValues_SortedById(t *testing.T) {
	vals := Values()
	if len(vals) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(vals), len(issues))
	}
	for i := 1; i < len(vals); i++ {
		if vals[i-1].Id() >= vals[i].Id() {
			t.Errorf("Values() not sorted: %d before %d", vals[i-1].Id(), vals[i].Id())
		}
	}
}

func TestIssue_Render(t *testing.T) {
	origRender := render
	defer func() { render = origRender }()

	var got string
	render = func(in string, _ string) (string, error) {
		got = in
		return "rendered", nil
	}

	out, err := Get(RemoteNotConfiguredId).Render("dark")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if out != "rendered" {
		t.Errorf("expected renderer output, got %q", out)
	}
	if !strings.Contains(got, "Remote execution is not configured") {
		t.Errorf("renderer did not receive issue markdown: %q", got)
	}
}
