package service

import (
	"reflect"
	"testing"
	"time"

	"tasker_backend/internal/domain"
	"tasker_backend/internal/repository"
)

func strPtr(s string) *string { return &s }

func baseRow() *repository.TaskDetailRow {
	return &repository.TaskDetailRow{
		ID:          "t1",
		Title:       "fix the venue lighting",
		Description: "north hall",
		Completed:   false,
		Priority:    "HIGH",
		CreatedAt:   time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestAssembleTaskDetailScalars(t *testing.T) {
	row := baseRow()
	row.AssignedTo = strPtr("m1")
	row.AssignedToName = strPtr("Dana Fields")

	d := AssembleTaskDetail(row)
	if d.ID != "t1" || d.Title != "fix the venue lighting" || d.Priority != domain.PriorityHigh {
		t.Fatalf("scalar fields wrong: %+v", d)
	}
	if d.AssignedToName == nil || *d.AssignedToName != "Dana Fields" {
		t.Fatalf("assignee name wrong: %+v", d.AssignedToName)
	}
	if len(d.Tags) != 0 || len(d.Attachments) != 0 {
		t.Fatalf("expected empty collections, got tags=%v attachments=%v", d.Tags, d.Attachments)
	}
}

func TestAssembleTaskDetailTags(t *testing.T) {
	cases := []struct {
		name string
		csv  *string
		want []string
	}{
		{"nil column", nil, []string{}},
		{"empty column", strPtr(""), []string{}},
		{"plain", strPtr("a,b"), []string{"a", "b"}},
		{"untrimmed and duplicated", strPtr(" a , b ,a,, "), []string{"a", "b"}},
	}
	for _, tc := range cases {
		row := baseRow()
		row.Tags = tc.csv
		if got := AssembleTaskDetail(row).Tags; !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: tags = %v; want %v", tc.name, got, tc.want)
		}
	}
}

func TestAssembleTaskDetailAttachments(t *testing.T) {
	row := baseRow()
	row.Attachments = strPtr(`[
		{"id":"a1","url":"/files/x.png","fileName":"x.png","fileType":"image/png"},
		{"id":"a2","url":"/files/y.pdf","fileName":"y.pdf","fileType":"application/pdf"}
	]`)

	got := AssembleTaskDetail(row).Attachments
	if len(got) != 2 || got[0].ID != "a1" || got[1].FileName != "y.pdf" {
		t.Fatalf("attachments = %+v", got)
	}
}

// A malformed payload must never fail the read: scalar fields stay
// populated and the attachment list comes back empty.
func TestAssembleTaskDetailMalformedPayload(t *testing.T) {
	for _, payload := range []string{
		"not json at all",
		`{"id":"a1"}`,
		`[{"id":"a1"`,
	} {
		row := baseRow()
		row.Attachments = strPtr(payload)

		d := AssembleTaskDetail(row)
		if d.ID != "t1" || d.Title == "" {
			t.Fatalf("payload %q: scalar fields lost: %+v", payload, d)
		}
		if len(d.Attachments) != 0 {
			t.Fatalf("payload %q: expected empty attachments, got %+v", payload, d.Attachments)
		}
	}
}

// Individually broken elements are dropped, the rest survive.
func TestAssembleTaskDetailDropsBrokenElements(t *testing.T) {
	row := baseRow()
	row.Attachments = strPtr(`[
		{"id":"a1","url":"/files/x.png","fileName":"x.png","fileType":"image/png"},
		{"id":"a2"},
		42,
		{"id":"a3","url":"/files/z.txt","fileName":"z.txt","fileType":"text/plain"}
	]`)

	got := AssembleTaskDetail(row).Attachments
	if len(got) != 2 || got[0].ID != "a1" || got[1].ID != "a3" {
		t.Fatalf("attachments = %+v", got)
	}
}

func TestAssembleTaskDetailUnknownPriority(t *testing.T) {
	row := baseRow()
	row.Priority = "SOMEDAY"
	if got := AssembleTaskDetail(row).Priority; got != domain.PriorityLow {
		t.Fatalf("unknown priority mapped to %q; want LOW fallback", got)
	}

	// ALL is a filter value, not a persistable row value
	row.Priority = "ALL"
	if got := AssembleTaskDetail(row).Priority; got != domain.PriorityLow {
		t.Fatalf("ALL priority mapped to %q; want LOW fallback", got)
	}
}
