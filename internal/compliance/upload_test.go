package compliance

import (
	"errors"
	"testing"

	"github.com/esxdocs/esxdocs/internal/model"
)

func TestParseUploadAnnualReport(t *testing.T) {
	t.Run("missing_reporting_date", func(t *testing.T) {
		_, err := ParseUpload("annual report", UploadFields{ResponsibleUnit: "Finance"})
		var fe *FieldError
		if !errors.As(err, &fe) {
			t.Fatalf("expected FieldError, got %v", err)
		}
		if fe.Field != "reporting_date" {
			t.Fatalf("error field = %q, want reporting_date", fe.Field)
		}
	})

	t.Run("invalid_reporting_date", func(t *testing.T) {
		_, err := ParseUpload("annual report", UploadFields{
			ReportingDate:   "July 4",
			ResponsibleUnit: "Finance",
		})
		var fe *FieldError
		if !errors.As(err, &fe) || fe.Field != "reporting_date" {
			t.Fatalf("expected reporting_date FieldError, got %v", err)
		}
	})

	t.Run("missing_responsible_unit", func(t *testing.T) {
		_, err := ParseUpload("annual report", UploadFields{ReportingDate: "June 30"})
		var fe *FieldError
		if !errors.As(err, &fe) || fe.Field != "responsible_unit" {
			t.Fatalf("expected responsible_unit FieldError, got %v", err)
		}
	})

	t.Run("valid", func(t *testing.T) {
		upload, err := ParseUpload("annual report", UploadFields{
			ReportingDate:   "June 30",
			ResponsibleUnit: "Finance",
			Remark:          "filed on time",
			MeetingType:     "AGM", // must NOT leak onto the document
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc model.Document
		upload.Apply(&doc)

		if doc.Type != model.TypeAnnualReport {
			t.Fatalf("type = %q", doc.Type)
		}
		if doc.ReportingDate != "June 30" || doc.ResponsibleUnit != "Finance" {
			t.Fatalf("metadata not applied: %+v", doc)
		}
		if doc.Remark != "filed on time" {
			t.Fatalf("remark = %q", doc.Remark)
		}
		if doc.MeetingType != "" || doc.TimeLine != "" {
			t.Fatalf("annual report must not carry meeting/timeline fields: %+v", doc)
		}
	})
}

func TestParseUploadTimelineTypes(t *testing.T) {
	types := []string{
		"semi annual report",
		"insider trading policy",
		"share holder meeting disclosure",
		"confidential information",
	}

	for _, declared := range types {
		t.Run(declared, func(t *testing.T) {
			if _, err := ParseUpload(declared, UploadFields{ResponsibleUnit: "Legal"}); err == nil {
				t.Fatal("expected error for missing time_line")
			}
			if _, err := ParseUpload(declared, UploadFields{TimeLine: "Q3 2025"}); err == nil {
				t.Fatal("expected error for missing responsible_unit")
			}

			upload, err := ParseUpload(declared, UploadFields{
				TimeLine:        "Q3 2025",
				ResponsibleUnit: "Legal",
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var doc model.Document
			upload.Apply(&doc)
			if string(doc.Type) != declared {
				t.Fatalf("type = %q, want %q", doc.Type, declared)
			}
			if doc.TimeLine != "Q3 2025" || doc.ResponsibleUnit != "Legal" {
				t.Fatalf("metadata not applied: %+v", doc)
			}
		})
	}
}

func TestParseUploadBoardMeeting(t *testing.T) {
	_, err := ParseUpload("board meeting disclosure", UploadFields{
		TimeLine:        "Q3 2025",
		ResponsibleUnit: "Secretariat",
	})
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "meeting_type" {
		t.Fatalf("expected meeting_type FieldError, got %v", err)
	}

	upload, err := ParseUpload("board meeting disclosure", UploadFields{
		MeetingType:     "extraordinary",
		TimeLine:        "Q3 2025",
		ResponsibleUnit: "Secretariat",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc model.Document
	upload.Apply(&doc)
	if doc.MeetingType != "extraordinary" {
		t.Fatalf("meeting type = %q", doc.MeetingType)
	}
}

func TestParseUploadUntyped(t *testing.T) {
	tests := []string{"", "other", "  "}

	for _, declared := range tests {
		upload, err := ParseUpload(declared, UploadFields{Remark: "misc"})
		if err != nil {
			t.Fatalf("ParseUpload(%q): %v", declared, err)
		}

		var doc model.Document
		upload.Apply(&doc)
		if doc.Type != model.TypeOther {
			t.Fatalf("type = %q, want other", doc.Type)
		}
		if doc.Remark != "misc" {
			t.Fatalf("remark = %q", doc.Remark)
		}
		if doc.ReportingDate != "" || doc.TimeLine != "" || doc.ResponsibleUnit != "" || doc.MeetingType != "" {
			t.Fatalf("untyped upload must carry no extra metadata: %+v", doc)
		}
	}
}

func TestParseUploadUnknownType(t *testing.T) {
	_, err := ParseUpload("quarterly gossip", UploadFields{})
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestDeriveTenant(t *testing.T) {
	tests := []struct {
		name string
		role model.Role
		code string
		want string
	}{
		{"admin_lowercases_code", model.RoleAdmin, "CBE001", "cbe001@esx.com"},
		{"admin_trims_whitespace", model.RoleAdmin, "  AwB002 ", "awb002@esx.com"},
		{"user_gets_fallback_tenant", model.RoleUser, "CBE001", "esx1@esx.com"},
		{"user_ignores_empty_code", model.RoleUser, "", "esx1@esx.com"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := DeriveTenant(test.role, test.code, "esx.com", "esx1@esx.com")
			if got != test.want {
				t.Fatalf("DeriveTenant = %q, want %q", got, test.want)
			}
		})
	}
}
