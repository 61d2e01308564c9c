package compliance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/esxdocs/esxdocs/internal/model"
)

// ErrUnknownType indicates a declared document type outside the fixed set.
var ErrUnknownType = errors.New("unknown document type")

// ReportingDates is the fixed set of valid reporting dates for annual
// reports, keyed by the displayed label.
var ReportingDates = []string{
	"March 31",
	"June 30",
	"September 30",
	"December 31",
}

// ValidReportingDate checks membership in ReportingDates.
func ValidReportingDate(date string) bool {
	for _, d := range ReportingDates {
		if d == date {
			return true
		}
	}
	return false
}

// FieldError is a validation failure tied to a specific form field, so the
// caller can surface it inline next to the offending input. Validation
// always runs before any blob upload or database write.
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// UploadFields is the raw type-conditional metadata as submitted.
type UploadFields struct {
	ReportingDate   string
	TimeLine        string
	ResponsibleUnit string
	MeetingType     string
	Remark          string
}

// Upload is a validated, typed upload request. Each variant carries only
// the metadata its document type requires; Remark is optional everywhere.
type Upload interface {
	// Type is the document type the variant maps to.
	Type() model.DocumentType
	// Apply copies the variant's metadata onto a document record.
	Apply(doc *model.Document)
}

// AnnualReportUpload requires a reporting date from the fixed set plus the
// responsible unit.
type AnnualReportUpload struct {
	ReportingDate   string
	ResponsibleUnit string
	Remark          string
}

func (u AnnualReportUpload) Type() model.DocumentType { return model.TypeAnnualReport }

func (u AnnualReportUpload) Apply(doc *model.Document) {
	doc.Type = u.Type()
	doc.ReportingDate = u.ReportingDate
	doc.ResponsibleUnit = u.ResponsibleUnit
	doc.Remark = u.Remark
}

// PeriodicUpload covers the types that require a timeline and responsible
// unit: semi annual reports, insider trading policies, share holder
// meeting disclosures, and confidential information.
type PeriodicUpload struct {
	DocType         model.DocumentType
	TimeLine        string
	ResponsibleUnit string
	Remark          string
}

func (u PeriodicUpload) Type() model.DocumentType { return u.DocType }

func (u PeriodicUpload) Apply(doc *model.Document) {
	doc.Type = u.Type()
	doc.TimeLine = u.TimeLine
	doc.ResponsibleUnit = u.ResponsibleUnit
	doc.Remark = u.Remark
}

// BoardMeetingUpload additionally requires the meeting type.
type BoardMeetingUpload struct {
	MeetingType     string
	TimeLine        string
	ResponsibleUnit string
	Remark          string
}

func (u BoardMeetingUpload) Type() model.DocumentType { return model.TypeBoardMeetingDisclosure }

func (u BoardMeetingUpload) Apply(doc *model.Document) {
	doc.Type = u.Type()
	doc.MeetingType = u.MeetingType
	doc.TimeLine = u.TimeLine
	doc.ResponsibleUnit = u.ResponsibleUnit
	doc.Remark = u.Remark
}

// UntypedUpload is the "no type selected" case; it persists as "other"
// with no additional metadata beyond an optional remark.
type UntypedUpload struct {
	Remark string
}

func (u UntypedUpload) Type() model.DocumentType { return model.TypeOther }

func (u UntypedUpload) Apply(doc *model.Document) {
	doc.Type = u.Type()
	doc.Remark = u.Remark
}

// ParseUpload validates the declared type against its submitted fields and
// returns the matching variant. A FieldError names the first missing or
// invalid field.
func ParseUpload(declaredType string, fields UploadFields) (Upload, error) {
	docType := model.DocumentType(strings.ToLower(strings.TrimSpace(declaredType)))
	if docType == "" || docType == model.TypeOther {
		return UntypedUpload{Remark: fields.Remark}, nil
	}
	if !docType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, declaredType)
	}

	switch docType {
	case model.TypeAnnualReport:
		if fields.ReportingDate == "" {
			return nil, &FieldError{Field: "reporting_date", Msg: "reporting date is required for annual reports"}
		}
		if !ValidReportingDate(fields.ReportingDate) {
			return nil, &FieldError{Field: "reporting_date", Msg: "reporting date must be one of the standard reporting dates"}
		}
		if fields.ResponsibleUnit == "" {
			return nil, &FieldError{Field: "responsible_unit", Msg: "responsible unit is required"}
		}
		return AnnualReportUpload{
			ReportingDate:   fields.ReportingDate,
			ResponsibleUnit: fields.ResponsibleUnit,
			Remark:          fields.Remark,
		}, nil

	case model.TypeBoardMeetingDisclosure:
		if fields.MeetingType == "" {
			return nil, &FieldError{Field: "meeting_type", Msg: "meeting type is required for board meeting disclosures"}
		}
		if fields.TimeLine == "" {
			return nil, &FieldError{Field: "time_line", Msg: "timeline is required"}
		}
		if fields.ResponsibleUnit == "" {
			return nil, &FieldError{Field: "responsible_unit", Msg: "responsible unit is required"}
		}
		return BoardMeetingUpload{
			MeetingType:     fields.MeetingType,
			TimeLine:        fields.TimeLine,
			ResponsibleUnit: fields.ResponsibleUnit,
			Remark:          fields.Remark,
		}, nil

	default:
		// semi annual report, insider trading policy, share holder meeting
		// disclosure, confidential information
		if fields.TimeLine == "" {
			return nil, &FieldError{Field: "time_line", Msg: "timeline is required"}
		}
		if fields.ResponsibleUnit == "" {
			return nil, &FieldError{Field: "responsible_unit", Msg: "responsible unit is required"}
		}
		return PeriodicUpload{
			DocType:         docType,
			TimeLine:        fields.TimeLine,
			ResponsibleUnit: fields.ResponsibleUnit,
			Remark:          fields.Remark,
		}, nil
	}
}

// DeriveTenant resolves the owning tenant key for an upload. Admins
// attribute the document to the bank code they entered, lower-cased and
// suffixed with the tenant domain. Non-admin uploads always attribute to
// the configured default tenant, not the uploader's own identity; this
// asymmetry is long-standing observed behavior and is kept as-is pending
// product clarification.
func DeriveTenant(role model.Role, enteredCode, tenantDomain, defaultTenant string) string {
	if role == model.RoleAdmin {
		return strings.ToLower(strings.TrimSpace(enteredCode)) + "@" + tenantDomain
	}
	return defaultTenant
}
