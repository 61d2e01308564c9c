package model

import "time"

// DocumentType is the declared kind of a compliance document. The set is
// fixed; anything submitted without a type is persisted as TypeOther.
type DocumentType string

const (
	TypeAnnualReport            DocumentType = "annual report"
	TypeSemiAnnualReport        DocumentType = "semi annual report"
	TypeInsiderTradingPolicy    DocumentType = "insider trading policy"
	TypeShareHolderMeeting      DocumentType = "share holder meeting disclosure"
	TypeConfidentialInformation DocumentType = "confidential information"
	TypeBoardMeetingDisclosure  DocumentType = "board meeting disclosure"
	TypeOther                   DocumentType = "other"
)

// DocumentTypes lists every selectable type, excluding the fallback.
var DocumentTypes = []DocumentType{
	TypeAnnualReport,
	TypeSemiAnnualReport,
	TypeInsiderTradingPolicy,
	TypeShareHolderMeeting,
	TypeConfidentialInformation,
	TypeBoardMeetingDisclosure,
}

// IsValid checks if the type is one of the known values.
func (t DocumentType) IsValid() bool {
	if t == TypeOther {
		return true
	}
	for _, known := range DocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Document is a compliance filing uploaded by an issuer or on its behalf
// by an administrator. Documents are created once and never mutated.
// CompanyName is the owning tenant's email; From is the uploader's email.
type Document struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	FileURL     string       `json:"file_url"`
	CompanyName string       `json:"company_name"`
	From        string       `json:"from"`
	Type        DocumentType `json:"type"`

	// Type-conditional metadata. Each field is populated only when the
	// declared type requires it; see the compliance package.
	ReportingDate   string `json:"reporting_date,omitempty"`
	TimeLine        string `json:"time_line,omitempty"`
	ResponsibleUnit string `json:"responsible_unit,omitempty"`
	MeetingType     string `json:"meeting_type,omitempty"`
	Remark          string `json:"remark,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
