package numbering

import (
	"time"

	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/google/uuid"
)

// SequenceResponse is the API view of a document sequence
type SequenceResponse struct {
	ID             uuid.UUID `json:"id"`
	DocumentType   string    `json:"document_type"`
	FiscalYear     string    `json:"fiscal_year"`
	PrefixTemplate string    `json:"prefix_template"`
	SuffixTemplate string    `json:"suffix_template"`
	Separator      string    `json:"separator"`
	StartNumber    int64     `json:"start_number"`
	CurrentNumber  int64     `json:"current_number"`
	Padding        int       `json:"padding"`
	Locked         bool      `json:"locked"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IssuedNumberResponse is returned when a number is issued
type IssuedNumberResponse struct {
	DocumentType string    `json:"document_type"`
	FiscalYear   string    `json:"fiscal_year"`
	Number       int64     `json:"number"`
	Formatted    string    `json:"formatted"`
	IssuedAt     time.Time `json:"issued_at"`
}

// CurrentNumberResponse reports the last issued number without advancing
type CurrentNumberResponse struct {
	DocumentType  string `json:"document_type"`
	FiscalYear    string `json:"fiscal_year"`
	CurrentNumber int64  `json:"current_number"`
}

// ProvisionRequest creates or reconfigures a sequence. Unset fields keep the
// sequence's current value, or the configured default for a new sequence.
type ProvisionRequest struct {
	FiscalYear     string  `json:"fiscal_year" binding:"omitempty,fiscal_year"`
	PrefixTemplate *string `json:"prefix_template" binding:"omitempty,max=50"`
	SuffixTemplate *string `json:"suffix_template" binding:"omitempty,max=50"`
	Separator      *string `json:"separator" binding:"omitempty,max=3"`
	StartNumber    *int64  `json:"start_number" binding:"omitempty,min=1"`
	Padding        *int    `json:"padding" binding:"omitempty,min=0,max=12"`
}

func (r ProvisionRequest) apply(s numbering.Settings) numbering.Settings {
	if r.PrefixTemplate != nil {
		s.PrefixTemplate = *r.PrefixTemplate
	}
	if r.SuffixTemplate != nil {
		s.SuffixTemplate = *r.SuffixTemplate
	}
	if r.Separator != nil {
		s.Separator = *r.Separator
	}
	if r.StartNumber != nil {
		s.StartNumber = *r.StartNumber
	}
	if r.Padding != nil {
		s.Padding = *r.Padding
	}
	return s
}

// ToSequenceResponse converts a domain sequence to its response
func ToSequenceResponse(s *numbering.DocumentSequence) SequenceResponse {
	return SequenceResponse{
		ID:             s.ID,
		DocumentType:   s.DocumentType.String(),
		FiscalYear:     s.FiscalYear.String(),
		PrefixTemplate: s.PrefixTemplate,
		SuffixTemplate: s.SuffixTemplate,
		Separator:      s.Separator,
		StartNumber:    s.StartNumber,
		CurrentNumber:  s.CurrentNumber,
		Padding:        s.Padding,
		Locked:         s.Locked,
		UpdatedAt:      s.UpdatedAt,
	}
}

func toIssuedNumberResponse(n *numbering.IssuedNumber) *IssuedNumberResponse {
	return &IssuedNumberResponse{
		DocumentType: n.Key.DocumentType.String(),
		FiscalYear:   n.Key.FiscalYear.String(),
		Number:       n.Number,
		Formatted:    n.Formatted,
		IssuedAt:     n.IssuedAt,
	}
}
