package numbering

import (
	"fmt"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Defaults for lazily created sequences
const (
	DefaultStartNumber = 1
	DefaultPadding     = 4
	DefaultSeparator   = "/"
	MaxPadding         = 12
)

// Key identifies a sequence: one counter per tenant, document type and fiscal year.
type Key struct {
	TenantID     uuid.UUID
	DocumentType DocumentType
	FiscalYear   FiscalYear
}

// NewKey validates and builds a Key
func NewKey(tenantID uuid.UUID, docType DocumentType, fy FiscalYear) (Key, error) {
	k := Key{TenantID: tenantID, DocumentType: docType, FiscalYear: fy}
	return k, k.Validate()
}

// Validate checks every component of the key
func (k Key) Validate() error {
	if k.TenantID == uuid.Nil {
		return shared.NewValidationError("tenant_id", "is required")
	}
	if !k.DocumentType.IsValid() {
		return shared.NewValidationError("document_type", fmt.Sprintf("unknown document type %q", k.DocumentType))
	}
	if _, err := ParseFiscalYear(k.FiscalYear.String()); err != nil {
		return shared.NewValidationError("fiscal_year", err.Error())
	}
	return nil
}

// String renders the key as tenant:type:year
func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%s", k.TenantID, k.DocumentType, k.FiscalYear)
}

// Settings configures how a sequence starts and formats.
type Settings struct {
	PrefixTemplate string
	SuffixTemplate string
	Separator      string
	StartNumber    int64
	Padding        int
}

// DefaultSettings returns the settings used when a sequence is created on first use:
// INV/2025-2026/0001 for the first invoice of fiscal year 2025-2026.
func DefaultSettings(docType DocumentType) Settings {
	return Settings{
		PrefixTemplate: docType.DefaultPrefix() + DefaultSeparator + PlaceholderFiscalYear,
		SuffixTemplate: "",
		Separator:      DefaultSeparator,
		StartNumber:    DefaultStartNumber,
		Padding:        DefaultPadding,
	}
}

// Validate checks the settings
func (s Settings) Validate() error {
	if s.StartNumber < 1 {
		return shared.NewValidationError("start_number", "must be at least 1")
	}
	if s.Padding < 0 || s.Padding > MaxPadding {
		return shared.NewValidationError("number_padding", fmt.Sprintf("must be between 0 and %d", MaxPadding))
	}
	if len(s.PrefixTemplate) > 50 || len(s.SuffixTemplate) > 50 {
		return shared.NewValidationError("prefix", "templates cannot exceed 50 characters")
	}
	if len(s.Separator) > 3 {
		return shared.NewValidationError("separator", "cannot exceed 3 characters")
	}
	return nil
}

// DocumentSequence is the counter behind a document series.
// CurrentNumber is the last issued number; it only moves forward, except by Reset.
type DocumentSequence struct {
	shared.TenantAggregateRoot
	DocumentType   DocumentType
	FiscalYear     FiscalYear
	PrefixTemplate string
	SuffixTemplate string
	Separator      string
	StartNumber    int64
	CurrentNumber  int64
	Padding        int
	Locked         bool
}

// NewDocumentSequence creates a sequence positioned just before its start number.
func NewDocumentSequence(key Key, settings Settings) (*DocumentSequence, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &DocumentSequence{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(key.TenantID),
		DocumentType:        key.DocumentType,
		FiscalYear:          key.FiscalYear,
		PrefixTemplate:      settings.PrefixTemplate,
		SuffixTemplate:      settings.SuffixTemplate,
		Separator:           settings.Separator,
		StartNumber:         settings.StartNumber,
		CurrentNumber:       settings.StartNumber - 1,
		Padding:             settings.Padding,
	}, nil
}

// Key returns the identity of the sequence
func (s *DocumentSequence) Key() Key {
	return Key{TenantID: s.TenantID, DocumentType: s.DocumentType, FiscalYear: s.FiscalYear}
}

// Settings returns the current formatting settings
func (s *DocumentSequence) Settings() Settings {
	return Settings{
		PrefixTemplate: s.PrefixTemplate,
		SuffixTemplate: s.SuffixTemplate,
		Separator:      s.Separator,
		StartNumber:    s.StartNumber,
		Padding:        s.Padding,
	}
}

// Advance issues the next number. Callers must hold the exclusive lock on
// the persisted row for the duration of the read-advance-write.
func (s *DocumentSequence) Advance() (int64, error) {
	if s.Locked {
		return 0, &LockedSequenceError{TenantID: s.TenantID, DocumentType: s.DocumentType, FiscalYear: s.FiscalYear}
	}
	s.CurrentNumber++
	s.IncrementVersion()
	return s.CurrentNumber, nil
}

// Peek returns the last issued number without advancing
func (s *DocumentSequence) Peek() int64 {
	return s.CurrentNumber
}

// LockIssuing stops further numbers from being issued
func (s *DocumentSequence) LockIssuing() {
	if !s.Locked {
		s.Locked = true
		s.IncrementVersion()
	}
}

// UnlockIssuing allows numbers to be issued again
func (s *DocumentSequence) UnlockIssuing() {
	if s.Locked {
		s.Locked = false
		s.IncrementVersion()
	}
}

// Reset rewinds the counter to just before the start number and unlocks it.
// Already issued documents are not touched.
func (s *DocumentSequence) Reset() {
	s.CurrentNumber = s.StartNumber - 1
	s.Locked = false
	s.IncrementVersion()
}

// Reconfigure applies new settings. A higher start number moves the counter
// forward; a lower one never moves it back.
func (s *DocumentSequence) Reconfigure(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.PrefixTemplate = settings.PrefixTemplate
	s.SuffixTemplate = settings.SuffixTemplate
	s.Separator = settings.Separator
	s.Padding = settings.Padding
	s.StartNumber = settings.StartNumber
	if s.CurrentNumber < settings.StartNumber-1 {
		s.CurrentNumber = settings.StartNumber - 1
	}
	s.IncrementVersion()
	return nil
}

// Format renders number with the sequence's templates.
func (s *DocumentSequence) Format(number int64, issuedAt time.Time, tenantCode string) string {
	return FormatNumber(s.PrefixTemplate, s.SuffixTemplate, s.Separator, number, s.Padding, TemplateContext{
		FiscalYear:   s.FiscalYear,
		IssuedAt:     issuedAt,
		TenantCode:   tenantCode,
		DocumentType: s.DocumentType,
	})
}

// IssuedNumber is the result of a successful number request.
type IssuedNumber struct {
	Key       Key
	Number    int64
	Formatted string
	IssuedAt  time.Time
}
