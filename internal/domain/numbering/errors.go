package numbering

import (
	"fmt"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// CodeSequenceLocked is the DomainError code for LockedSequenceError
const CodeSequenceLocked = "SEQUENCE_LOCKED"

// LockedSequenceError is returned when a number is requested from a locked sequence.
type LockedSequenceError struct {
	TenantID     uuid.UUID
	DocumentType DocumentType
	FiscalYear   FiscalYear
}

func (e *LockedSequenceError) Error() string {
	return fmt.Sprintf("%s sequence for fiscal year %s is locked", e.DocumentType, e.FiscalYear)
}

// Unwrap exposes the error as a DomainError so handlers can map it.
func (e *LockedSequenceError) Unwrap() error {
	return shared.NewDomainError(CodeSequenceLocked, e.Error())
}
