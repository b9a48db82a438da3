// internal/types/ids.go
package types

import (
	"github.com/google/uuid"
)

type SessionID string
type RunID string
type ReportID string

func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

func NewReportID() ReportID {
	return ReportID(uuid.New().String())
}
