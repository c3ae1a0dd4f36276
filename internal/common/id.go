package common

import (
	"github.com/google/uuid"
)

// NewReportID generates a unique report ID with the "rpt_" prefix
// Format: rpt_<uuid>
func NewReportID() string {
	return "rpt_" + uuid.New().String()
}

// NewRunID generates a unique batch run ID with the "run_" prefix
func NewRunID() string {
	return "run_" + uuid.New().String()
}
