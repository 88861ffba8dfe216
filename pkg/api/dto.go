package api

import (
	"github.com/shiftguard/shiftguard/pkg/core/rules"
	"github.com/shiftguard/shiftguard/pkg/workbook"
)

// ScheduleRequest is the POST /api/schedule payload: a full input workbook
// plus optional rule definitions and tuning knobs.
type ScheduleRequest struct {
	workbook.Input
	Rules             []rules.Def `json:"rules,omitempty"`
	SoftCostThreshold float64     `json:"softCostThreshold,omitempty"`
	SwapIterations    int         `json:"swapIterations,omitempty"`
}

// ValidateRequest is the POST /api/validate payload: an input workbook plus
// the schedule to check against it.
type ValidateRequest struct {
	workbook.Input
	Rules             []rules.Def     `json:"rules,omitempty"`
	SoftCostThreshold float64         `json:"softCostThreshold,omitempty"`
	Schedule          []AssignmentDTO `json:"schedule"`
}

// AssignmentDTO is one scheduled shift.
type AssignmentDTO struct {
	Date      string `json:"date"`
	ShiftType string `json:"shiftType"`
	StaffID   string `json:"staffId"`
}

// DeficitDTO is one understaffed slot.
type DeficitDTO struct {
	Date      string `json:"date"`
	ShiftType string `json:"shiftType"`
	Missing   int    `json:"missing"`
}

// WarningDTO is one validation finding.
type WarningDTO struct {
	Severity  string `json:"severity"`
	Category  string `json:"category"`
	Date      string `json:"date,omitempty"`
	ShiftType string `json:"shiftType,omitempty"`
	StaffID   string `json:"staffId,omitempty"`
	Deficit   int    `json:"deficit,omitempty"`
	Message   string `json:"message"`
}

// ScheduleResponse is the POST /api/schedule result.
type ScheduleResponse struct {
	RunID    string          `json:"runId"`
	Saved    bool            `json:"saved"`
	Schedule []AssignmentDTO `json:"schedule"`
	Deficits []DeficitDTO    `json:"deficits"`
	Warnings []WarningDTO    `json:"warnings"`
	SoftCost float64         `json:"softCost"`
	Swaps    int             `json:"swaps"`
}

// ValidateResponse is the POST /api/validate result.
type ValidateResponse struct {
	Warnings []WarningDTO `json:"warnings"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
