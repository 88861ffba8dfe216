// Package api exposes schedule generation and validation over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/shiftguard/shiftguard/pkg/core/model"
	"github.com/shiftguard/shiftguard/pkg/core/rules"
	"github.com/shiftguard/shiftguard/pkg/core/services"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Logger *zap.Logger

	// Store persists generation runs when non-nil.
	Store services.RunStore
}

// NewHandler creates a new handler.
func NewHandler(logger *zap.Logger, store services.RunStore) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Logger: logger, Store: store}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GenerateSchedule builds a schedule from an inline input workbook.
func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := req.Input.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return
	}

	rs, err := parseRules(req.Rules)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rules", err)
		return
	}

	demand, err := req.Input.DemandSlots(nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid demand", err)
		return
	}

	result, err := services.Generate(r.Context(), h.Logger, services.GenerateParams{
		Roster:            req.Input.Roster(),
		ShiftTypes:        req.Input.Catalog(),
		Demand:            demand,
		RuleSet:           rs,
		SoftCostThreshold: req.SoftCostThreshold,
		SwapIterations:    req.SwapIterations,
		Store:             h.Store,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Schedule generation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, ScheduleResponse{
		RunID:    result.RunID,
		Saved:    result.Saved,
		Schedule: toAssignmentDTOs(result.Schedule),
		Deficits: toDeficitDTOs(result.Deficits),
		Warnings: toWarningDTOs(result.Warnings),
		SoftCost: result.SoftCost,
		Swaps:    result.Swaps,
	})
}

// ValidateSchedule checks a submitted schedule against the input and rules.
func (h *Handler) ValidateSchedule(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := req.Input.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return
	}

	rs, err := parseRules(req.Rules)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rules", err)
		return
	}

	demand, err := req.Input.DemandSlots(nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid demand", err)
		return
	}

	var sched model.Schedule
	for _, a := range req.Schedule {
		sched.Assignments = append(sched.Assignments, model.Assignment{
			Date:        a.Date,
			ShiftTypeID: a.ShiftType,
			StaffID:     a.StaffID,
		})
	}
	sched.Sort()

	warnings := services.Validate(h.Logger, sched, req.Input.Roster(), req.Input.Catalog(), demand, rs, req.SoftCostThreshold)

	writeJSON(w, http.StatusOK, ValidateResponse{Warnings: toWarningDTOs(warnings)})
}

func parseRules(defs []rules.Def) (*rules.RuleSet, error) {
	if len(defs) == 0 {
		return rules.Default(), nil
	}
	return rules.Parse(defs)
}

func toAssignmentDTOs(sched model.Schedule) []AssignmentDTO {
	dtos := make([]AssignmentDTO, 0, len(sched.Assignments))
	for _, a := range sched.Assignments {
		dtos = append(dtos, AssignmentDTO{
			Date:      a.Date,
			ShiftType: a.ShiftTypeID,
			StaffID:   a.StaffID,
		})
	}
	return dtos
}

func toDeficitDTOs(deficits map[model.SlotKey]int) []DeficitDTO {
	dtos := make([]DeficitDTO, 0, len(deficits))
	for key, missing := range deficits {
		dtos = append(dtos, DeficitDTO{
			Date:      key.Date,
			ShiftType: key.ShiftTypeID,
			Missing:   missing,
		})
	}
	sort.Slice(dtos, func(i, j int) bool {
		if dtos[i].Date != dtos[j].Date {
			return dtos[i].Date < dtos[j].Date
		}
		return dtos[i].ShiftType < dtos[j].ShiftType
	})
	return dtos
}

func toWarningDTOs(warnings []model.Warning) []WarningDTO {
	dtos := make([]WarningDTO, 0, len(warnings))
	for _, w := range warnings {
		dtos = append(dtos, WarningDTO{
			Severity:  w.Severity.String(),
			Category:  string(w.Category),
			Date:      w.Date,
			ShiftType: w.ShiftTypeID,
			StaffID:   w.StaffID,
			Deficit:   w.Deficit,
			Message:   w.Message,
		})
	}
	return dtos
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
