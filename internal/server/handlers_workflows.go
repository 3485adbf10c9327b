package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/freight-agent/internal/parsing"
	"github.com/jonathan/freight-agent/internal/prompts"
	"github.com/jonathan/freight-agent/internal/selection"
	"github.com/jonathan/freight-agent/internal/types"
	"github.com/jonathan/freight-agent/internal/workflow"
)

// createWorkflowRequest starts one shipment intake. Either a raw chat
// message or an already structured shipment must be present; confirmed IDs
// carry answers from an earlier needs_confirmation round.
type createWorkflowRequest struct {
	Message  string                 `json:"message,omitempty"`
	Shipment *types.ShipmentRequest `json:"shipment,omitempty"`

	FromCityID string `json:"from_city_id,omitempty"`
	ToCityID   string `json:"to_city_id,omitempty"`
	MaterialID string `json:"material_id,omitempty"`

	Vehicles *types.VehicleRequirements `json:"vehicles,omitempty"`
}

type selectRequest struct {
	Phase       string `json:"phase"`
	CandidateID string `json:"candidate_id"`
}

// handleCreateWorkflow parses the shipment if needed and runs the workflow
// through selection start.
func (s *Server) handleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req createWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	shipment := req.Shipment
	if shipment == nil {
		if strings.TrimSpace(req.Message) == "" {
			s.errorResponse(w, http.StatusBadRequest, "message or shipment is required")
			return
		}
		var err error
		shipment, err = s.parseMessage(r, req.Message)
		if err != nil {
			s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	} else if err := shipment.Validate(); err != nil {
		// A malformed structured shipment never reaches the resolvers.
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	vehicles := req.Vehicles
	if vehicles == nil {
		derived := parsing.DeriveVehicleRequirements(shipment)
		vehicles = &derived
	}

	result, err := s.orchestrator.Run(r.Context(), workflow.StartRequest{
		Shipment:   shipment,
		FromCityID: req.FromCityID,
		ToCityID:   req.ToCityID,
		MaterialID: req.MaterialID,
		Vehicles:   vehicles,
	})
	if err != nil {
		s.workflowErrorResponse(w, err, result)
		return
	}

	s.jsonResponse(w, http.StatusCreated, result)
}

// handleParseMessage parses a chat message without starting a workflow, so
// the UI can show the structured shipment for confirmation first.
func (s *Server) handleParseMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.errorResponse(w, http.StatusBadRequest, "message is required")
		return
	}

	shipment, err := s.parseMessage(r, req.Message)
	if err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	vehicles := parsing.DeriveVehicleRequirements(shipment)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"shipment": shipment,
		"vehicles": vehicles,
	})
}

func (s *Server) parseMessage(r *http.Request, message string) (*types.ShipmentRequest, error) {
	if s.parser != nil {
		return s.parser.ParseShipmentRequest(r.Context(), message)
	}
	return parsing.ParseShipmentRequestBasic(message)
}

func (s *Server) handleResolveCity(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		s.errorResponse(w, http.StatusBadRequest, "name query parameter is required")
		return
	}

	res, err := s.orchestrator.ResolveCity(r.Context(), name)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

func (s *Server) handleResolveMaterial(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		s.errorResponse(w, http.StatusBadRequest, "name query parameter is required")
		return
	}

	res, err := s.orchestrator.ResolveMaterial(r.Context(), name)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	session, err := s.sessions.Session(id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"session_id": session.ID,
		"phase":      session.Phase,
		"candidates": session.Candidates,
		"skipped":    session.Skipped,
		"trip_id":    session.TripID,
		"parcel_id":  session.ParcelID,
	})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CandidateID == "" {
		s.errorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	outcome, err := s.orchestrator.Select(r.Context(), id, selection.Phase(req.Phase), req.CandidateID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, outcome)
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	outcome, err := s.orchestrator.Skip(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, outcome)
}

func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

// workflowErrorResponse renders resolution failures so a chat layer can ask
// the user to confirm a candidate and retry with the confirmed ID.
func (s *Server) workflowErrorResponse(w http.ResponseWriter, err error, result *types.WorkflowResult) {
	var ambiguous *workflow.AmbiguousReferenceError
	if errors.As(err, &ambiguous) {
		s.jsonResponse(w, http.StatusConflict, map[string]any{
			"error":      "needs_confirmation",
			"message":    confirmationMessage(ambiguous),
			"collection": ambiguous.Collection,
			"query":      ambiguous.Query,
			"candidates": ambiguous.Candidates,
			"best_guess": ambiguous.BestGuess,
			"result":     result,
		})
		return
	}

	var notFound *workflow.NotFoundError
	if errors.As(err, &notFound) {
		s.jsonResponse(w, http.StatusNotFound, map[string]any{
			"error":      "not_found",
			"collection": notFound.Collection,
			"query":      notFound.Query,
			"result":     result,
		})
		return
	}

	s.errorResponse(w, HTTPStatus(err), err.Error())
}

// confirmationMessage renders a user-facing prompt for an ambiguous name so
// chat clients can show it verbatim.
func confirmationMessage(ambiguous *workflow.AmbiguousReferenceError) string {
	names := make([]string, len(ambiguous.Candidates))
	for i, c := range ambiguous.Candidates {
		names[i] = c.Display()
	}
	return prompts.Format(prompts.MustGet("parsing.json", "confirm-candidate"), map[string]string{
		"Kind":       singular(ambiguous.Collection),
		"Query":      ambiguous.Query,
		"Candidates": strings.Join(names, ", "),
	})
}

func singular(collection string) string {
	if collection == "cities" {
		return "city"
	}
	return strings.TrimSuffix(collection, "s")
}
