package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/standings"
	"github.com/okian/standings/pkg/logger"
)

// standingsRequest is the body of POST /v1/standings.
type standingsRequest struct {
	Competitors []model.Competitor `json:"competitors"`
	Matches     []model.RawMatch   `json:"matches"`
	Tiebreakers []string           `json:"tiebreakers,omitempty"`
}

// batchRequest is the body of POST /v1/standings/batch.
type batchRequest struct {
	Divisions []model.Division `json:"divisions"`
}

type batchResult struct {
	DivisionID string         `json:"divisionId"`
	Ranking    *model.Ranking `json:"ranking,omitempty"`
	Error      *errorResponse `json:"error,omitempty"`
}

type batchResponse struct {
	Results []batchResult `json:"results"`
}

type tiebreakersResponse struct {
	Criteria []string `json:"criteria"`
	Default  []string `json:"default"`
}

// StandingsHandler serves the ranking endpoints.
type StandingsHandler struct {
	ranker       Ranker
	maxBodyBytes int64
	logger       logger.Logger
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(ranker Ranker, maxBodyBytes int64, l logger.Logger) *StandingsHandler {
	return &StandingsHandler{ranker: ranker, maxBodyBytes: maxBodyBytes, logger: l}
}

// HandleRank handles POST /v1/standings requests.
func (h *StandingsHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	var req standingsRequest
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ranking, err := h.ranker.RankDivision(r.Context(), model.Division{
		Competitors: req.Competitors,
		Matches:     req.Matches,
		Tiebreakers: req.Tiebreakers,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}

// HandleBatch handles POST /v1/standings/batch requests.
func (h *StandingsHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	items, err := h.ranker.RankBatch(r.Context(), req.Divisions)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := batchResponse{Results: make([]batchResult, len(items))}
	for i, item := range items {
		res := batchResult{DivisionID: req.Divisions[i].ID}
		if item.Err != nil {
			_, code := classify(item.Err)
			res.Error = &errorResponse{Code: code, Message: item.Err.Error()}
		} else {
			ranking := item.Ranking
			res.Ranking = &ranking
		}
		resp.Results[i] = res
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleTiebreakers handles GET /v1/tiebreakers requests.
func (h *StandingsHandler) HandleTiebreakers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, tiebreakersResponse{
		Criteria: criteriaNames(),
		Default:  h.ranker.Tiebreakers(),
	})
}

func (h *StandingsHandler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decode body: %w", ErrBadRequest, err)
	}
	return nil
}

func (h *StandingsHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("code", code),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}

func criteriaNames() []string {
	return standings.Chain(standings.Criteria()).Strings()
}
