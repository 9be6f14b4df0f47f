package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/Arbiter/internal/catalog"
	"github.com/MikeSquared-Agency/Arbiter/internal/hermes"
	"github.com/MikeSquared-Agency/Arbiter/internal/metrics"
	"github.com/MikeSquared-Agency/Arbiter/internal/scoring"
	"github.com/MikeSquared-Agency/Arbiter/internal/store"
)

// ErrStoreUnavailable is returned when company ids are requested but no
// company store is configured.
var ErrStoreUnavailable = errors.New("company store not configured")

const subscriptionTimeout = 30 * time.Second

// Request selects the alternatives, the active criteria and the method. Set
// either CompanyIDs (resolved through the store) or Alternatives.
type Request struct {
	RequestID    string                `json:"request_id,omitempty"`
	Method       string                `json:"method"`
	CompanyIDs   []int64               `json:"companies,omitempty"`
	Alternatives []scoring.Alternative `json:"alternatives,omitempty"`
	CriteriaIDs  []string              `json:"criteria,omitempty"`
	Params       Params                `json:"params"`
}

// Analysis is the response for one method run. It is not stored.
type Analysis struct {
	ID         uuid.UUID           `json:"analysis_id"`
	Method     scoring.Method      `json:"method"`
	Criteria   []catalog.Criterion `json:"criteria"`
	CreatedAt  time.Time           `json:"created_at"`
	DurationMs float64             `json:"duration_ms"`
	Warnings   []string            `json:"warnings,omitempty"`
	Result     *scoring.Result     `json:"result"`
}

type Service struct {
	engine    *scoring.Engine
	catalog   *catalog.Catalog
	store     store.Store
	hermes    hermes.Client
	metrics   *metrics.Metrics
	threshold float64
	logger    *slog.Logger
}

// NewService wires the engine to its collaborators. s and h may be nil.
func NewService(e *scoring.Engine, c *catalog.Catalog, s store.Store, h hermes.Client, m *metrics.Metrics, threshold float64, logger *slog.Logger) *Service {
	return &Service{
		engine:    e,
		catalog:   c,
		store:     s,
		hermes:    h,
		metrics:   m,
		threshold: threshold,
		logger:    logger,
	}
}

type inputs struct {
	alternatives []scoring.Alternative
	criteria     []catalog.Criterion
}

// resolve loads everything the engine needs. All I/O happens here, before
// the engine runs.
func (s *Service) resolve(ctx context.Context, req *Request) (*inputs, error) {
	criteria, err := s.catalog.Select(req.CriteriaIDs)
	if err != nil {
		return nil, &scoring.Error{Kind: scoring.ErrInvalidParameter, Detail: err.Error()}
	}

	if len(req.CompanyIDs) == 0 {
		return &inputs{alternatives: req.Alternatives, criteria: criteria}, nil
	}
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	profiles, err := s.store.GetProfiles(ctx, req.CompanyIDs)
	if err != nil {
		return nil, fmt.Errorf("load companies: %w", err)
	}
	alts := make([]scoring.Alternative, len(profiles))
	for i, p := range profiles {
		alts[i] = scoring.Alternative{
			ID:     strconv.FormatInt(p.Company.ID, 10),
			Name:   p.Company.Name,
			Values: p.Values,
		}
	}
	return &inputs{alternatives: alts, criteria: criteria}, nil
}

// Analyze resolves the inputs of req and runs its method.
func (s *Service) Analyze(ctx context.Context, req *Request) (*Analysis, error) {
	in, err := s.resolve(ctx, req)
	if err != nil {
		s.recordFailure(uuid.New(), req, err)
		return nil, err
	}
	return s.run(ctx, req, in, req.Method)
}

// Compare runs several methods over the same inputs concurrently. The first
// failure cancels the remaining runs.
func (s *Service) Compare(ctx context.Context, req *Request, methods []string) (map[scoring.Method]*Analysis, error) {
	if len(methods) == 0 {
		for _, m := range scoring.AllMethods {
			methods = append(methods, string(m))
		}
	}
	in, err := s.resolve(ctx, req)
	if err != nil {
		s.recordFailure(uuid.New(), req, err)
		return nil, err
	}

	results := make([]*Analysis, len(methods))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range methods {
		g.Go(func() error {
			a, err := s.run(gctx, req, in, m)
			if err != nil {
				return fmt.Errorf("%s: %w", m, err)
			}
			results[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[scoring.Method]*Analysis, len(results))
	for _, a := range results {
		out[a.Method] = a
	}
	return out, nil
}

func (s *Service) run(ctx context.Context, req *Request, in *inputs, method string) (*Analysis, error) {
	id := uuid.New()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sreq := &scoring.Request{
		Method:       scoring.Method(method),
		Alternatives: in.alternatives,
		Criteria:     in.criteria,
	}
	req.Params.apply(sreq)

	start := time.Now()
	result, err := s.engine.Run(sreq)
	elapsed := time.Since(start)
	if err != nil {
		s.recordFailure(id, &Request{RequestID: req.RequestID, Method: method}, err)
		return nil, err
	}

	a := &Analysis{
		ID:         id,
		Method:     result.Method,
		Criteria:   in.criteria,
		CreatedAt:  start.UTC(),
		DurationMs: float64(elapsed.Microseconds()) / 1000,
		Warnings:   result.Warnings(),
		Result:     result,
	}
	s.recordSuccess(req, a, elapsed, len(in.alternatives))
	return a, nil
}

func (s *Service) recordSuccess(req *Request, a *Analysis, elapsed time.Duration, alternatives int) {
	if s.metrics != nil {
		s.metrics.ObserveAnalysis(string(a.Method), metrics.OutcomeOK, elapsed, alternatives)
		if ahp := a.Result.AHP; ahp != nil {
			for _, cw := range ahp.AlternativeWeights {
				s.metrics.ObserveConsistency(metrics.LevelAlternatives, cw.ConsistencyRatio, s.threshold)
			}
			s.metrics.ObserveConsistency(metrics.LevelCriteria, ahp.CriteriaConsistencyRatio, s.threshold)
		}
	}

	s.logger.Info("analysis completed",
		"analysis_id", a.ID,
		"method", a.Method,
		"alternatives", alternatives,
		"criteria", len(a.Criteria),
		"duration_ms", a.DurationMs,
	)

	if s.hermes == nil {
		return
	}
	ranked := make([]hermes.RankedEntry, len(a.Result.Ranked))
	for i, r := range a.Result.Ranked {
		ranked[i] = hermes.RankedEntry{ID: r.ID, Name: r.Name, Score: r.Score, Rank: r.Rank}
	}
	evt := hermes.AnalysisCompletedEvent{
		AnalysisID: a.ID.String(),
		RequestID:  req.RequestID,
		Method:     string(a.Method),
		Ranked:     ranked,
		Warnings:   a.Warnings,
		DurationMs: a.DurationMs,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.hermes.Publish(hermes.SubjectAnalysisCompleted(evt.AnalysisID), evt); err != nil {
		s.logger.Warn("failed to publish analysis event", "analysis_id", a.ID, "error", err)
	}
}

func (s *Service) recordFailure(id uuid.UUID, req *Request, err error) {
	outcome := metrics.OutcomeError
	if scoring.IsValidation(err) || errors.Is(err, store.ErrNotFound) {
		outcome = metrics.OutcomeInvalid
	}
	if s.metrics != nil {
		s.metrics.ObserveAnalysis(req.Method, outcome, 0, 0)
		if errors.Is(err, scoring.ErrInconsistentJudgment) {
			// The engine stops at the first offending matrix.
			level := metrics.LevelAlternatives
			var se *scoring.Error
			if errors.As(err, &se) && se.Criterion == "criteria" {
				level = metrics.LevelCriteria
			}
			s.metrics.InconsistentJudgments.WithLabelValues(level).Inc()
		}
	}

	if outcome == metrics.OutcomeInvalid {
		s.logger.Info("analysis rejected", "analysis_id", id, "method", req.Method, "error", err)
	} else {
		s.logger.Error("analysis failed", "analysis_id", id, "method", req.Method, "error", err)
	}

	if s.hermes == nil {
		return
	}
	evt := hermes.AnalysisFailedEvent{
		AnalysisID: id.String(),
		RequestID:  req.RequestID,
		Method:     req.Method,
		Error:      err.Error(),
		Kind:       scoring.KindName(err),
		Timestamp:  time.Now().UTC(),
	}
	var se *scoring.Error
	if errors.As(err, &se) {
		evt.Criterion, evt.Alternative = se.Criterion, se.Alternative
	}
	if perr := s.hermes.Publish(hermes.SubjectAnalysisFailed(evt.AnalysisID), evt); perr != nil {
		s.logger.Warn("failed to publish analysis event", "analysis_id", id, "error", perr)
	}
}

// SetupSubscriptions serves analysis requests arriving over hermes. Results
// are reported through the completed and failed events Analyze publishes.
func (s *Service) SetupSubscriptions() {
	if s.hermes == nil {
		return
	}

	_ = s.hermes.Subscribe(hermes.SubjectAnalysisRequest, func(_ string, data []byte) {
		var evt hermes.AnalysisRequestEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			s.logger.Warn("invalid analysis request event", "error", err)
			return
		}
		req, err := requestFromEvent(evt)
		if err != nil {
			s.recordFailure(uuid.New(), &Request{RequestID: evt.RequestID, Method: evt.Method}, err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), subscriptionTimeout)
		defer cancel()
		if _, err := s.Analyze(ctx, req); err == nil {
			s.logger.Debug("analysis served from hermes request", "request_id", evt.RequestID, "source", evt.Source)
		}
	})
}

func requestFromEvent(evt hermes.AnalysisRequestEvent) (*Request, error) {
	params, err := DecodeParams(evt.Params)
	if err != nil {
		return nil, err
	}
	req := &Request{
		RequestID:   evt.RequestID,
		Method:      evt.Method,
		CompanyIDs:  evt.Companies,
		CriteriaIDs: evt.Criteria,
		Params:      params,
	}
	if len(evt.Alternatives) > 0 {
		if err := json.Unmarshal(evt.Alternatives, &req.Alternatives); err != nil {
			return nil, &scoring.Error{Kind: scoring.ErrInvalidParameter, Detail: fmt.Sprintf("alternatives: %v", err)}
		}
	}
	return req, nil
}
