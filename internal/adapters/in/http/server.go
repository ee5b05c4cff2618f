// Package http exposes the warehouse to station collaborators over a JSON
// API built on echo.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/core/application/usecases/queries"
	"warehouse/internal/core/domain/model/history"
	"warehouse/internal/core/domain/model/parcel"
	"warehouse/internal/core/domain/model/quality"
	"warehouse/internal/core/domain/services"
	"warehouse/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type (
	ParcelRegistrar interface {
		Handle(ctx context.Context, cmd commands.CreateParcelCommand) (*parcel.Parcel, error)
	}

	TransitionRequester interface {
		Handle(ctx context.Context, cmd commands.RequestTransitionCommand) (commands.TransitionResult, error)
		RecordRejectedRequest(ctx context.Context, req commands.TransitionRequest, err error)
	}

	SnapshotReader interface {
		Handle(ctx context.Context, query queries.GetParcelSnapshotQuery) (ports.Snapshot, error)
	}

	HistoryReader interface {
		Handle(ctx context.Context, query queries.GetParcelHistoryQuery) ([]queries.StageIntervalResponse, error)
	}

	IssueReader interface {
		Handle(ctx context.Context, query queries.GetQualityIssuesQuery) ([]queries.QualityIssueResponse, error)
	}

	AttemptReader interface {
		Handle(ctx context.Context, query queries.GetTransitionAttemptsQuery) ([]queries.TransitionAttemptResponse, error)
	}
)

// Handlers groups the use cases the API serves.
type Handlers struct {
	CreateParcel      ParcelRegistrar
	RequestTransition TransitionRequester
	GetSnapshot       SnapshotReader
	GetHistory        HistoryReader
	GetIssues         IssueReader
	GetAttempts       AttemptReader
}

// RetryPolicy controls how often a transition that timed out is resent with
// the same expected version before the station sees the timeout. A resend
// either applies the transition once or fails with a version conflict.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
	}
}

// Server implements the station API.
type Server struct {
	handlers Handlers
	retry    RetryPolicy
	logger   logrus.FieldLogger
}

func NewServer(handlers Handlers, retry RetryPolicy, logger logrus.FieldLogger) *Server {
	return &Server{
		handlers: handlers,
		retry:    retry,
		logger:   logger.WithField("component", "http"),
	}
}

// Register mounts the routes, the request validator, the api document check
// and swagger-ui on e.
func (s *Server) Register(ctx context.Context, e *echo.Echo) error {
	doc, err := LoadAPIDocument(ctx)
	if err != nil {
		return err
	}
	contract, err := s.requestContract(doc)
	if err != nil {
		return err
	}
	if err := publishDocument(doc); err != nil {
		return err
	}

	e.Validator = NewRequestValidator()

	e.GET("/health", s.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1", contract)
	v1.POST("/parcels", s.CreateParcel)
	v1.GET("/parcels/:code", s.GetParcel)
	v1.GET("/parcels/:code/history", s.GetHistory)
	v1.GET("/parcels/:code/issues", s.GetIssues)
	v1.GET("/parcels/:code/attempts", s.GetAttempts)
	v1.POST("/parcels/:code/transitions", s.RequestTransition)
	return nil
}

func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}

// CreateParcel handles POST /api/v1/parcels.
func (s *Server) CreateParcel(c echo.Context) error {
	var body NewParcelRequest
	if err := c.Bind(&body); err != nil {
		return respondBadRequest(c, "invalid request body", err)
	}
	if err := c.Validate(&body); err != nil {
		return respondBadRequest(c, "invalid parcel data", err)
	}

	cmd, err := commands.NewCreateParcelCommand(body.TrackingCode, body.OrderRef, body.CustomerRef,
		body.ItemCount, body.Priority, body.Operator)
	if err != nil {
		return s.respondError(c, err)
	}

	p, err := s.handlers.CreateParcel.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.respondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderLocation, "/api/v1/parcels/"+p.TrackingCode().String())
	return c.JSON(http.StatusCreated, toParcelResponse(p))
}

// GetParcel handles GET /api/v1/parcels/:code.
func (s *Server) GetParcel(c echo.Context) error {
	query, err := queries.NewGetParcelSnapshotQuery(c.Param("code"))
	if err != nil {
		return s.respondError(c, err)
	}

	snapshot, err := s.handlers.GetSnapshot.Handle(c.Request().Context(), query)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, snapshot)
}

// GetHistory handles GET /api/v1/parcels/:code/history.
func (s *Server) GetHistory(c echo.Context) error {
	query, err := queries.NewGetParcelHistoryQuery(c.Param("code"))
	if err != nil {
		return s.respondError(c, err)
	}

	intervals, err := s.handlers.GetHistory.Handle(c.Request().Context(), query)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, intervals)
}

// GetIssues handles GET /api/v1/parcels/:code/issues[?unresolved=true].
func (s *Server) GetIssues(c echo.Context) error {
	unresolved := false
	if err := runtime.BindQueryParameter("form", true, false, "unresolved", c.QueryParams(), &unresolved); err != nil {
		return respondBadRequest(c, "unresolved must be true or false", err)
	}

	query, err := queries.NewGetQualityIssuesQuery(c.Param("code"), unresolved)
	if err != nil {
		return s.respondError(c, err)
	}

	issues, err := s.handlers.GetIssues.Handle(c.Request().Context(), query)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, issues)
}

// GetAttempts handles GET /api/v1/parcels/:code/attempts[?limit=n].
func (s *Server) GetAttempts(c echo.Context) error {
	limit := 0
	if err := runtime.BindQueryParameter("form", true, false, "limit", c.QueryParams(), &limit); err != nil {
		return respondBadRequest(c, "limit must be a number", err)
	}

	query, err := queries.NewGetTransitionAttemptsQuery(c.Param("code"), limit)
	if err != nil {
		return s.respondError(c, err)
	}

	attempts, err := s.handlers.GetAttempts.Handle(c.Request().Context(), query)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, attempts)
}

// RequestTransition handles POST /api/v1/parcels/:code/transitions. Requests
// that never become a command are still recorded in the audit trail.
func (s *Server) RequestTransition(c echo.Context) error {
	ctx := c.Request().Context()

	var body TransitionRequestBody
	if err := c.Bind(&body); err != nil {
		return respondBadRequest(c, "invalid request body", err)
	}

	req := commands.TransitionRequest{
		TrackingCode:    c.Param("code"),
		ExpectedVersion: body.ExpectedVersion,
		TargetStage:     body.TargetStage,
		Operator:        body.Operator,
		Note:            body.Note,
	}
	if body.Change != nil {
		req.Change = &history.FieldChange{Field: body.Change.Field, Old: body.Change.Old, New: body.Change.New}
	}

	if err := c.Validate(&body); err != nil {
		s.handlers.RequestTransition.RecordRejectedRequest(ctx, req, invalidBody(err))
		return respondBadRequest(c, "invalid transition request", err)
	}

	if body.Quality != nil {
		req.Resolution = body.Quality.Resolution
		defect, err := toDefect(body.Quality)
		if err != nil {
			s.handlers.RequestTransition.RecordRejectedRequest(ctx, req, err)
			return s.respondError(c, err)
		}
		req.Defect = defect
	}

	cmd, err := commands.NewRequestTransitionCommand(req)
	if err != nil {
		s.handlers.RequestTransition.RecordRejectedRequest(ctx, req, err)
		return s.respondError(c, err)
	}

	result, err := s.transitionWithRetry(ctx, cmd)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, toTransitionResponse(result))
}

// transitionWithRetry resends on ErrTimeout only. Everything else, version
// conflicts included, goes straight back to the station.
func (s *Server) transitionWithRetry(ctx context.Context, cmd commands.RequestTransitionCommand) (commands.TransitionResult, error) {
	var result commands.TransitionResult

	operation := func() error {
		r, err := s.handlers.RequestTransition.Handle(ctx, cmd)
		if err == nil {
			result = r
			return nil
		}
		if errors.Is(err, commands.ErrTimeout) {
			return err
		}
		return backoff.Permanent(err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retry.InitialInterval
	b.MaxInterval = s.retry.MaxInterval
	b.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		s.logger.WithFields(logrus.Fields{
			"tracking_code":    cmd.TrackingCode().String(),
			"expected_version": cmd.ExpectedVersion(),
			"wait":             wait.String(),
		}).WithError(err).Info("transition timed out, retrying")
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(b, s.retry.MaxRetries), ctx), notify)
	return result, err
}

// toDefect builds the defect of a failed check. A quality body without an
// issue type carries only a resolution.
func toDefect(body *QualityBody) (*services.Defect, error) {
	if body.IssueType == "" {
		return nil, nil
	}
	issueType, err := quality.ParseIssueType(body.IssueType)
	if err != nil {
		return nil, err
	}
	severity, err := quality.ParseSeverity(body.Severity)
	if err != nil {
		return nil, err
	}
	return &services.Defect{
		IssueType:   issueType,
		Severity:    severity,
		Description: body.Description,
		Cost:        body.Cost,
	}, nil
}
