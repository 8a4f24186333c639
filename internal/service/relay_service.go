package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"walletbridge/relay/internal/model"
	"walletbridge/relay/internal/repository"
)

// RelayService is the façade over the pairing store. It generates
// correlation ids, serializes payloads, and maps store outcomes onto the
// service error taxonomy. It holds no state between calls.
type RelayService interface {
	// CreateRequest stores a new request under a fresh correlation id.
	CreateRequest(ctx context.Context, payload model.Payload) (uuid.UUID, error)
	// PutRequest is the retry-safe creation path with a caller-supplied
	// id. created reports whether this call was the first write.
	PutRequest(ctx context.Context, id uuid.UUID, payload model.Payload) (created bool, err error)
	HasRequest(ctx context.Context, id uuid.UUID) (bool, error)
	// ClaimRequest consumes the request payload, returning the stored
	// bytes verbatim. At most one caller ever receives them.
	ClaimRequest(ctx context.Context, id uuid.UUID) ([]byte, error)
	SubmitResponse(ctx context.Context, id uuid.UUID, payload model.Payload) error
	// FetchResponse consumes and returns the response payload if one is
	// present; otherwise it reports the pairing's current status.
	FetchResponse(ctx context.Context, id uuid.UUID) (body []byte, status model.Status, err error)
}

type relayService struct {
	pairings         repository.PairingStore
	logger           *zap.Logger
	idempotentCreate bool
}

// NewRelayService wires the relay façade. idempotentCreate enables the
// caller-supplied-id creation path; it is an explicit construction-time
// flag, never read from the environment in request scope.
func NewRelayService(pairings repository.PairingStore, logger *zap.Logger, idempotentCreate bool) RelayService {
	return &relayService{
		pairings:         pairings,
		logger:           logger,
		idempotentCreate: idempotentCreate,
	}
}

func (s *relayService) CreateRequest(ctx context.Context, payload model.Payload) (uuid.UUID, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal request payload: %w", err)
	}

	id := uuid.New()
	created, err := s.pairings.CreateRequest(ctx, id, body)
	if err != nil {
		s.logger.Error("create request failed",
			zap.String("request_id", id.String()), zap.Error(err))
		return uuid.Nil, fmt.Errorf("create request: %w", err)
	}
	if !created {
		// A v4 collision; the caller retries with a new id.
		return uuid.Nil, ErrAlreadyExists
	}

	s.logTransition(id, "new", model.StatusInitialized.String())
	return id, nil
}

func (s *relayService) PutRequest(ctx context.Context, id uuid.UUID, payload model.Payload) (bool, error) {
	if !s.idempotentCreate {
		return false, ErrIdempotentDisabled
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("marshal request payload: %w", err)
	}

	created, err := s.pairings.CreateRequestIdempotent(ctx, id, body)
	if err != nil {
		s.logger.Error("put request failed",
			zap.String("request_id", id.String()), zap.Error(err))
		return false, fmt.Errorf("put request: %w", err)
	}
	if created {
		s.logTransition(id, "new", model.StatusInitialized.String())
	}
	return created, nil
}

func (s *relayService) HasRequest(ctx context.Context, id uuid.UUID) (bool, error) {
	exists, err := s.pairings.HasRequest(ctx, id)
	if err != nil {
		s.logger.Error("check request failed",
			zap.String("request_id", id.String()), zap.Error(err))
		return false, fmt.Errorf("check request: %w", err)
	}
	return exists, nil
}

func (s *relayService) ClaimRequest(ctx context.Context, id uuid.UUID) ([]byte, error) {
	prev, body, err := s.pairings.ClaimRequest(ctx, id)
	if err != nil {
		s.logger.Error("claim request failed",
			zap.String("request_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("claim request: %w", err)
	}
	if body == nil {
		return nil, ErrNotFound
	}

	// A validly written payload always round-trips; failure here means
	// storage corruption, not caller error.
	var payload model.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		s.logger.Error("stored request payload is malformed",
			zap.String("request_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("decode request payload: %w", err)
	}

	s.logTransition(id, prev.String(), model.StatusRetrieved.String())
	return body, nil
}

func (s *relayService) SubmitResponse(ctx context.Context, id uuid.UUID, payload model.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal response payload: %w", err)
	}

	result, err := s.pairings.SubmitResponse(ctx, id, body)
	if err != nil {
		s.logger.Error("submit response failed",
			zap.String("request_id", id.String()), zap.Error(err))
		return fmt.Errorf("submit response: %w", err)
	}

	switch result {
	case repository.SubmitNotInitialized:
		return ErrNotInitialized
	case repository.SubmitDuplicate:
		return ErrAlreadySubmitted
	}

	s.logger.Info("response stored, pairing completed",
		zap.String("request_id", id.String()))
	return nil
}

func (s *relayService) FetchResponse(ctx context.Context, id uuid.UUID) ([]byte, model.Status, error) {
	body, status, err := s.pairings.FetchResponseOrStatus(ctx, id)
	if err != nil {
		s.logger.Error("fetch response failed",
			zap.String("request_id", id.String()), zap.Error(err))
		return nil, "", fmt.Errorf("fetch response: %w", err)
	}
	if body == nil && status == "" {
		return nil, "", ErrNotFound
	}
	return body, status, nil
}

func (s *relayService) logTransition(id uuid.UUID, from, to string) {
	s.logger.Info("request state transition",
		zap.String("request_id", id.String()),
		zap.String("from", from),
		zap.String("to", to),
	)
}
