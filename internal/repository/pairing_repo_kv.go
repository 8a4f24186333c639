package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"walletbridge/relay/internal/model"
)

// Three logical tables in one flat keyspace. The payload key is reused
// across both legs (request while unclaimed, response under res: once
// answered), with the status key recording which leg is active.
const (
	reqKeyPrefix       = "req:"
	reqStatusKeyPrefix = "req:status:"
	resKeyPrefix       = "res:"
)

func requestKey(id uuid.UUID) string {
	return reqKeyPrefix + id.String()
}

func statusKey(id uuid.UUID) string {
	return reqStatusKeyPrefix + id.String()
}

func responseKey(id uuid.UUID) string {
	return resKeyPrefix + id.String()
}

type kvPairingStore struct {
	kv  KVStore
	ttl time.Duration
}

// NewKVPairingStore builds a PairingStore on top of an ephemeral KV
// store. ttl is applied to every write and refresh; there is no
// per-record override.
func NewKVPairingStore(kv KVStore, ttl time.Duration) PairingStore {
	return &kvPairingStore{kv: kv, ttl: ttl}
}

func (s *kvPairingStore) CreateRequest(ctx context.Context, id uuid.UUID, body []byte) (bool, error) {
	ok, err := s.kv.SetNX(ctx, requestKey(id), body, s.ttl)
	if err != nil {
		return false, fmt.Errorf("store request payload: %w", err)
	}
	if !ok {
		return false, nil
	}
	// The payload write above is the race arbiter, but the status key
	// can exist on its own for a claimed-but-unanswered pairing. Losing
	// the status write means the id is still in use: undo the payload
	// write and reject, rather than regress the status to initialized.
	ok, err = s.kv.SetNX(ctx, statusKey(id), []byte(model.StatusInitialized), s.ttl)
	if err != nil {
		return false, fmt.Errorf("store request status: %w", err)
	}
	if !ok {
		if err := s.kv.Delete(ctx, requestKey(id)); err != nil {
			return false, fmt.Errorf("undo request payload: %w", err)
		}
		return false, nil
	}
	return true, nil
}

func (s *kvPairingStore) CreateRequestIdempotent(ctx context.Context, id uuid.UUID, body []byte) (bool, error) {
	// The status key, not the payload key, is the arbiter here: it
	// outlives the claim, so a resend arriving after the payload was
	// consumed cannot resurrect the payload or regress the status.
	fresh, err := s.kv.SetNX(ctx, statusKey(id), []byte(model.StatusInitialized), s.ttl)
	if err != nil {
		return false, fmt.Errorf("store request status: %w", err)
	}
	if !fresh {
		// Resend of a live id: refresh TTLs, touch nothing else.
		if err := s.kv.Expire(ctx, statusKey(id), s.ttl); err != nil {
			return false, fmt.Errorf("refresh status ttl: %w", err)
		}
		if err := s.kv.Expire(ctx, requestKey(id), s.ttl); err != nil {
			return false, fmt.Errorf("refresh request ttl: %w", err)
		}
		return false, nil
	}
	if _, err := s.kv.SetNX(ctx, requestKey(id), body, s.ttl); err != nil {
		return false, fmt.Errorf("store request payload: %w", err)
	}
	return true, nil
}

func (s *kvPairingStore) ClaimRequest(ctx context.Context, id uuid.UUID) (model.Status, []byte, error) {
	rawStatus, body, err := s.kv.GetAndConsume(ctx, statusKey(id), requestKey(id))
	if err != nil {
		return "", nil, fmt.Errorf("consume request payload: %w", err)
	}
	if body == nil {
		return "", nil, nil
	}

	prev := model.StatusInitialized
	if parsed, perr := model.ParseStatus(string(rawStatus)); perr == nil {
		prev = parsed
	}

	if err := s.kv.Set(ctx, statusKey(id), []byte(model.StatusRetrieved), s.ttl); err != nil {
		return "", nil, fmt.Errorf("advance request status: %w", err)
	}
	return prev, body, nil
}

func (s *kvPairingStore) SubmitResponse(ctx context.Context, id uuid.UUID, body []byte) (SubmitResult, error) {
	exists, err := s.kv.Exists(ctx, statusKey(id))
	if err != nil {
		return 0, fmt.Errorf("check request status: %w", err)
	}
	if !exists {
		return SubmitNotInitialized, nil
	}

	ok, err := s.kv.SetNX(ctx, responseKey(id), body, s.ttl)
	if err != nil {
		return 0, fmt.Errorf("store response payload: %w", err)
	}
	if !ok {
		return SubmitDuplicate, nil
	}

	// Completion is implied by response presence; the status key's job
	// is done.
	if err := s.kv.Delete(ctx, statusKey(id)); err != nil {
		return 0, fmt.Errorf("delete request status: %w", err)
	}
	return SubmitCreated, nil
}

func (s *kvPairingStore) FetchResponseOrStatus(ctx context.Context, id uuid.UUID) ([]byte, model.Status, error) {
	rawStatus, body, err := s.kv.GetAndConsume(ctx, statusKey(id), responseKey(id))
	if err != nil {
		return nil, "", fmt.Errorf("consume response payload: %w", err)
	}
	if body != nil {
		return body, "", nil
	}
	if rawStatus == nil {
		return nil, "", nil
	}

	status, err := model.ParseStatus(string(rawStatus))
	if err != nil {
		return nil, "", fmt.Errorf("stored status: %w", err)
	}
	return nil, status, nil
}

func (s *kvPairingStore) HasRequest(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.kv.Exists(ctx, statusKey(id))
}
