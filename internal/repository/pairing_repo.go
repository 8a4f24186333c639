package repository

import (
	"context"

	"github.com/google/uuid"

	"walletbridge/relay/internal/model"
)

// SubmitResult is the outcome of a response submission attempt.
type SubmitResult int

const (
	// SubmitCreated means this caller won the single response write.
	SubmitCreated SubmitResult = iota
	// SubmitNotInitialized means no request lifecycle exists for the id.
	SubmitNotInitialized
	// SubmitDuplicate means a response was already stored for the id.
	SubmitDuplicate
)

// PairingStore owns one pairing's fields (status, request payload,
// response payload) keyed by correlation id, and enforces the protocol's
// atomicity rules on top of the key-value store's primitives.
//
// All records carry the store-enforced TTL; an expired record is
// indistinguishable from one that never existed.
type PairingStore interface {
	// CreateRequest stores the request payload and an initialized status.
	// The payload key is the single arbiter: if it already exists the
	// whole operation is rejected (created=false) with nothing modified.
	CreateRequest(ctx context.Context, id uuid.UUID, body []byte) (created bool, err error)

	// CreateRequestIdempotent is the retry-safe variant: an existing
	// record is treated as a successful resend (created=false), leaving
	// status and payload untouched but refreshing both TTLs.
	CreateRequestIdempotent(ctx context.Context, id uuid.UUID, body []byte) (created bool, err error)

	// ClaimRequest atomically reads the status and read-deletes the
	// request payload, then advances the status to retrieved. A nil body
	// means not found, which deliberately covers never-created,
	// already-claimed, and expired alike.
	ClaimRequest(ctx context.Context, id uuid.UUID) (prev model.Status, body []byte, err error)

	// SubmitResponse stores the response payload at most once. The
	// request lifecycle must have started (status key present); on a
	// winning write the status key is deleted, since completion is
	// signaled by response presence from then on.
	SubmitResponse(ctx context.Context, id uuid.UUID, body []byte) (SubmitResult, error)

	// FetchResponseOrStatus atomically read-deletes the response payload
	// and reads the status. A non-nil body is the consumed response; a
	// non-empty status means the pairing is still in flight; both zero
	// means not found.
	FetchResponseOrStatus(ctx context.Context, id uuid.UUID) (body []byte, status model.Status, err error)

	// HasRequest reports whether a request lifecycle exists for the id.
	HasRequest(ctx context.Context, id uuid.UUID) (bool, error)
}
