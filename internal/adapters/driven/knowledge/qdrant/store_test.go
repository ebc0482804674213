package qdrant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestRPCErr_DeadlineClassifiedAsTimeout(t *testing.T) {
	cause := status.Error(codes.DeadlineExceeded, "context deadline exceeded")

	// The raw status error is not recognised as a context timeout.
	assert.NotErrorIs(t, cause, context.DeadlineExceeded)

	err := rpcErr("search", cause)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "qdrant search")
}

func TestRPCErr_OtherCodesPassThrough(t *testing.T) {
	cause := status.Error(codes.Unavailable, "connection refused")

	err := rpcErr("upsert", cause)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, cause)
}

func TestDeadline(t *testing.T) {
	s := &Store{timeout: time.Minute}
	ctx, cancel := s.deadline(context.Background())
	defer cancel()
	_, ok := ctx.Deadline()
	assert.True(t, ok, "configured timeout must set a per-call deadline")

	s = &Store{}
	ctx, cancel = s.deadline(context.Background())
	defer cancel()
	_, ok = ctx.Deadline()
	assert.False(t, ok, "zero timeout leaves the caller's context untouched")
}

func TestPointID_Deterministic(t *testing.T) {
	assert.Equal(t, pointID("act:0001"), pointID("act:0001"))
	assert.NotEqual(t, pointID("act:0001"), pointID("act:0002"))
}
