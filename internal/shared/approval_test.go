package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestApprovalLogNormalized(t *testing.T) {
	log := ApprovalLog{Module: "invoice", RefID: uuid.New(), Action: ApprovalApprove}
	got := log.normalized()
	require.False(t, got.At.IsZero())
	require.WithinDuration(t, time.Now(), got.At, time.Minute)

	fixed := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	log.At = fixed
	require.Equal(t, fixed, log.normalized().At)
}
