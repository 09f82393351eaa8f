package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icfp25/aedificium/pkg/config"
	"github.com/icfp25/aedificium/pkg/database/dbtest"
)

func TestService_SweepsOldCompletedSessions(t *testing.T) {
	client := dbtest.NewTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Sessions.CreateActive(ctx, "11111111-1111-1111-1111-111111111111", nil, strPtr("p1")))
	require.NoError(t, client.Sessions.Complete(ctx, "11111111-1111-1111-1111-111111111111"))
	_, err := client.DB().ExecContext(ctx,
		`UPDATE sessions SET completed_at = $1 WHERE session_id = $2`,
		time.Now().Add(-400*24*time.Hour), "11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)

	cfg := config.RetentionConfig{SessionRetention: 365 * 24 * time.Hour, Interval: time.Hour}
	svc := NewService(cfg, client)
	svc.sweep(ctx)

	_, err = client.Sessions.Get(ctx, "11111111-1111-1111-1111-111111111111")
	assert.Error(t, err, "old completed session should have been swept")
}

func TestService_PreservesRecentSessions(t *testing.T) {
	client := dbtest.NewTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Sessions.CreateActive(ctx, "22222222-2222-2222-2222-222222222222", nil, strPtr("p1")))
	require.NoError(t, client.Sessions.Complete(ctx, "22222222-2222-2222-2222-222222222222"))

	cfg := config.RetentionConfig{SessionRetention: 365 * 24 * time.Hour, Interval: time.Hour}
	svc := NewService(cfg, client)
	svc.sweep(ctx)

	sess, err := client.Sessions.Get(ctx, "22222222-2222-2222-2222-222222222222")
	require.NoError(t, err)
	assert.NotNil(t, sess)
}

func strPtr(s string) *string { return &s }
