package boundary

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
	"github.com/jobswipe/jobswipe-cli/internal/mocks"
)

// runHost feeds the frames through a host and returns the decoded replies.
func runHost(t *testing.T, page schemas.Page, store *mocks.StoreMock, frames ...interface{}) []map[string]interface{} {
	t.Helper()

	var in, out bytes.Buffer
	feeder := NewCodec(nil, &in)
	for _, frame := range frames {
		require.NoError(t, feeder.Encode(frame))
	}

	host := NewHost(
		NewCodec(&in, &out),
		newTestController(store),
		NewChannel(store, []string{trustedOrigin}, zap.NewNop()),
		func(context.Context) (schemas.Page, error) { return page, nil },
		zap.NewNop(),
	)
	require.NoError(t, host.Serve(context.Background()))

	drain := NewCodec(&out, nil)
	var replies []map[string]interface{}
	for range frames {
		var reply map[string]interface{}
		require.NoError(t, drain.Decode(&reply))
		replies = append(replies, reply)
	}
	return replies
}

func TestHostServesCommandsInOrder(t *testing.T) {
	page := mocks.MustNewPage(boundaryFormHTML)
	store := mocks.NewStore()

	replies := runHost(t, page, store,
		map[string]interface{}{"action": ActionAnalyzeForm},
		map[string]interface{}{"action": ActionScanJobOffer},
		map[string]interface{}{
			"type":    MessageRequestOffer,
			"origin":  trustedOrigin,
			"payload": map[string]interface{}{},
		},
	)
	require.Len(t, replies, 3)

	assert.Contains(t, replies[0], "fields")
	assert.Equal(t, "Backend Engineer", replies[1]["data"].(map[string]interface{})["title"])
	// The offer scanned by the second command is visible to the third.
	assert.Equal(t, "Backend Engineer", replies[2]["offer"].(map[string]interface{})["title"])
}

func TestHostRejectsDirectionlessMessage(t *testing.T) {
	page := mocks.MustNewPage(boundaryFormHTML)
	replies := runHost(t, page, mocks.NewStore(),
		map[string]interface{}{"hello": "world"},
	)
	require.Len(t, replies, 1)
	assert.Equal(t, "error", replies[0]["status"])
}

func TestHostStopsOnCancelledContext(t *testing.T) {
	var in, out bytes.Buffer
	host := NewHost(
		NewCodec(&in, &out),
		newTestController(nil),
		NewChannel(mocks.NewStore(), nil, nil),
		func(ctx context.Context) (schemas.Page, error) { return nil, ctx.Err() },
		nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, host.Serve(ctx), context.Canceled)
}
