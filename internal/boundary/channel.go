package boundary

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
)

// Page-channel message types, part of the wire contract with the companion
// site.
const (
	MessageSyncProfile  = "SYNC_PROFILE"
	MessageRequestOffer = "REQUEST_OFFER"
)

// ChannelMessage is one message received on the companion-site channel. The
// origin is supplied by the transport, never by the sender's payload.
type ChannelMessage struct {
	Type    string              `json:"type"`
	Payload jsoniter.RawMessage `json:"payload,omitempty"`

	Origin string `json:"-"`
}

// ChannelReply answers a page-channel message.
type ChannelReply struct {
	Type  string            `json:"type"`
	OK    bool              `json:"ok"`
	Error string            `json:"error,omitempty"`
	Offer *schemas.JobOffer `json:"offer,omitempty"`
}

// Channel serves the companion site's storage messages. Messages from any
// origin outside the allow list are rejected before their payload is looked
// at.
type Channel struct {
	store   schemas.ProfileStore
	origins map[string]struct{}
	logger  *zap.Logger
}

// NewChannel builds a channel trusting exactly the given origins.
func NewChannel(store schemas.ProfileStore, allowedOrigins []string, logger *zap.Logger) *Channel {
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &Channel{store: store, origins: origins, logger: logger.Named("channel")}
}

// Handle processes one message. Storage is last-write-wins; a sync replaces
// whatever was stored before.
func (c *Channel) Handle(ctx context.Context, msg ChannelMessage) ChannelReply {
	if _, ok := c.origins[msg.Origin]; !ok {
		c.logger.Warn("Rejected message from untrusted origin",
			zap.String("origin", msg.Origin), zap.String("type", msg.Type))
		return ChannelReply{Type: msg.Type, Error: "untrusted origin"}
	}

	switch msg.Type {
	case MessageSyncProfile:
		return c.syncProfile(ctx, msg)
	case MessageRequestOffer:
		return c.requestOffer(ctx, msg)
	default:
		return ChannelReply{Type: msg.Type, Error: fmt.Sprintf("unknown message type %q", msg.Type)}
	}
}

func (c *Channel) syncProfile(ctx context.Context, msg ChannelMessage) ChannelReply {
	var profile schemas.UserProfileData
	if err := wireJSON.Unmarshal(msg.Payload, &profile); err != nil {
		return ChannelReply{Type: msg.Type, Error: fmt.Sprintf("payload is not a profile: %v", err)}
	}
	if err := c.store.SaveProfile(ctx, &profile); err != nil {
		c.logger.Error("Profile sync failed", zap.Error(err))
		return ChannelReply{Type: msg.Type, Error: "storage failure"}
	}
	c.logger.Info("Profile synced", zap.String("origin", msg.Origin))
	return ChannelReply{Type: msg.Type, OK: true}
}

func (c *Channel) requestOffer(ctx context.Context, msg ChannelMessage) ChannelReply {
	stored, err := c.store.LoadOffer(ctx)
	if err != nil {
		c.logger.Error("Offer read failed", zap.Error(err))
		return ChannelReply{Type: msg.Type, Error: "storage failure"}
	}
	// A missing offer is a normal reply, not an error.
	return ChannelReply{Type: msg.Type, OK: true, Offer: stored}
}
