package boundary

import (
	"context"
	"errors"
	"io"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
)

// PageProvider hands the host the page a command should run against.
// Implementations may lazily attach to a browser and cache the session.
type PageProvider func(ctx context.Context) (schemas.Page, error)

// Host serves the framed stdio protocol: engine commands are dispatched to
// the controller, storage messages to the page channel. One message, one
// reply, in order.
type Host struct {
	codec      *Codec
	controller *Controller
	channel    *Channel
	pages      PageProvider
	logger     *zap.Logger
}

func NewHost(codec *Codec, controller *Controller, channel *Channel, pages PageProvider, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{
		codec:      codec,
		controller: controller,
		channel:    channel,
		pages:      pages,
		logger:     logger.Named("host"),
	}
}

// envelope is the union of everything a peer may send: engine commands carry
// an action, storage messages carry a type and the relayed origin.
type envelope struct {
	Action   string              `json:"action,omitempty"`
	Data     jsoniter.RawMessage `json:"data,omitempty"`
	Plan     jsoniter.RawMessage `json:"plan,omitempty"`
	UserData jsoniter.RawMessage `json:"userData,omitempty"`

	Type    string              `json:"type,omitempty"`
	Origin  string              `json:"origin,omitempty"`
	Payload jsoniter.RawMessage `json:"payload,omitempty"`
}

// Serve processes messages until the stream ends or ctx is done. A malformed
// frame ends the session (framing cannot be resynchronized); a malformed
// message inside a valid frame only earns an error reply.
func (h *Host) Serve(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := h.codec.Read()
		if errors.Is(err, io.EOF) {
			h.logger.Info("Peer closed the stream")
			return nil
		}
		if err != nil {
			return err
		}

		var env envelope
		if err := wireJSON.Unmarshal(raw, &env); err != nil {
			h.logger.Warn("Discarding malformed message", zap.Error(err))
			if err := h.codec.Encode(errorResponse("malformed message: %v", err)); err != nil {
				return err
			}
			continue
		}

		if err := h.codec.Encode(h.dispatch(ctx, env)); err != nil {
			return err
		}
	}
}

func (h *Host) dispatch(ctx context.Context, env envelope) interface{} {
	switch {
	case env.Action != "":
		page, err := h.pages(ctx)
		if err != nil {
			h.logger.Error("No page available for command",
				zap.String("action", env.Action), zap.Error(err))
			return errorResponse("page unavailable: %v", err)
		}
		return h.controller.Handle(ctx, page, Command{
			Action:   env.Action,
			Data:     env.Data,
			Plan:     env.Plan,
			UserData: env.UserData,
		})
	case env.Type != "":
		return h.channel.Handle(ctx, ChannelMessage{
			Type:    env.Type,
			Payload: env.Payload,
			Origin:  env.Origin,
		})
	default:
		return errorResponse("message carries neither an action nor a type")
	}
}
