package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medpredict/pkg/domain/model"
	"github.com/secmon-lab/medpredict/pkg/service/animator"
	"github.com/secmon-lab/medpredict/pkg/utils/async"
)

// HandleStream upgrades to a websocket and streams the animated gauge. Each
// connection owns one animator which is closed when the viewer goes away.
func (h *GaugeHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		ctxlog.From(r.Context()).Warn("Failed to upgrade gauge stream", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	h.metrics.Viewers.Inc()
	defer h.metrics.Viewers.Dec()

	if err := h.stream(ctx, cancel, conn); err != nil {
		ctxlog.From(ctx).Debug("Gauge stream closed", "error", err)
	}
}

func (h *GaugeHandler) stream(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn) error {
	feed, unsubscribe := h.dashboardUC.Subscribe()
	defer unsubscribe()

	var initial model.AnimationState
	select {
	case target := <-feed:
		initial = model.AnimationState{Displayed: target, Target: target}
	case <-ctx.Done():
		return ctx.Err()
	}

	// Latest state wins; a slow viewer skips intermediate frames
	ticks := make(chan model.AnimationState, 1)
	anim := animator.New(initial.Displayed,
		animator.WithInterval(h.config.tickInterval),
		animator.WithOnTick(func(state model.AnimationState) {
			h.metrics.AnimationTicks.Inc()
			select {
			case <-ticks:
			default:
			}
			select {
			case ticks <- state:
			default:
			}
		}),
	)
	defer anim.Close()

	// Reads only detect the peer closing the connection
	conn.SetReadLimit(streamReadLimit)
	async.Dispatch(ctx, func(ctx context.Context) error {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return nil
			}
		}
	})

	last := initial
	if err := h.send(conn, initial); err != nil {
		return err
	}
	// send skips a state identical to the one just sent
	send := func(state model.AnimationState) error {
		if state == last {
			return nil
		}
		last = state
		return h.send(conn, state)
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(streamWriteTimeout))
			return ctx.Err()

		case target, ok := <-feed:
			if !ok {
				return goerr.New("target feed closed")
			}
			anim.SetTarget(target)
			ctxlog.From(ctx).Debug("Gauge retargeted", "target", target)
			if state := anim.State(); !state.Running {
				if err := send(state); err != nil {
					return err
				}
			}

		case state := <-ticks:
			if err := send(state); err != nil {
				return err
			}
		}
	}
}

func (h *GaugeHandler) send(conn *websocket.Conn, state model.AnimationState) error {
	frame, err := h.frame(state)
	if err != nil {
		return goerr.Wrap(err, "failed to build gauge frame", goerr.V("displayed", state.Displayed))
	}
	if err := conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout)); err != nil {
		return goerr.Wrap(err, "failed to set write deadline")
	}
	if err := conn.WriteJSON(frame); err != nil {
		return goerr.Wrap(err, "failed to write gauge frame", goerr.V("displayed", state.Displayed))
	}
	return nil
}
