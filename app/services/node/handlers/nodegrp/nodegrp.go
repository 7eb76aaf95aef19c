// Package nodegrp maintains the group of handlers for the node's ledger,
// peer registry and consensus access.
package nodegrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jgagnon1/blockchain/business/sys/validate"
	"github.com/jgagnon1/blockchain/business/web/errs"
	"github.com/jgagnon1/blockchain/foundation/blockchain/peer"
	"github.com/jgagnon1/blockchain/foundation/blockchain/state"
	"github.com/jgagnon1/blockchain/foundation/events"
	"github.com/jgagnon1/blockchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// Routes binds all the node routes.
func Routes(app *web.App, cfg Config) {
	ndg := Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, "", "/chain", ndg.Chain)
	app.Handle(http.MethodPost, "", "/transaction", ndg.SubmitTransaction)
	app.Handle(http.MethodPost, "", "/mine", ndg.Mine)
	app.Handle(http.MethodPost, "", "/node/register", ndg.RegisterNode)
	app.Handle(http.MethodGet, "", "/nodes", ndg.Nodes)
	app.Handle(http.MethodPost, "", "/node/resolve", ndg.Resolve)
	app.Handle(http.MethodGet, "", "/node/info", ndg.Info)
	app.Handle(http.MethodGet, "", "/events", ndg.Events)
}

// =============================================================================

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Chain returns the full chain from genesis to the latest block as a bare
// array. Peers decode exactly this shape when resolving conflicts.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveChain(), http.StatusOK)
}

// SubmitTransaction queues a new transaction for the next mined block.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var newTx newTx
	if err := web.Decode(r, &newTx); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(newTx); err != nil {
		return err
	}

	index := h.State.SubmitTransaction(newTx.Sender, newTx.Recipient, newTx.Amount)
	h.Log.Infow("add tran", "traceid", v.TraceID, "sender", newTx.Sender, "recipient", newTx.Recipient, "amount", newTx.Amount, "block", index)

	ack := txAck{
		Status:     "transaction queued for mining",
		BlockIndex: index,
	}

	return web.Respond(ctx, w, ack, http.StatusCreated)
}

// Mine seals every pending transaction plus the mining reward into a new
// block on the chain.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	block := h.State.MineNewBlock()
	h.Log.Infow("mine block", "traceid", v.TraceID, "block", block.Index, "seal", block.Seal, "trans", len(block.Transactions))

	return web.Respond(ctx, w, block, http.StatusOK)
}

// RegisterNode adds a peer to the known set. The same route serves both
// clients introducing a peer and peers announcing themselves.
func (h Handlers) RegisterNode(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var reg registerNode
	if err := web.Decode(r, &reg); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(reg); err != nil {
		return err
	}

	added, err := h.State.RegisterPeer(peer.New(reg.Address))
	if err != nil {
		if errors.Is(err, peer.ErrDisabled) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}

		// The announce to the remote failed, so the peer was not kept.
		return errs.NewTrusted(err, http.StatusBadGateway)
	}

	total := len(h.State.RetrieveKnownPeers())
	h.Log.Infow("register node", "traceid", v.TraceID, "peer", reg.Address, "added", added, "total", total)

	if !added {
		ack := registerAck{
			Status:    "peer already registered",
			PeerIndex: total,
		}
		return web.Respond(ctx, w, ack, http.StatusOK)
	}

	ack := registerAck{
		Status:    "peer registered",
		PeerIndex: total,
	}

	return web.Respond(ctx, w, ack, http.StatusCreated)
}

// Nodes returns the set of peers this node knows, excluding itself.
func (h Handlers) Nodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	peers := h.State.RetrieveKnownPeers()
	if peers == nil {
		peers = []peer.Peer{}
	}

	list := nodeList{
		Nodes: peers,
		Total: len(peers),
	}

	return web.Respond(ctx, w, list, http.StatusOK)
}

// Resolve runs the consensus algorithm against every known peer's chain
// and responds with the outcome and the resulting local chain.
func (h Handlers) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	replaced := h.State.ResolveConflicts()
	h.Log.Infow("resolve conflicts", "traceid", v.TraceID, "replaced", replaced)

	message := "local chain is authoritative"
	if replaced {
		message = "local chain was replaced"
	}

	result := resolveResult{
		Message: message,
		Chain:   h.State.RetrieveChain(),
	}

	return web.Respond(ctx, w, result, http.StatusOK)
}

// Info returns the identity of this node.
func (h Handlers) Info(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	info := nodeInfo{
		NodeID:  h.State.RetrieveNodeID(),
		Address: h.State.RetrieveHost(),
	}

	return web.Respond(ctx, w, info, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}
