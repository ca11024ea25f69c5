package server

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// wsPeer wraps one live client connection with a serialized JSON encoder.
// Frames may be written from any session goroutine, so writes lock.
type wsPeer struct {
	id      string
	mu      sync.Mutex
	encoder *json.Encoder
}

func newWSPeer(encoder *json.Encoder) *wsPeer {
	return &wsPeer{
		id:      uuid.NewString(),
		encoder: encoder,
	}
}

func (p *wsPeer) writeFrame(frame any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(frame)
}

// peerRegistry tracks the live connection set and owns best-effort fan-out.
// The lock guards only set mutation and snapshots, never a network write.
type peerRegistry struct {
	mu    sync.Mutex
	peers map[*wsPeer]struct{}
}

func newPeerRegistry() *peerRegistry {
	return &peerRegistry{peers: make(map[*wsPeer]struct{})}
}

func (r *peerRegistry) register(peer *wsPeer) {
	r.mu.Lock()
	r.peers[peer] = struct{}{}
	r.mu.Unlock()
}

// unregister is idempotent; removing an absent peer is a no-op.
func (r *peerRegistry) unregister(peer *wsPeer) {
	r.mu.Lock()
	delete(r.peers, peer)
	r.mu.Unlock()
}

func (r *peerRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.peers)
}

func (r *peerRegistry) snapshot(exclude *wsPeer) []*wsPeer {
	r.mu.Lock()
	defer r.mu.Unlock()

	peers := make([]*wsPeer, 0, len(r.peers))
	for peer := range r.peers {
		if peer == exclude {
			continue
		}
		peers = append(peers, peer)
	}
	return peers
}

// broadcast delivers a frame to every registered peer except exclude.
// The peer set is snapshotted first and failed peers are removed after
// the loop, so one dead connection cannot stall or corrupt the fan-out.
func (r *peerRegistry) broadcast(frame any, exclude *wsPeer) {
	var failed []*wsPeer
	for _, peer := range r.snapshot(exclude) {
		if err := peer.writeFrame(frame); err != nil {
			log.Printf("chat: broadcast to peer %s failed, dropping connection: %v", peer.id, err)
			failed = append(failed, peer)
		}
	}
	for _, peer := range failed {
		r.unregister(peer)
	}
}

// sendTo delivers a frame to exactly one peer. The delivery error is
// surfaced so the session loop can decide whether to drop the peer.
func (r *peerRegistry) sendTo(peer *wsPeer, frame any) error {
	return peer.writeFrame(frame)
}
