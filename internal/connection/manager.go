// Package connection manages the mirrored connection records between two profiles.
package connection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/collab-matcher/internal/logger"
	"github.com/spigell/collab-matcher/internal/profile"
	"github.com/spigell/collab-matcher/internal/storage"
)

// Store is the part of the profile store the manager needs.
type Store interface {
	GetByID(ctx context.Context, id string) (*profile.Profile, error)
	Query(ctx context.Context, q profile.Query) ([]*profile.Profile, error)
	UpdatePair(ctx context.Context, ownerID, peerID string, fn storage.PairUpdate) error
}

// Manager runs connection transitions. Updates for one pair are serialized
// in process and written in a single store transaction.
type Manager struct {
	store  Store
	locks  pairLocks
	now    func() time.Time
	logger *zap.Logger
}

// Entry is one line of a connection listing.
type Entry struct {
	Peer        profile.Summary `json:"user"`
	Status      profile.Status  `json:"status"`
	InitiatedBy string          `json:"initiatedBy,omitempty"`
	ConnectedAt time.Time       `json:"connectedAt"`
}

func NewManager(store Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		logger: log,
	}
}

// Send creates a pending request from fromID to toID on both sides.
func (m *Manager) Send(ctx context.Context, fromID, toID string) (profile.ConnectionRecord, error) {
	fromID, toID = strings.TrimSpace(fromID), strings.TrimSpace(toID)
	if fromID == toID {
		return profile.ConnectionRecord{}, profile.ErrSelfConnection
	}
	if err := m.ensureExists(ctx, fromID, toID); err != nil {
		return profile.ConnectionRecord{}, err
	}

	unlock := m.locks.lock(fromID, toID)
	defer unlock()

	var created profile.ConnectionRecord
	err := m.store.UpdatePair(ctx, fromID, toID, func(own, mirror *profile.ConnectionRecord) ([]profile.ConnectionRecord, error) {
		if own != nil {
			return nil, fmt.Errorf("%w: connection already %s", profile.ErrConflict, own.Status)
		}
		if mirror != nil {
			return nil, fmt.Errorf("%w: connection already %s", profile.ErrConflict, mirror.Status)
		}

		created = profile.ConnectionRecord{
			OwnerID:     fromID,
			PeerID:      toID,
			Status:      profile.StatusPending,
			InitiatedBy: fromID,
			ConnectedAt: m.now(),
		}
		return []profile.ConnectionRecord{created, created.Mirror()}, nil
	})
	if err != nil {
		return profile.ConnectionRecord{}, fmt.Errorf("send connection request: %w", err)
	}

	m.logger.Info("connection request sent", logger.PairFields(fromID, toID)...)
	return created, nil
}

// Accept moves a pending request received by selfID from peerID to accepted.
func (m *Manager) Accept(ctx context.Context, selfID, peerID string) (profile.ConnectionRecord, error) {
	return m.respond(ctx, selfID, peerID, profile.EventAccept)
}

// Reject moves a pending request received by selfID from peerID to rejected.
func (m *Manager) Reject(ctx context.Context, selfID, peerID string) (profile.ConnectionRecord, error) {
	return m.respond(ctx, selfID, peerID, profile.EventReject)
}

func (m *Manager) respond(ctx context.Context, selfID, peerID string, event profile.Event) (profile.ConnectionRecord, error) {
	selfID, peerID = strings.TrimSpace(selfID), strings.TrimSpace(peerID)
	if selfID == peerID {
		return profile.ConnectionRecord{}, profile.ErrSelfConnection
	}
	// A deleted peer must not get its mirror record recreated.
	if err := m.ensureExists(ctx, selfID, peerID); err != nil {
		return profile.ConnectionRecord{}, err
	}

	unlock := m.locks.lock(selfID, peerID)
	defer unlock()

	log := m.logger.With(logger.PairFields(selfID, peerID)...)

	var updated profile.ConnectionRecord
	err := m.store.UpdatePair(ctx, selfID, peerID, func(own, mirror *profile.ConnectionRecord) ([]profile.ConnectionRecord, error) {
		if own == nil {
			return nil, fmt.Errorf("connection request from %s: %w", peerID, profile.ErrNotFound)
		}
		if own.InitiatedBy == selfID {
			return nil, fmt.Errorf("%w: only %s can respond to this request", profile.ErrInvalidTransition, peerID)
		}

		next, err := own.Status.Next(event)
		if err != nil {
			return nil, err
		}

		updated = *own
		updated.Status = next

		peerSide := updated.Mirror()
		if mirror != nil {
			peerSide = *mirror
			peerSide.Status = next
		} else {
			log.Warn("mirror connection record missing, recreating it", zap.String("status", string(next)))
		}

		return []profile.ConnectionRecord{updated, peerSide}, nil
	})
	if err != nil {
		return profile.ConnectionRecord{}, fmt.Errorf("%s connection: %w", event, err)
	}

	log.Info("connection updated", zap.String("status", string(updated.Status)))
	return updated, nil
}

// List returns selfID's connection records with a summary of each peer.
// Peers that no longer exist are listed with their ID only.
func (m *Manager) List(ctx context.Context, selfID string) ([]Entry, error) {
	self, err := m.store.GetByID(ctx, selfID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if len(self.Connections) == 0 {
		return []Entry{}, nil
	}

	ids := make([]string, 0, len(self.Connections))
	for _, rec := range self.Connections {
		ids = append(ids, rec.PeerID)
	}

	peers, err := m.store.Query(ctx, profile.Query{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("load peers: %w", err)
	}
	byID := make(map[string]*profile.Profile, len(peers))
	for _, p := range peers {
		byID[p.ID] = p
	}

	entries := make([]Entry, 0, len(self.Connections))
	for _, rec := range self.Connections {
		summary := profile.Summary{ID: rec.PeerID}
		if p, ok := byID[rec.PeerID]; ok {
			summary = p.Summarize()
		}
		entries = append(entries, Entry{
			Peer:        summary,
			Status:      rec.Status,
			InitiatedBy: rec.InitiatedBy,
			ConnectedAt: rec.ConnectedAt,
		})
	}
	return entries, nil
}

func (m *Manager) ensureExists(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if _, err := m.store.GetByID(ctx, id); err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
	}
	return nil
}
