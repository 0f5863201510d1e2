// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package parknowuc

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/parksmart/parknow/pkg/core/log"
	"github.com/parksmart/parknow/pkg/core/model"
)

// Session holds the state of one Park Now view during its lifetime.
// Its Start method launches the station fetch and the user location
// resolution concurrently. Their results are applied, as events, in
// whatever order they complete. The Close method plays the role of a
// cancellation token; results which arrive after Close are discarded.
//
// Snapshots which are returned by Wait and SetQuery report the map
// Recenter flag as true if the map center has changed at any point
// since the previously returned snapshot, so a caller observes the
// same map regardless of the completion order of the loads.
//
// All methods are safe for concurrent use.
type Session struct {
	id       uuid.UUID
	uc       *UseCase
	device   *model.Coordinate
	clientIP string

	mu      sync.Mutex
	snap    Snapshot
	started bool
	closed  bool
	changed chan struct{} // closed and replaced after each update

	recentered bool // center changed since the last handed out snapshot
	cancel  context.CancelFunc
}

// ID returns the s session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Start launches the one-shot station fetch and user location
// resolution. Calling Start more than once or after Close has no
// effect. Both operations observe the ctx context and are cancelled
// by the Close method too.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.closed {
		return
	}
	s.started = true
	ctx, s.cancel = context.WithCancel(ctx)
	log.Debug(ctx, "starting park-now session",
		log.Stringer("session", s.id),
	)
	go func() {
		stations, err := s.uc.stations.Fetch(ctx)
		if err != nil {
			log.Warn(ctx, "fetching stations failed",
				log.Stringer("session", s.id), log.Err("err", err),
			)
		}
		s.deliver(ctx, StationsFetched{
			Result: Result[[]model.Station]{Value: stations, Err: err},
		})
	}()
	go func() {
		loc := s.uc.resolver.Resolve(ctx, s.device, s.clientIP)
		s.deliver(ctx, LocationResolved{Location: loc})
	}()
}

// deliver applies ev on the current snapshot unless s is closed.
func (s *Session) deliver(ctx context.Context, ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		log.Debug(ctx, "discarding result of a closed session",
			log.Stringer("session", s.id),
			slog.String("event", eventName(ev)),
		)
		return
	}
	s.apply(ev)
}

// apply must be called while s.mu is held.
func (s *Session) apply(ev Event) {
	s.snap = s.snap.Update(ev)
	s.recentered = s.recentered || s.snap.Map.Recenter
	close(s.changed)
	s.changed = make(chan struct{})
}

// handOut returns the current snapshot with the accumulated Recenter
// flag and resets it. It must be called while s.mu is held.
func (s *Session) handOut() Snapshot {
	snap := s.snap
	snap.Map.Recenter = s.recentered
	s.recentered = false
	return snap
}

// SetQuery applies a QueryChanged event and returns the resulting
// snapshot. After Close, the query is ignored and the last snapshot
// is returned.
func (s *Session) SetQuery(query string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.apply(QueryChanged{Query: query})
	}
	return s.handOut()
}

// Snapshot returns the latest snapshot of s session. It does not reset
// the Recenter flag which is accumulated for Wait and SetQuery.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Wait blocks until both the station fetch and the user location
// resolution are applied, and returns the resulting snapshot.
// If ctx is done earlier, the latest snapshot and ctx.Err() are
// returned. Waiting on a closed session returns its last snapshot.
func (s *Session) Wait(ctx context.Context) (Snapshot, error) {
	for {
		s.mu.Lock()
		if s.closed || s.snap.Loaded() {
			snap := s.handOut()
			s.mu.Unlock()
			return snap, nil
		}
		ch := s.changed
		s.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.handOut(), ctx.Err()
		}
	}
}

// Close tears down the s session. Pending operations are cancelled and
// their late results will not modify the session snapshot anymore.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	close(s.changed)
}

func eventName(ev Event) string {
	switch ev.(type) {
	case QueryChanged:
		return "query-changed"
	case StationsFetched:
		return "stations-fetched"
	case LocationResolved:
		return "location-resolved"
	default:
		return "unknown"
	}
}
