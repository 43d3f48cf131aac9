package renderer

import (
	"context"
	"sync"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/integrator"
	"github.com/df07/go-raydiance/pkg/material"
	"github.com/df07/go-raydiance/pkg/scene"
	"github.com/df07/go-raydiance/pkg/sky"
)

// Update carries parameter changes into a running session. Nil fields are
// left unchanged.
type Update struct {
	Camera        *scene.Camera
	Materials     []material.Material
	Sky           *sky.Params
	SkyModel      string // Empty keeps the current model
	Visualization *integrator.Visualization
}

// merge overlays newer on u
func (u Update) merge(newer Update) Update {
	if newer.Camera != nil {
		u.Camera = newer.Camera
	}
	if newer.Materials != nil {
		u.Materials = newer.Materials
	}
	if newer.Sky != nil {
		u.Sky = newer.Sky
	}
	if newer.SkyModel != "" {
		u.SkyModel = newer.SkyModel
	}
	if newer.Visualization != nil {
		u.Visualization = newer.Visualization
	}
	return u
}

// Session drives a renderer interactively: it renders passes of
// SamplesPerPass samples until MaxSamplesPerPixel, applying updates between
// passes. Updates flow in and frames flow out through one-slot channels
// that never block either side; when a side falls behind only the latest
// value is kept.
type Session struct {
	renderer *ProgressiveRenderer
	updates  chan Update
	frames   chan *Frame
	done     chan struct{}
	err      error
	start    sync.Once
	logger   core.Logger
}

// NewSession creates a session around r. The session takes over r: nothing
// else may call r's methods until the session is done.
func NewSession(r *ProgressiveRenderer) *Session {
	return &Session{
		renderer: r,
		updates:  make(chan Update, 1),
		frames:   make(chan *Frame, 1),
		done:     make(chan struct{}),
		logger:   r.logger,
	}
}

// Start launches the render loop. It runs until ctx is cancelled or a pass
// fails; later calls do nothing.
func (s *Session) Start(ctx context.Context) {
	s.start.Do(func() {
		go s.run(ctx)
	})
}

// Update queues parameter changes without blocking. Changes not yet picked
// up by the render loop are merged, newer fields winning.
func (s *Session) Update(u Update) {
	for {
		select {
		case s.updates <- u:
			return
		default:
		}
		select {
		case pending := <-s.updates:
			u = pending.merge(u)
		default:
		}
	}
}

// Frames returns the channel on which each finished pass's frame is published
func (s *Session) Frames() <-chan *Frame {
	return s.frames
}

// Done is closed when the render loop has stopped
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err returns the error that stopped the loop, or nil after cancellation.
// It is valid once Done is closed.
func (s *Session) Err() error {
	return s.err
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	config := s.renderer.Config()

	for {
		select {
		case <-ctx.Done():
			return
		case u := <-s.updates:
			s.apply(u)
		default:
		}

		// Converged: idle until something changes
		if s.renderer.buffer.Stats().MinSamples >= config.MaxSamplesPerPixel {
			select {
			case <-ctx.Done():
				return
			case u := <-s.updates:
				s.apply(u)
			}
			continue
		}

		frame, err := s.renderer.RenderPass(config.SamplesPerPass)
		if err != nil {
			s.logger.Errorf("session: pass failed: %v", err)
			s.err = err
			return
		}
		s.publish(frame)
	}
}

// apply hands an update to the renderer; invalid changes are logged and skipped
func (s *Session) apply(u Update) {
	r := s.renderer
	if u.Camera != nil {
		if err := r.SetCamera(*u.Camera); err != nil {
			s.logger.Warningf("session: ignoring camera update: %v", err)
		}
	}
	if u.Materials != nil {
		if err := r.SetMaterials(u.Materials); err != nil {
			s.logger.Warningf("session: ignoring material update: %v", err)
		}
	}
	if u.Sky != nil || u.SkyModel != "" {
		model, params := r.Sky()
		if u.SkyModel != "" {
			model = u.SkyModel
		}
		if u.Sky != nil {
			params = *u.Sky
		}
		if err := r.SetSky(model, params); err != nil {
			s.logger.Warningf("session: ignoring sky update: %v", err)
		}
	}
	if u.Visualization != nil {
		if err := r.SetVisualization(*u.Visualization); err != nil {
			s.logger.Warningf("session: ignoring visualization update: %v", err)
		}
	}
}

// publish offers frame to the consumer, replacing a frame it has not taken yet
func (s *Session) publish(frame *Frame) {
	for {
		select {
		case s.frames <- frame:
			return
		default:
		}
		select {
		case <-s.frames:
		default:
		}
	}
}
