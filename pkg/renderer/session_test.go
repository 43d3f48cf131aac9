package renderer

import (
	"context"
	"testing"
	"time"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/integrator"
	"github.com/df07/go-raydiance/pkg/scene"
	"github.com/df07/go-raydiance/pkg/sky"
	"golang.org/x/image/math/f32"
)

func TestUpdate_Merge(t *testing.T) {
	normals := integrator.Normals
	texcoords := integrator.TexCoords
	params := sky.DefaultParams()
	cam := scene.Camera{VFov: 30}

	older := Update{Visualization: &normals, SkyModel: "uniform", Camera: &cam}
	newer := Update{Visualization: &texcoords, Sky: &params}
	merged := older.merge(newer)

	if merged.Visualization != &texcoords {
		t.Error("Newer visualization should win")
	}
	if merged.SkyModel != "uniform" || merged.Camera != &cam {
		t.Error("Fields absent from the newer update should be kept")
	}
	if merged.Sky != &params {
		t.Error("Newer sky parameters should be added")
	}
}

func TestSession_UpdateNeverBlocks(t *testing.T) {
	pr := newTestRenderer(t, "triangle", nil)
	s := NewSession(pr)

	// Nothing drains the queue before Start
	for i := 0; i < 10; i++ {
		v := integrator.Visualization(i % 3)
		s.Update(Update{Visualization: &v})
	}
	s.Update(Update{SkyModel: "gradient"})

	pending := <-s.updates
	if *pending.Visualization != integrator.Visualization(9%3) || pending.SkyModel != "gradient" {
		t.Errorf("Expected the latest merged update, got %+v", pending)
	}
}

// waitForFrame returns the first published frame that satisfies accept
func waitForFrame(t *testing.T, s *Session, accept func(*Frame) bool) *Frame {
	t.Helper()
	timeout := time.After(30 * time.Second)
	for {
		select {
		case frame := <-s.Frames():
			if accept(frame) {
				return frame
			}
		case <-s.Done():
			t.Fatalf("Session stopped early: %v", s.Err())
		case <-timeout:
			t.Fatal("Timed out waiting for a frame")
		}
	}
}

func TestSession_ConvergesAndAppliesUpdates(t *testing.T) {
	pr := newTestRenderer(t, "triangle", func(c *Config) {
		c.MaxSamplesPerPixel = 4
	})
	s := NewSession(pr)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	s.Start(ctx)

	frame := waitForFrame(t, s, func(f *Frame) bool { return f.SampleCount == 4 })
	if frame.Pass != 4 {
		t.Errorf("Expected 4 passes of 1 sample, got %d", frame.Pass)
	}

	normals := integrator.Normals
	s.Update(Update{Visualization: &normals})

	// The first normals frame restarts from one sample
	frame = waitForFrame(t, s, func(f *Frame) bool {
		c, _ := f.At(8, 6)
		return c == f32.Vec3{0.5, 0.5, 1}
	})
	if frame.SampleCount > 4 {
		t.Errorf("Sample count %d exceeds the budget", frame.SampleCount)
	}
	if c, _ := frame.At(0, 0); c != (f32.Vec3{}) {
		t.Errorf("Missed pixel in normals mode = %v, expected black", c)
	}

	cancel()
	select {
	case <-s.Done():
	case <-time.After(30 * time.Second):
		t.Fatal("Session did not stop after cancellation")
	}
	if err := s.Err(); err != nil {
		t.Errorf("Expected no error after cancellation, got %v", err)
	}
}

func TestSession_InvalidUpdateIsSkipped(t *testing.T) {
	pr := newTestRenderer(t, "triangle", func(c *Config) {
		c.MaxSamplesPerPixel = 2
	})
	s := NewSession(pr)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	waitForFrame(t, s, func(f *Frame) bool { return f.SampleCount == 2 })

	bad := scene.Camera{Up: core.NewVec3(0, 1, 0), VFov: 40}
	gradient := "gradient"
	s.Update(Update{Camera: &bad, SkyModel: gradient})

	// The sky still changes; the degenerate camera is dropped
	waitForFrame(t, s, func(f *Frame) bool {
		c, _ := f.At(0, 0)
		return f.SampleCount == 2 && c != (f32.Vec3{1, 1, 1})
	})

	cancel()
	<-s.Done()
	if model, _ := pr.Sky(); model != gradient {
		t.Errorf("Sky model = %q, expected %q", model, gradient)
	}
	if pr.camera.Origin() != core.NewVec3(0, 0, 3) {
		t.Errorf("Camera moved to %v despite the invalid update", pr.camera.Origin())
	}
}
