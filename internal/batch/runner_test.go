package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/report"
	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/zone"
)

func fakeSamples(n int) []MapSample {
	samples := make([]MapSample, 0, n)
	for i := 1; i <= n; i++ {
		samples = append(samples, &fakeSample{
			id: fmt.Sprintf("mapa%d", i),
			images: map[zone.ZoomLevel]image.Image{
				1: blankImage(40), 2: blankImage(30),
			},
		})
	}
	return samples
}

func TestRun(t *testing.T) {
	rep := report.New()
	p := NewProcessor(&fakeDetector{}, nil)

	if err := Run(context.Background(), p, fakeSamples(12), 4, rep); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	s := rep.Stats()
	if s.MapsProcessed != 12 || s.ZonesDetected != 24 || s.ZonesFailed != 24 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestRun_Idempotent(t *testing.T) {
	p := NewProcessor(&fakeDetector{}, nil)

	first := report.New()
	second := report.New()
	if err := Run(context.Background(), p, fakeSamples(6), 3, first); err != nil {
		t.Fatal(err)
	}
	if err := Run(context.Background(), p, fakeSamples(6), 1, second); err != nil {
		t.Fatal(err)
	}

	a, b := first.Maps(), second.Maps()
	if len(a) != len(b) {
		t.Fatalf("map count differs: %d vs %d", len(a), len(b))
	}
	for id, m := range a {
		for label, res := range m {
			if b[id][label] != res {
				t.Errorf("%s/%s differs: %+v vs %+v", id, label, res, b[id][label])
			}
		}
	}
	fa, fb := first.Failures(), second.Failures()
	if len(fa) != len(fb) {
		t.Fatalf("failure count differs")
	}
	for i := range fa {
		if fa[i] != fb[i] {
			t.Errorf("failure %d differs: %v vs %v", i, fa[i], fb[i])
		}
	}
}

func TestRun_Empty(t *testing.T) {
	rep := report.New()
	if err := Run(context.Background(), NewProcessor(&fakeDetector{}, nil), nil, 0, rep); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if rep.Stats().MapsProcessed != 0 {
		t.Error("nothing should be processed")
	}
}

// blockingDetector waits until released before answering.
type blockingDetector struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (d *blockingDetector) DetectZone(img image.Image, level zone.ZoomLevel) (zone.Result, error) {
	d.once.Do(func() { close(d.started) })
	<-d.release
	return zone.Result{CenterX: 1, CenterY: 1, Radius: 1}, nil
}

func TestRun_Cancelled(t *testing.T) {
	d := &blockingDetector{started: make(chan struct{}), release: make(chan struct{})}
	p := NewProcessor(d, nil)
	rep := report.New()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, p, fakeSamples(20), 1, rep)
	}()

	<-d.started
	cancel()
	close(d.release)

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}

	if n := rep.Stats().MapsProcessed; n >= 20 {
		t.Errorf("cancellation should skip remaining maps, processed %d", n)
	}
	if rep.Stats().MapsProcessed < 1 {
		t.Error("the map in progress should still be recorded")
	}
}

func TestDefaultWorkers(t *testing.T) {
	if n := DefaultWorkers(); n < 1 {
		t.Errorf("got %d, want at least 1", n)
	}
}
