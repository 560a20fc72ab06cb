package batch

import (
	"image"
	"sync"
	"testing"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/config"
	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/report"
	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/zone"
)

func TestProcessMap_AllZones(t *testing.T) {
	s := &fakeSample{id: "mapa1", images: map[zone.ZoomLevel]image.Image{
		1: blankImage(40), 2: blankImage(30), 3: blankImage(20), 4: blankImage(15),
	}}
	p := NewProcessor(&fakeDetector{}, nil)

	result, failures := p.ProcessMap(s)
	if len(failures) != 0 {
		t.Errorf("unexpected failures %v", failures)
	}
	if len(result) != 4 {
		t.Fatalf("expected 4 zones, got %v", result)
	}
	if got := result["zone_2"]; got.CenterX != 30 || got.Radius != 200 {
		t.Errorf("unexpected zone_2 %+v", got)
	}
}

func TestProcessMap_TwoOfFour(t *testing.T) {
	s := &fakeSample{id: "mapa3", images: map[zone.ZoomLevel]image.Image{
		1: blankImage(40),
		3: blankImage(20),
	}}
	p := NewProcessor(&fakeDetector{}, nil)

	result, failures := p.ProcessMap(s)
	if len(result) != 2 {
		t.Errorf("expected 2 zones, got %v", result)
	}
	if _, ok := result["zone_1"]; !ok {
		t.Error("zone_1 missing")
	}
	if _, ok := result["zone_3"]; !ok {
		t.Error("zone_3 missing")
	}

	want := []report.Failure{{Map: "mapa3", Zone: 2}, {Map: "mapa3", Zone: 4}}
	if len(failures) != len(want) {
		t.Fatalf("failures: got %v, want %v", failures, want)
	}
	for i := range want {
		if failures[i] != want[i] {
			t.Errorf("failure %d: got %v, want %v", i, failures[i], want[i])
		}
	}
}

func TestProcessMap_MissesAndReadErrors(t *testing.T) {
	s := &fakeSample{
		id: "mapa2",
		images: map[zone.ZoomLevel]image.Image{
			1: blankImage(5), // detector misses
			2: blankImage(40),
			4: blankImage(40),
		},
		errs: map[zone.ZoomLevel]error{4: errCorrupt},
	}
	d := &fakeDetector{}
	p := NewProcessor(d, nil)

	result, failures := p.ProcessMap(s)
	if len(result) != 1 {
		t.Errorf("expected only zone_2, got %v", result)
	}
	if len(failures) != 3 {
		t.Errorf("expected 3 failures, got %v", failures)
	}
	if d.Calls() != 2 {
		t.Errorf("detector should only run on readable images, got %d calls", d.Calls())
	}
}

func TestProcessMap_Hook(t *testing.T) {
	s := &fakeSample{id: "mapa1", images: map[zone.ZoomLevel]image.Image{
		1: blankImage(40), 2: blankImage(5), 4: blankImage(12),
	}}

	var mu sync.Mutex
	seen := make(map[zone.ZoomLevel]zone.Result)
	hook := func(mapID string, level zone.ZoomLevel, img image.Image, res zone.Result) {
		mu.Lock()
		defer mu.Unlock()
		if mapID != "mapa1" || img == nil {
			t.Errorf("unexpected hook call %s %v", mapID, img)
		}
		seen[level] = res
	}

	NewProcessor(&fakeDetector{}, hook).ProcessMap(s)

	if len(seen) != 2 {
		t.Fatalf("hook should run once per detected zone, got %v", seen)
	}
	if seen[4].CenterX != 12 {
		t.Errorf("hook got %+v for zone 4", seen[4])
	}
}

func TestProcessMap_RealDetector(t *testing.T) {
	d, err := zone.NewDetector(config.Default(), nil)
	if err != nil {
		t.Fatal(err)
	}

	s := &fakeSample{id: "mapa1", images: map[zone.ZoomLevel]image.Image{
		3: image.NewRGBA(image.Rect(0, 0, 200, 200)),
		4: createRingImage(200, 200, 100, 100, 60),
	}}

	result, failures := NewProcessor(d, nil).ProcessMap(s)

	z4, ok := result["zone_4"]
	if !ok {
		t.Fatalf("zone_4 should be detected, failures %v", failures)
	}
	if z4.Radius != 53 {
		t.Errorf("zone_4 radius: got %d, want 53", z4.Radius)
	}
	if len(failures) != 3 {
		t.Errorf("expected 3 failures (two missing, one blank), got %v", failures)
	}
}
