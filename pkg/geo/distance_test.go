package geo

import (
	"math"
	"testing"
)

func TestGreatCircleMilesZero(t *testing.T) {
	p := Point{Lat: 51.5074, Long: -0.1278}
	if d := GreatCircleMiles(p, p); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}
}

func TestGreatCircleMilesKnownPair(t *testing.T) {
	london := Point{Lat: 51.5074, Long: -0.1278}
	paris := Point{Lat: 48.8566, Long: 2.3522}

	d := GreatCircleMiles(london, paris)
	// 伦敦-巴黎约 213 英里，容忍球体模型的误差
	if math.Abs(d-213) > 5 {
		t.Errorf("London-Paris = %f miles, want ~213", d)
	}
}

func TestGreatCircleMilesSymmetric(t *testing.T) {
	a := Point{Lat: 51.633789, Long: -0.125860}
	b := Point{Lat: 51.5074, Long: -0.1278}

	if d1, d2 := GreatCircleMiles(a, b), GreatCircleMiles(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", d1, d2)
	}
}

func TestParsePoint(t *testing.T) {
	if _, ok := ParsePoint("51.5", "-0.12"); !ok {
		t.Error("valid coordinates rejected")
	}
	if _, ok := ParsePoint("", "-0.12"); ok {
		t.Error("empty latitude accepted")
	}
	if _, ok := ParsePoint("abc", "def"); ok {
		t.Error("garbage coordinates accepted")
	}
}
