package geometry

import (
	"math"
	"math/rand"
	"testing"
)

// Corners of the central campus.
var (
	campusNW = Position{Lng: -3.192473, Lat: 55.946233}
	campusSE = Position{Lng: -3.184319, Lat: 55.942617}
)

func TestDistance(t *testing.T) {
	want := math.Hypot(math.Abs(campusNW.Lng-campusSE.Lng), math.Abs(campusNW.Lat-campusSE.Lat))
	if got := Distance(campusNW, campusSE); got != want {
		t.Fatalf("Distance = %v, want %v", got, want)
	}
	if got := Distance(campusSE, campusNW); got != want {
		t.Fatalf("Distance is not symmetric: %v vs %v", got, want)
	}
	if got := Distance(campusNW, campusNW); got != 0 {
		t.Fatalf("Distance(p, p) = %v, want 0", got)
	}
}

func TestIsCloseWithinThreshold(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		for _, move := range Headings {
			r := rng.Float64() * 0.00014
			theta := move.Angle() * math.Pi / 180
			other := Position{Lng: campusNW.Lng + r*math.Cos(theta), Lat: campusNW.Lat + r*math.Sin(theta)}
			if !IsClose(campusNW, other) {
				t.Fatalf("IsClose(%v, %v) = false at radius %v", campusNW, other, r)
			}
		}
	}
}

func TestIsCloseSelf(t *testing.T) {
	for _, p := range []Position{campusNW, campusSE, {}, {Lng: 180, Lat: -90}} {
		if !IsClose(p, p) {
			t.Errorf("IsClose(%v, %v) = false", p, p)
		}
	}
}

func TestIsCloseIsStrict(t *testing.T) {
	a := Position{}
	b := Position{Lng: CloseThreshold}
	if Distance(a, b) != CloseThreshold {
		t.Fatalf("setup: Distance = %v", Distance(a, b))
	}
	if IsClose(a, b) {
		t.Fatalf("IsClose at exactly the threshold should be false")
	}
	if IsClose(campusNW, campusSE) {
		t.Fatalf("campus corners reported close")
	}
}

func TestDistanceMeters(t *testing.T) {
	got := DistanceMeters(campusNW, campusSE)
	if got < 600 || got > 700 {
		t.Fatalf("DistanceMeters = %.1f, want roughly 650", got)
	}
}
