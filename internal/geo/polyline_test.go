package geo

import (
	"errors"
	"math"
	"testing"

	"kjorefore/internal/types"
)

func TestDecodePolyline_KnownVector(t *testing.T) {
	coords, err := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []types.Coordinate{
		{Lat: 38.5, Lng: -120.2},
		{Lat: 40.7, Lng: -120.95},
		{Lat: 43.252, Lng: -126.453},
	}

	if len(coords) != len(want) {
		t.Fatalf("expected %d coordinates, got %d", len(want), len(coords))
	}
	for i, w := range want {
		if math.Abs(coords[i].Lat-w.Lat) > 1e-9 || math.Abs(coords[i].Lng-w.Lng) > 1e-9 {
			t.Errorf("coordinate %d: expected %+v, got %+v", i, w, coords[i])
		}
	}
}

func TestDecodePolyline_Empty(t *testing.T) {
	coords, err := DecodePolyline("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(coords) != 0 {
		t.Errorf("expected no coordinates, got %d", len(coords))
	}
}

func TestDecodePolyline_TruncatedChunk(t *testing.T) {
	// "_p~iF" alone decodes one latitude varint; the longitude is missing
	// entirely, so the string ends mid-coordinate.
	_, err := DecodePolyline("_p~iF")
	if err == nil {
		t.Fatal("expected an error for a truncated polyline")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *types.AppError, got %T", err)
	}
	if appErr.Code != types.ErrCodeDecodePolyline {
		t.Errorf("expected code %s, got %s", types.ErrCodeDecodePolyline, appErr.Code)
	}
}

func TestDecodePolyline_DanglingContinuationBit(t *testing.T) {
	// '_' (0x5f) has the continuation bit set after the 63 offset, so a
	// chunk must follow it.
	_, err := DecodePolyline("_")
	if err == nil {
		t.Fatal("expected an error for a dangling continuation bit")
	}
}

func TestDecodePolyline_OutOfRangeByte(t *testing.T) {
	_, err := DecodePolyline("_p~iF~ps|U\x1f")
	if err == nil {
		t.Fatal("expected an error for an out-of-range byte")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *types.AppError, got %T", err)
	}
	if appErr.Code != types.ErrCodeDecodePolyline {
		t.Errorf("expected code %s, got %s", types.ErrCodeDecodePolyline, appErr.Code)
	}
}
