package geo

import (
	"kjorefore/internal/types"
)

// polylineScale is the fixed-point scale factor of the encoded polyline
// format (five decimal places).
const polylineScale = 1e5

// DecodePolyline decodes the signed-delta, 5-bit chunked varint polyline
// encoding used by consumer mapping APIs into a coordinate sequence.
//
// Each coordinate is encoded as two zigzag varints (latitude then
// longitude delta) whose 5-bit chunks are offset by 63 into printable
// ASCII; a set 0x20 continuation bit marks all chunks but the last. A
// string that ends mid-chunk, or contains a byte below the offset, is a
// decode error rather than a silent truncation.
func DecodePolyline(encoded string) ([]types.Coordinate, error) {
	coords := make([]types.Coordinate, 0, len(encoded)/4)
	var lat, lng int64

	i := 0
	for i < len(encoded) {
		dLat, next, err := decodeVarint(encoded, i)
		if err != nil {
			return nil, err
		}
		lat += dLat

		dLng, next, err := decodeVarint(encoded, next)
		if err != nil {
			return nil, err
		}
		lng += dLng
		i = next

		coords = append(coords, types.Coordinate{
			Lat: float64(lat) / polylineScale,
			Lng: float64(lng) / polylineScale,
		})
	}

	return coords, nil
}

// decodeVarint reads one zigzag-encoded delta starting at offset i and
// returns the delta plus the offset of the next chunk.
func decodeVarint(encoded string, i int) (int64, int, error) {
	var result uint64
	var shift uint

	for {
		if i >= len(encoded) {
			return 0, 0, types.NewAppError(types.ErrCodeDecodePolyline,
				"polyline ends mid-chunk", nil)
		}
		c := encoded[i]
		if c < 63 {
			return 0, 0, types.NewAppError(types.ErrCodeDecodePolyline,
				"polyline contains an out-of-range byte", nil)
		}
		i++

		b := c - 63
		result |= uint64(b&0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	// Zigzag: the low bit selects the sign, the rest is the magnitude.
	if result&1 != 0 {
		return ^int64(result >> 1), i, nil
	}
	return int64(result >> 1), i, nil
}
