package tracking

import "time"

// Device is one tracked beacon or mobile tag.
//
// Address and IsMobileTag are fixed at creation (seeding or floorplan
// parse); only X, Y and Quality are mutated afterwards, in place, by
// position merges.
type Device struct {
	// Address is the session-unique device address.
	Address uint8 `json:"address"`

	// IsMobileTag is true for devices of the mobile-tag family,
	// false for fixed anchor beacons. Derived once at discovery.
	IsMobileTag bool `json:"is_mobile_tag"`

	// X, Y are the last known coordinates in metres.
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Quality is the last reported fix quality; 0 means no fix yet.
	Quality uint8 `json:"quality"`
}

// Clone returns an independent copy of the device record.
func (d *Device) Clone() *Device {
	if d == nil {
		return nil
	}
	cpy := *d
	return &cpy
}

// Sample is one raw positioning sample destined for the recording sink.
//
// Coordinates stay in raw millimetres; the CSV record preserves exactly
// what the hardware reported.
type Sample struct {
	Address uint8
	XMm     int32
	YMm     int32
	ZMm     int32
	Quality uint8

	// At is the hardware-reported timestamp of the sample.
	At time.Time
}

// Fix is one merged mobile-tag position, as persisted to history.
type Fix struct {
	// ID is the auto-incremented primary key for the history row.
	ID int64 `json:"id"`

	// Address is the device address the fix belongs to.
	Address uint8 `json:"address"`

	// X, Y, Z are coordinates in metres.
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`

	// Quality is the reported fix quality (always > 0 for stored fixes).
	Quality uint8 `json:"quality"`

	// SampledAt is the hardware-reported sample time (UTC).
	SampledAt time.Time `json:"sampled_at"`
}
