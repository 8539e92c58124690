package positioning

import "time"

// DeviceType identifies the hardware family of a positioning device,
// as reported by the modem during device discovery.
type DeviceType uint8

// Known device types. Values match the type codes reported by the
// positioning modem firmware.
const (
	TypeUnknown                   DeviceType = 0
	TypeBeaconHWv45               DeviceType = 22
	TypeBeaconHWv45Hedgehog       DeviceType = 23
	TypeBeaconHWv49               DeviceType = 24
	TypeBeaconHWv49Hedgehog       DeviceType = 25
	TypeModemHWv49                DeviceType = 26
	TypeSuperBeacon               DeviceType = 30
	TypeSuperBeaconHedgehog       DeviceType = 31
	TypeIndustrialSuperBeacon     DeviceType = 36
	TypeIndustrialSuperBeaconHedg DeviceType = 37
)

// IsMobileTag reports whether the device type belongs to the mobile-tag
// ("hedgehog") family, as opposed to a fixed anchor beacon.
//
// Classification happens once, at discovery time; position updates never
// change a device's family.
func (t DeviceType) IsMobileTag() bool {
	switch t {
	case TypeBeaconHWv45Hedgehog,
		TypeBeaconHWv49Hedgehog,
		TypeSuperBeaconHedgehog,
		TypeIndustrialSuperBeaconHedg:
		return true
	default:
		return false
	}
}

// String returns a human-readable name for the device type.
func (t DeviceType) String() string {
	switch t {
	case TypeBeaconHWv45:
		return "beacon_hw_v4.5"
	case TypeBeaconHWv45Hedgehog:
		return "beacon_hw_v4.5_hedgehog"
	case TypeBeaconHWv49:
		return "beacon_hw_v4.9"
	case TypeBeaconHWv49Hedgehog:
		return "beacon_hw_v4.9_hedgehog"
	case TypeModemHWv49:
		return "modem_hw_v4.9"
	case TypeSuperBeacon:
		return "super_beacon"
	case TypeSuperBeaconHedgehog:
		return "super_beacon_hedgehog"
	case TypeIndustrialSuperBeacon:
		return "industrial_super_beacon"
	case TypeIndustrialSuperBeaconHedg:
		return "industrial_super_beacon_hedgehog"
	default:
		return "unknown"
	}
}

// Report is one device sample as yielded by a positioning source.
//
// Coordinates are raw millimetres as decoded from the hardware; the
// tracking layer converts to metres. Quality 0 means "no fix".
type Report struct {
	// Address is the device's session-unique address.
	Address uint8

	// Type is the hardware family reported at discovery.
	Type DeviceType

	// XMm, YMm, ZMm are raw coordinates in millimetres.
	XMm int32
	YMm int32
	ZMm int32

	// Quality is the location fix confidence; 0 means no usable fix.
	Quality uint8

	// UpdatedAt is the hardware-reported timestamp of this sample.
	UpdatedAt time.Time
}
