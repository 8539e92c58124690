package floorplan

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/beacontrack/beacontrack-core/internal/tracking"
)

// Section and key names used by the survey tool. Names are case-sensitive.
const (
	sectionFloorplan = "floorplan"
	sectionDevices   = "devices"

	keyShiftX = "shift_x_m"
	keyShiftY = "shift_y_m"
	keyScale  = "scale_pixels_per_m"

	// floorImagePrefix marks the key referencing the floorplan image file
	// (e.g. Floor1_FILE). The first matching key wins.
	floorImagePrefix = "Floor"

	// beaconKeyPrefix marks enable-flag keys in the devices section
	// (e.g. beacon1=1).
	beaconKeyPrefix = "beacon"

	keyHedgehogMode = "Hedgehog_mode"
	keyPositionX    = "Position_X"
	keyPositionY    = "Position_Y"

	// fixedModeMarker is the Hedgehog_mode value identifying a fixed
	// (non-mobile) beacon. Any other mode means the beacon is a mobile
	// tag and is skipped: mobile tags are discovered live, not seeded.
	fixedModeMarker = "0"

	// enabledFlag is the devices-section value marking a beacon as enabled.
	enabledFlag = 1
)

// Parse reads a deployment description file and returns the statically
// surveyed beacon roster plus the floorplan descriptor.
//
// Parsing is all-or-nothing: the first missing or malformed field aborts
// the parse and no partial device list is returned.
//
// Parameters:
//   - path: Path to the INI deployment file
//
// Returns:
//   - []tracking.Device: Fixed beacons, quality 0, in file order
//   - *Descriptor: Floorplan metadata with image bytes loaded
//   - error: Structured parse error naming the offending section or field
func Parse(path string) ([]tracking.Device, *Descriptor, error) {
	file, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		return nil, nil, fmt.Errorf("loading deployment file: %w", err)
	}

	desc, err := parseFloorplan(file, filepath.Dir(path))
	if err != nil {
		return nil, nil, err
	}

	devices, err := parseBeacons(file)
	if err != nil {
		return nil, nil, err
	}

	return devices, desc, nil
}

// parseFloorplan reads the [floorplan] section and loads the image bytes.
func parseFloorplan(file *ini.File, baseDir string) (*Descriptor, error) {
	sec, err := file.GetSection(sectionFloorplan)
	if err != nil {
		return nil, fmt.Errorf("%w: [%s]", ErrMissingSection, sectionFloorplan)
	}

	desc := &Descriptor{}
	if desc.OriginX, err = floatField(sec, keyShiftX); err != nil {
		return nil, err
	}
	if desc.OriginY, err = floatField(sec, keyShiftY); err != nil {
		return nil, err
	}
	if desc.ScalePixelsPerMeter, err = floatField(sec, keyScale); err != nil {
		return nil, err
	}

	// First key with the floor-image prefix references the image file.
	imagePath := ""
	for _, key := range sec.Keys() {
		if strings.HasPrefix(key.Name(), floorImagePrefix) {
			imagePath = key.String()
			break
		}
	}
	if imagePath == "" {
		return nil, fmt.Errorf("%w: no %s* key in [%s]", ErrMissingImage, floorImagePrefix, sectionFloorplan)
	}

	// Relative image paths are resolved against the deployment file's
	// directory, so a map file can be loaded from anywhere.
	if !filepath.IsAbs(imagePath) {
		imagePath = filepath.Join(baseDir, imagePath)
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImageRead, imagePath, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyImage, imagePath)
	}

	desc.ImageBytes = data
	desc.ImageExt = strings.ToLower(strings.TrimPrefix(filepath.Ext(imagePath), "."))
	return desc, nil
}

// parseBeacons reads the [devices] enable flags and the per-beacon
// sections for every enabled index.
func parseBeacons(file *ini.File) ([]tracking.Device, error) {
	sec, err := file.GetSection(sectionDevices)
	if err != nil {
		return nil, fmt.Errorf("%w: [%s]", ErrMissingSection, sectionDevices)
	}

	var devices []tracking.Device
	for _, key := range sec.Keys() {
		if !strings.HasPrefix(key.Name(), beaconKeyPrefix) {
			continue
		}

		enabled, err := strconv.ParseUint(key.String(), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrBadValue, key.Name(), key.String())
		}
		if enabled != enabledFlag {
			continue
		}

		index := key.Name()[len(beaconKeyPrefix):]
		device, ok, err := parseBeaconSection(file, index)
		if err != nil {
			return nil, err
		}
		if ok {
			devices = append(devices, device)
		}
	}

	return devices, nil
}

// parseBeaconSection reads one [beacon N] section. The second return
// value is false when the beacon is a mobile tag and must be skipped.
func parseBeaconSection(file *ini.File, index string) (tracking.Device, bool, error) {
	name := beaconKeyPrefix + " " + index

	sec, err := file.GetSection(name)
	if err != nil {
		return tracking.Device{}, false, fmt.Errorf("%w: [%s]", ErrMissingSection, name)
	}

	if !sec.HasKey(keyHedgehogMode) {
		return tracking.Device{}, false, fmt.Errorf("%w: %s in [%s]", ErrMissingField, keyHedgehogMode, name)
	}
	if sec.Key(keyHedgehogMode).String() != fixedModeMarker {
		return tracking.Device{}, false, nil
	}

	address, err := strconv.ParseUint(index, 10, 8)
	if err != nil {
		return tracking.Device{}, false, fmt.Errorf("%w: beacon index %q", ErrBadValue, index)
	}

	x, err := floatField(sec, keyPositionX)
	if err != nil {
		return tracking.Device{}, false, err
	}
	y, err := floatField(sec, keyPositionY)
	if err != nil {
		return tracking.Device{}, false, err
	}

	return tracking.Device{
		Address:     uint8(address),
		IsMobileTag: false,
		X:           x,
		Y:           y,
		Quality:     0,
	}, true, nil
}

// floatField reads a required float key from a section.
func floatField(sec *ini.Section, name string) (float64, error) {
	if !sec.HasKey(name) {
		return 0, fmt.Errorf("%w: %s in [%s]", ErrMissingField, name, sec.Name())
	}

	v, err := sec.Key(name).Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadValue, name, sec.Key(name).String())
	}
	return v, nil
}
