// Package floorplan parses deployment description files for BeaconTrack Core.
//
// A deployment file is an INI document produced by the site survey tool.
// It describes the floorplan image (reference-point offset, pixel scale,
// image file) and the set of statically surveyed beacons with per-beacon
// enable flags and operating modes:
//
//	[floorplan]
//	shift_x_m=1.0
//	shift_y_m=2.0
//	scale_pixels_per_m=10.0
//	Floor1_FILE=plan.png
//
//	[devices]
//	beacon1=1
//	beacon2=0
//
//	[beacon 1]
//	Hedgehog_mode=0
//	Position_X=3.5
//	Position_Y=4.5
//
// Parsing is all-or-nothing: any missing or malformed field aborts the
// whole parse with an error naming the field; no partial results are
// returned. Beacons that are disabled, or whose mode marks them as mobile
// tags, are skipped silently — mobile tags are discovered live by the
// positioning source, never seeded statically.
package floorplan
