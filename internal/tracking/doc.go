// Package tracking provides the device registry and tracking synchroniser
// for BeaconTrack Core.
//
// The registry is the single shared mutable structure of the process: an
// insertion-ordered table of beacon/tag records plus the synchroniser run
// state and the optional recording sink, all guarded by one coarse mutex.
// The synchroniser is the long-running background loop that polls the
// positioning source, merges partial updates into the registry, and
// conditionally streams mobile-tag samples to the recording sink.
//
// # Architecture
//
//	┌────────────────────────────────────────────────────────────────┐
//	│                       tracking package                         │
//	│                                                                │
//	│  ┌────────────────┐     ┌────────────────┐    ┌─────────────┐  │
//	│  │  Synchronizer  │────▶│    Registry    │───▶│  Recorder   │  │
//	│  │(synchronizer.go)│    │  (registry.go) │    │(recorder.go)│  │
//	│  │                │     │                │    │             │  │
//	│  │ • poll loop    │     │ • coarse mutex │    │ • CSV sink  │  │
//	│  │ • classify     │     │ • seed/merge   │    │ • header row│  │
//	│  │ • watermark    │     │ • snapshots    │    │ • session ID│  │
//	│  └────────────────┘     └────────────────┘    └─────────────┘  │
//	│          │                                                     │
//	└──────────│─────────────────────────────────────────────────────┘
//	           ▼
//	┌──────────────────────┐
//	│ positioning.Source   │  (opened and refreshed outside the lock)
//	└──────────────────────┘
//
// # Concurrency
//
// Registry methods are safe for concurrent use; every read or write takes
// the registry mutex for the duration of the access and never holds it
// across a call that can block indefinitely. The positioning refresh is
// made strictly outside the lock; only merges and recording-sink writes
// happen inside it.
//
// The synchroniser starts at most once per process lifetime. The run flag
// is a one-way latch: there is no stop operation for the tracking loop,
// only for recording. A source failure halts the loop permanently and is
// surfaced through the registry's halted flag and a status event.
package tracking
