package domain

import "time"

// ScanState is the lifecycle state of the scan orchestrator.
type ScanState string

const (
	ScanIdle      ScanState = "idle"
	ScanRunning   ScanState = "running"
	ScanCompleted ScanState = "completed"
	ScanFailed    ScanState = "failed"
)

// ScanStatus is the polled progress/result object for the current or most
// recent scan. Progress is a percentage of completed collector tasks.
type ScanStatus struct {
	State         ScanState
	RunID         string
	Progress      int
	StartedAt     time.Time
	FinishedAt    time.Time
	ResourceCount int
	Error         string
}
