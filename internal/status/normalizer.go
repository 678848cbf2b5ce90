// Package status normalizes the provisioning backend's execution-status
// responses into a stable, engine-agnostic report. The upstream API is
// observed to sometimes emit syntactically invalid JSON, so normalization
// never fails: malformed input degrades to an UNKNOWN report with a
// diagnostic error instead of propagating a parse failure.
package status

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vectorops/dbdock/internal/types"
)

// Raw execution statuses emitted by the backend. The mapping is
// case-sensitive; unrecognized values pass through unchanged.
const (
	RawSucceeded = "SUCCEEDED"
	RawFailed    = "FAILED"
	RawTimedOut  = "TIMED_OUT"
	RawAborted   = "ABORTED"
	RawRunning   = "RUNNING"
	RawCreating  = "CREATING"
	RawPending   = "PENDING"
	RawStarting  = "STARTING"
	RawUnknown   = "UNKNOWN"
)

// Progress bounds for in-flight executions. An execution that has been
// running past its expected duration is clamped below 100 so an unfinished
// job is never reported as complete.
const (
	maxRunningProgress = 90
	// Shown for a RUNNING execution whose start timestamp is missing.
	indeterminateRunningProgress = 25
)

// Report is the normalized, engine-agnostic view of an execution's status.
type Report struct {
	ExecutionID        string          `json:"executionId"`
	Status             string          `json:"status"`
	UserFriendlyStatus string          `json:"userFriendlyStatus"`
	ProgressPercentage int             `json:"progressPercentage"`
	StartDate          *time.Time      `json:"startDate"`
	StopDate           *time.Time      `json:"stopDate"`
	Output             string          `json:"output,omitempty"`
	Error              string          `json:"error,omitempty"`
	ConnectionInfo     *ConnectionInfo `json:"connectionInfo,omitempty"`
	EstimatedRemaining string          `json:"estimatedTimeRemaining,omitempty"`
	LastChecked        time.Time       `json:"lastChecked"`
}

// IsTerminalSuccess reports whether the execution finished successfully.
func (r *Report) IsTerminalSuccess() bool {
	return r.Status == RawSucceeded
}

// IsTerminalFailure reports whether the execution ended in a failure state.
func (r *Report) IsTerminalFailure() bool {
	switch r.Status {
	case RawFailed, RawTimedOut, RawAborted:
		return true
	default:
		return false
	}
}

// execution is the wire shape of the backend's status response.
type execution struct {
	Status       string          `json:"status"`
	StartDate    *flexTime       `json:"startDate"`
	StopDate     *flexTime       `json:"stopDate"`
	Input        json.RawMessage `json:"input"`
	Output       json.RawMessage `json:"output"`
	Error        string          `json:"error"`
	ExecutionArn string          `json:"executionArn"`
}

// flexTime decodes the backend's timestamps, which arrive either as RFC 3339
// strings or as epoch seconds/milliseconds. Unparseable values decode to the
// zero time instead of failing the surrounding document.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
			if parsed, perr := time.Parse(layout, str); perr == nil {
				t.Time = parsed
				return nil
			}
		}
		return nil
	}

	var epoch float64
	if err := json.Unmarshal(data, &epoch); err == nil {
		// Values past the year 33658 in seconds are epoch milliseconds.
		if epoch > 1e12 {
			epoch /= 1000
		}
		t.Time = time.Unix(int64(epoch), 0).UTC()
	}
	return nil
}

// rawToString unquotes an output/input slot when the backend sent it as an
// embedded JSON string, and passes the raw text through when it sent an
// object.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return string(raw)
}

func timePtr(t *flexTime) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	return &t.Time
}

// Normalize parses a raw execution-status response body into a Report. It
// attempts a strict parse first, falls back to a single repaired parse, and
// degrades to an UNKNOWN report when both fail.
func Normalize(raw []byte, executionID string, engine types.Engine, now time.Time) *Report {
	report := &Report{
		ExecutionID: executionID,
		LastChecked: now,
	}

	var exec execution
	if err := json.Unmarshal(raw, &exec); err != nil {
		if repairErr := json.Unmarshal(RepairJSON(raw), &exec); repairErr != nil {
			report.Status = RawUnknown
			report.UserFriendlyStatus = RawUnknown
			report.Error = fmt.Sprintf("Failed to parse status response: %v", err)
			return report
		}
	}

	if exec.Status == "" {
		exec.Status = RawUnknown
	}

	report.Status = exec.Status
	report.UserFriendlyStatus = friendlyStatus(exec.Status)
	report.StartDate = timePtr(exec.StartDate)
	report.StopDate = timePtr(exec.StopDate)
	report.Output = rawToString(exec.Output)
	report.Error = exec.Error
	report.ProgressPercentage = progress(exec.Status, report.StartDate, engine, now)
	report.EstimatedRemaining = estimatedRemaining(exec.Status, report.StartDate, engine, now)

	if exec.Status == RawSucceeded && report.Output != "" {
		// Best effort: connection info failures never fail the report.
		report.ConnectionInfo = ParseConnectionInfo(report.Output, engine)
	}

	return report
}

// friendlyStatus maps a raw backend status to its user-facing label.
// Unrecognized statuses pass through unchanged.
func friendlyStatus(raw string) string {
	switch raw {
	case RawSucceeded:
		return "Completed"
	case RawFailed:
		return "Failed"
	case RawTimedOut:
		return "Failed (Timeout)"
	case RawAborted:
		return "Failed (Aborted)"
	case RawRunning, RawCreating:
		return "Creating"
	case RawPending:
		return "Pending"
	case RawStarting:
		return "Starting"
	default:
		return raw
	}
}

// progress estimates completion percentage from elapsed time against the
// engine's expected provisioning duration.
func progress(rawStatus string, startDate *time.Time, engine types.Engine, now time.Time) int {
	switch rawStatus {
	case RawSucceeded:
		return 100
	case RawFailed, RawTimedOut, RawAborted:
		return 0
	case RawRunning:
		if startDate == nil {
			return indeterminateRunningProgress
		}
		elapsed := int(now.Sub(*startDate).Minutes())
		total := engine.ExpectedProvisionMinutes()
		pct := elapsed * 100 / total
		if pct > maxRunningProgress {
			return maxRunningProgress
		}
		if pct < 0 {
			return 0
		}
		return pct
	default:
		// PENDING, STARTING, CREATING and anything unrecognized have not
		// started doing work yet.
		return 0
	}
}

// estimatedRemaining renders the remaining-time hint for in-flight
// executions. Empty for terminal states or when no start timestamp exists.
func estimatedRemaining(rawStatus string, startDate *time.Time, engine types.Engine, now time.Time) string {
	if rawStatus != RawRunning && rawStatus != RawCreating {
		return ""
	}
	if startDate == nil {
		return ""
	}

	elapsed := int(now.Sub(*startDate).Minutes())
	remaining := engine.ExpectedProvisionMinutes() - elapsed
	if remaining <= 0 {
		return "Should complete shortly"
	}
	if remaining == 1 {
		return "Approximately 1 minute remaining"
	}
	return fmt.Sprintf("Approximately %d minutes remaining", remaining)
}
