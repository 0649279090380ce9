package models

import "time"

// Stage is a state of one analyze call.
type Stage string

const (
	StageIdle         Stage = "IDLE"
	StageFetchingData Stage = "FETCHING_DATA"
	StageDispatching  Stage = "DISPATCHING_ANALYSTS"
	StageAggregating  Stage = "AGGREGATING"
	StageDone         Stage = "DONE"
	StageFailed       Stage = "FAILED"
)

// Terminal reports whether no further transition can follow.
func (s Stage) Terminal() bool { return s == StageDone || s == StageFailed }

type ProgressEvent struct {
	AnalysisID string    `json:"analysis_id"`
	Ticker     string    `json:"ticker"`
	Stage      Stage     `json:"stage"`
	Message    string    `json:"message,omitempty"`
	At         time.Time `json:"at"`
}
