// Package models holds the report structures shared by the CLI and the
// HTTP API.
package models

import (
	"time"
)

// AnalysisReport describes an image's suitability as a carrier and the
// statistical fingerprint of its LSB planes.
type AnalysisReport struct {
	Filename      string        `json:"filename"`
	Format        string        `json:"format"`
	Width         int           `json:"width"`
	Height        int           `json:"height"`
	ChannelBytes  int           `json:"channelBytes"`
	CapacityBytes int           `json:"capacityBytes"`
	HasMessage    bool          `json:"hasMessage"` // heuristic header probe, not proof
	Entropy       float64       `json:"entropy"`    // average LSB entropy across channels
	ChiSquare     float64       `json:"chiSquare"`  // LSB uniformity statistic
	AnomalyScore  float64       `json:"anomalyScore"`
	Findings      []Finding     `json:"findings"`
	AnalyzedAt    time.Time     `json:"analyzedAt"`
	Duration      time.Duration `json:"duration"`
}

// Finding is a single observation made during analysis.
type Finding struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"` // 0.0-1.0
	Details     string  `json:"details"`
}

// AddFinding appends an observation to the report.
func (r *AnalysisReport) AddFinding(description string, confidence float64, details string) {
	r.Findings = append(r.Findings, Finding{
		Description: description,
		Confidence:  confidence,
		Details:     details,
	})
}

// DecodedPayload is the API shape of a recovered message. Text payloads
// carry Message; file payloads carry Filename plus base64 Data.
type DecodedPayload struct {
	Type     string `json:"type"` // "text", "text_file" or "binary_file"
	Message  string `json:"message,omitempty"`
	Filename string `json:"filename,omitempty"`
	Data     string `json:"data,omitempty"` // base64
}
