// Package domain holds the value types shared by the monitor, its adapters and its transports.
package domain

// Snapshot is one reading served by the metrics source.
type Snapshot struct {
	Attention         string  `json:"attention"`
	BrainState        string  `json:"brain_state"`
	HeadOrientation   string  `json:"head_orientation"`
	FocusScore        float64 `json:"focus_score"`
	HeartRate         float64 `json:"heart_rate"`
	MovementIntensity float64 `json:"movement_intensity"`
	ThetaBetaRatio    float64 `json:"theta_beta_ratio"`
}
