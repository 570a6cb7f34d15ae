package domain

// Stage names one step of the audio processing pipeline.
type Stage string

const (
	StageTranscribe Stage = "transcribe"
	StageClean      Stage = "clean"
	StageExtract    Stage = "extract"
	StageClassify   Stage = "classify"
	StageTicket     Stage = "ticket"
	StagePersist    Stage = "persist"
)

// Degradation records a stage that substituted a safe default instead of failing.
type Degradation struct {
	Stage  Stage  `json:"stage"`
	Reason string `json:"reason"`
}
