package dto

type VoiceStartRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}

type VoiceStopRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	// Audio is the finalized recording, base64-encoded. May be empty when
	// the user released before anything was captured.
	Audio string `json:"audio"`
}

type VoiceFinishRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}

type VoiceStateResponse struct {
	SessionId  string `json:"session_id"`
	State      string `json:"state"`
	Transcript string `json:"transcript,omitempty"`
	Reply      string `json:"reply,omitempty"`
	// AudioContent carries the synthesized reply when transitioning to
	// playing.
	AudioContent string `json:"audioContent,omitempty"`
}
