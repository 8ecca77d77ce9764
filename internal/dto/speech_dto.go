package dto

type TranscribeRequest struct {
	// Audio is base64-encoded when sent as JSON; multipart uploads bypass
	// this field.
	Audio string `json:"audio"`
}

type TranscribeResponse struct {
	Text string `json:"text"`
}

type SynthesizeRequest struct {
	Text  string `json:"text" validate:"required"`
	Voice string `json:"voice"`
}

type SynthesizeResponse struct {
	AudioContent string `json:"audioContent"` // base64
	MimeType     string `json:"mime_type"`
}
