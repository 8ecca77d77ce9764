package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	GenerateImageToolName = "generate_image"

	ChatSystemPrompt = `You are a helpful AI assistant. Answer the user's questions clearly and concisely.

You can generate images. When the user asks you to draw, create, generate or
visualize an image, call the generate_image tool with a detailed prompt
describing what to render. For everything else, reply in plain text.`

	// Spoken replies are synthesized to audio, so keep them short and
	// free of markup the TTS engine would read aloud.
	VoiceSystemPrompt = `You are a helpful voice assistant. Reply conversationally in one or two short sentences of plain text, with no markdown, lists or code.`

	// Shown to the user whenever the pipeline fails, regardless of cause.
	// Provider error details never reach the client.
	ChatGenericErrorMessage = "I'm sorry, something went wrong while processing your request. Please try again."

	// Reply body accompanying a generated image. %s is the image prompt.
	ChatImageReplyTemplate = `I've generated an image for you: "%s"`

	// How many recent messages are loaded as model context. Bounds both
	// latency and token cost per request.
	ChatHistoryWindow = 10

	ChatTitleMaxLength = 50
)

// Response types returned by the chat pipeline.
const (
	ChatResponseTypeText           = "text"
	ChatResponseTypeImageGenerated = "image_generated"
	ChatResponseTypeError          = "error"
)
