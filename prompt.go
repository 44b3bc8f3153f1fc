package chatbot

import "strings"

// Generation settings shared by the model backends.
const (
	ReplyTemperature = 0.6
	ReplyMaxTokens   = 400
)

// DefaultReply is returned when a model answers without any usable text.
const DefaultReply = "The AI did not provide a clear response. Please try again."

const promptTemplate = `
You are a caring AI medical assistant helping users with basic health tips.

Your job:
- Provide helpful, clear responses in 4-5 bullet points for common health issues like fever, cold, headache, migraine, etc.
- Avoid repeating warnings unless necessary.
- If the query is unclear or serious, briefly advise seeing a doctor.

User's message: {message}
`

// HealthPrompt wraps a user message in the health-assistant instructions.
func HealthPrompt(message string) string {
	return strings.Replace(promptTemplate, "{message}", message, 1)
}

// BlockedReply is the bot text for a prompt the model refused to answer.
func BlockedReply(reason string) string {
	return "Your question was blocked due to safety guidelines: " + reason
}
