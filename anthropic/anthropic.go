// Package anthropic implements [chatbot.Replier] for the Anthropic Messages
// API using the official anthropic-sdk-go client.
package anthropic

const (
	defaultModel = "claude-sonnet-4-20250514"
	stopRefusal  = "refusal"
)
