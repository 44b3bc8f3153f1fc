// Package gemini implements [chatbot.Replier] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK. Each reply is a single
// non-streaming GenerateContent call carrying the health-assistant prompt.
package gemini

const defaultModel = "gemini-2.0-flash"
