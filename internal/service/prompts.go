package service

import "strings"

const (
	// ForwardedPrefix marks content that was forwarded from another thread.
	ForwardedPrefix = "Forwarded:"
	// FallbackReply is stored whenever the completion gateway fails.
	FallbackReply = "Sorry, I couldn't generate a reply."

	plainInstruction     = "You are a friendly assistant. Please respond naturally and helpfully to the user's message."
	forwardedInstruction = "You are a friendly assistant. The user has forwarded a message to you. Please respond naturally to the forwarded content as if you're seeing it for the first time. Be helpful and engaging."
)

// buildPrompt picks the system instruction for content and returns the text
// the model should answer. Forwarded content loses its prefix and surrounding
// whitespace.
func buildPrompt(content string) (systemInstruction, userContent string) {
	if strings.HasPrefix(content, ForwardedPrefix) {
		return forwardedInstruction, strings.TrimSpace(strings.TrimPrefix(content, ForwardedPrefix))
	}
	return plainInstruction, content
}
