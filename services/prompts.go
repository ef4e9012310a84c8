package services

import (
	"fmt"
	"strings"
	"time"
)

const (
	greetingReply = "Hello! I'm your travel assistant. I can search flights and hotels, suggest destinations, " +
		"estimate a trip budget or find tours. Where would you like to go?"

	outOfScopeReply = "Sorry, I can only help with travel planning such as flights, hotels, destinations, " +
		"budgets and tours. What trip can I help you with?"

	emptyReply = "I'm not sure how to help with that. Could you rephrase your travel question?"

	scopePrompt = "You decide whether a message sent to a travel assistant is about travel planning. " +
		"Short follow-ups that answer the assistant's previous question count as travel. " +
		"Answer with a single word: yes or no."
)

var greetings = []string{
	"hi", "hello", "hey", "hiya", "howdy", "greetings", "yo",
	"good morning", "good afternoon", "good evening",
}

// systemPrompt is the instruction sent ahead of every tool-selection and follow-up call
func systemPrompt(now time.Time) string {
	return fmt.Sprintf(`You are a helpful travel assistant.

Today's date is %s.

When you call search_flights, pass departure_date exactly as the user said it (for example "March 3rd" or "next year"); do not convert it yourself.
Use YYYY-MM-DD for hotel and tour dates.
Ask for anything that is missing instead of guessing.`, now.Format("Monday, January 2, 2006"))
}

// scopeQuestion builds the classification input, including the assistant's
// latest message when there is one
func scopeQuestion(message, lastAssistant string) string {
	if lastAssistant == "" {
		return message
	}
	return fmt.Sprintf("Assistant's previous message: %s\n\nUser message: %s", lastAssistant, message)
}

func affirmative(answer string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "yes")
}
