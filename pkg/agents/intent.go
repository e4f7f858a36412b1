package agents

import (
	"strings"

	"github.com/supportpilot/supportpilot/pkg/session"
)

// Intent is the routing decision for one user turn.
type Intent string

const (
	IntentResolveKB    Intent = "resolve_via_knowledge_base"
	IntentCreateTicket Intent = "create_ticket"
	IntentCheckStatus  Intent = "check_ticket_status"
)

// ticketRequestPhrases trigger immediate escalation regardless of session
// state. Checked before everything else.
var ticketRequestPhrases = []string{
	"create ticket", "open ticket", "need help",
	"escalate", "speak to someone", "talk to support",
}

// statusQueryPhrases route to the query agent.
var statusQueryPhrases = []string{
	"my tickets", "ticket status", "check ticket",
	"ticket number", "open tickets", "check status",
}

// negativeSignals mark a message as expressing dissatisfaction. Matched as
// substrings of the lower-cased message.
var negativeSignals = []string{
	"didn't work", "doesn't work", "not working",
	"didn't help", "doesn't help",
	"still not", "still broken", "still having",
	"problem persists", "issue persists",
	"same error", "same problem",
	"not fixed", "not solved",
	"getting worse", "even worse",
	"talk to someone", "speak to human",
	"escalate", "this is useless", "waste of time",
}

// ClassifyIntent maps a message to an intent using a fixed priority cascade:
// explicit ticket requests first, then status queries, then dissatisfaction
// after a knowledge base attempt, and finally the knowledge base default.
func ClassifyIntent(message string, meta *session.Metadata) Intent {
	lower := strings.ToLower(message)

	for _, p := range ticketRequestPhrases {
		if strings.Contains(lower, p) {
			return IntentCreateTicket
		}
	}
	for _, p := range statusQueryPhrases {
		if strings.Contains(lower, p) {
			return IntentCheckStatus
		}
	}
	if meta.KBAttempted {
		if _, dissatisfied := DetectDissatisfaction(message); dissatisfied {
			return IntentCreateTicket
		}
	}
	return IntentResolveKB
}

// DetectDissatisfaction reports whether the message carries a negative signal
// and returns the first matching phrase.
func DetectDissatisfaction(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, signal := range negativeSignals {
		if strings.Contains(lower, signal) {
			return signal, true
		}
	}
	return "", false
}
