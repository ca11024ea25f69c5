// Package chat implements the real-time consultation transport between
// customer clients and the agent dashboard.
//
// It keeps WebSocket lifecycle, conversation history, and message fan-out
// isolated from the AI analysis layer so a slow or failing summarization
// call never disturbs live chat delivery.
package chat
