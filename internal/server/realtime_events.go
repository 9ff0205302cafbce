package server

import (
	"context"
	"encoding/json"
	"log"

	"tavern/internal/observability"
)

// Event type constants prevent typos in event names.
const (
	EventPostCreated         = "post_created"
	EventPostReactionUpdated = "post_reaction_updated"
	EventReplyCreated        = "reply_created"
)

func (s *Server) publishUserEvent(userID uint, eventType string, payload map[string]interface{}) {
	message, ok := marshalEvent(eventType, payload)
	if !ok {
		return
	}
	if s.hub != nil {
		s.hub.Broadcast(userID, message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishUser(context.Background(), userID, message); err != nil {
			log.Printf("failed to publish %s event to user %d: %v", eventType, userID, err)
		}
	}
	observability.WebSocketEventsTotal.WithLabelValues(eventType).Inc()
}

func (s *Server) publishBroadcastEvent(eventType string, payload map[string]interface{}) {
	message, ok := marshalEvent(eventType, payload)
	if !ok {
		return
	}
	if s.hub != nil {
		s.hub.BroadcastAll(message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishBroadcast(context.Background(), message); err != nil {
			log.Printf("failed to publish %s broadcast event: %v", eventType, err)
		}
	}
	observability.WebSocketEventsTotal.WithLabelValues(eventType).Inc()
}

func marshalEvent(eventType string, payload map[string]interface{}) (string, bool) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return "", false
	}
	return string(eventJSON), true
}
