package logging

import (
	"encoding/json"
	"log"
	"time"
)

type Fields struct {
	Service     string `json:"service"`
	Op          string `json:"op,omitempty"`
	ActorID     string `json:"actor_id,omitempty"`
	OrderID     string `json:"order_id,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
	Status      string `json:"status,omitempty"`
	AmountCents int64  `json:"amount_cents,omitempty"`
	DurationMS  int64  `json:"duration_ms,omitempty"`
	Message     string `json:"message,omitempty"`
}

func Log(fields Fields) {
	payload := map[string]any{
		"service":      fields.Service,
		"op":           fields.Op,
		"actor_id":     fields.ActorID,
		"order_id":     fields.OrderID,
		"session_id":   fields.SessionID,
		"status":       fields.Status,
		"amount_cents": fields.AmountCents,
		"duration_ms":  fields.DurationMS,
		"message":      fields.Message,
		"timestamp":    time.Now().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("{\"service\":%q,\"status\":\"log_error\",\"error\":%q}", fields.Service, err.Error())
		return
	}
	log.Print(string(data))
}
