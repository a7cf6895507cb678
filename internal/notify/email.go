package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/backend-repair/internal/common"
	"github.com/noah-isme/backend-repair/internal/db"
	"github.com/noah-isme/backend-repair/internal/events"
)

// EmailNotifier sends transactional emails for selected topics.
type EmailNotifier struct {
	Mail         common.EmailSender
	Enabled      bool
	From         string
	TopicToggles map[string]bool
}

// Notify implements the events.Notifier interface.
func (n EmailNotifier) Notify(_ context.Context, event db.DomainEvent) error {
	if !n.Enabled || n.Mail == nil {
		return nil
	}
	if n.TopicToggles != nil {
		if enabled, ok := n.TopicToggles[event.Topic]; ok && !enabled {
			return nil
		}
	}
	payload := map[string]any{}
	if len(event.Payload) > 0 {
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("email notify: decode payload: %w", err)
		}
	}
	to := extractRecipient(payload)
	if to == "" {
		return nil
	}
	subject := subjectFor(event.Topic)
	body := bodyFor(event.Topic, payload, event.OccurredAt.Time)
	return n.Mail.Send(to, subject, body)
}

func extractRecipient(payload map[string]any) string {
	keys := []string{"email", "recipient", "customerEmail"}
	for _, key := range keys {
		if val, ok := payload[key]; ok {
			if s, ok := val.(string); ok {
				s = strings.TrimSpace(s)
				if s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func subjectFor(topic string) string {
	switch topic {
	case events.TopicRequestCreated:
		return "수리 접수가 완료되었습니다"
	case events.TopicRequestReceived:
		return "기기가 입고되었습니다"
	case events.TopicRequestDone:
		return "수리가 완료되었습니다"
	default:
		return fmt.Sprintf("알림 %s", topic)
	}
}

func bodyFor(topic string, payload map[string]any, occurred time.Time) string {
	summary := fmt.Sprintf("이벤트 %s 발생 시각 %s.", topic, occurred.Format(time.RFC3339))
	if requestID, ok := payload["requestId"].(string); ok && requestID != "" {
		summary += fmt.Sprintf("\n접수 번호: %s", requestID)
	}
	if model, ok := payload["model"].(string); ok && model != "" {
		summary += fmt.Sprintf("\n기기: %s", model)
	}
	if total, ok := payload["total"].(float64); ok {
		summary += fmt.Sprintf("\n결제 예정 금액: %.0f", total)
	}
	if note, ok := payload["message"].(string); ok && note != "" {
		summary += "\n" + note
	}
	return summary
}
