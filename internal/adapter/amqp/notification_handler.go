package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/YelzhanWeb/chocoqc/internal/adapter/logger"
	"github.com/YelzhanWeb/chocoqc/internal/interfaces"
)

type NotificationHandler struct {
	logger logger.Logger
	out    io.Writer
}

func NewNotificationHandler(logger logger.Logger, out io.Writer) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
		out:    out,
	}
}

func (h *NotificationHandler) HandleInspection(ctx context.Context, body []byte) error {
	var msg interfaces.InspectionMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse inspection notification", "", nil, err)
		return err
	}

	h.logger.Debug("notification_received", fmt.Sprintf("Received inspection result for batch %s", msg.BatchID),
		msg.InspectionID, map[string]interface{}{
			"batch_id": msg.BatchID,
			"process":  msg.Process,
			"status":   msg.Status,
		})

	defects := "none"
	if len(msg.Defects) > 0 {
		names := make([]string, len(msg.Defects))
		for i, d := range msg.Defects {
			names[i] = string(d)
		}
		defects = strings.Join(names, ", ")
	}

	_, err := fmt.Fprintf(h.out, "Inspection of batch %s (%s, %s): %s, defects: %s\n",
		msg.BatchID, msg.Process, msg.Variant, msg.Status.Label(), defects)
	return err
}
