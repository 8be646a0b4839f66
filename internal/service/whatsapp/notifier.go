package whatsapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/damagelog/internal/config"
	"github.com/mamadbah2/damagelog/internal/domain/models"
	client "github.com/mamadbah2/damagelog/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// Notifier posts a short summary of each accepted damage report to a
// WhatsApp group.
type Notifier struct {
	client  client.Client
	groupID string
	logger  *zap.Logger
}

// NewNotifier wires a notifier for the configured group.
func NewNotifier(cfg config.WhatsAppConfig, c client.Client, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{client: c, groupID: cfg.GroupID, logger: logger}
}

// NotifySubmission sends the summary for one accepted submission.
func (n *Notifier) NotifySubmission(ctx context.Context, record models.SubmissionRecord) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := n.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:   n.groupID,
		Body: FormatSubmission(record),
	})
	if err != nil {
		return fmt.Errorf("notify submission for pallet %s: %w", record.Pallet, err)
	}

	n.logger.Debug("submission notification sent", zap.String("pallet", record.Pallet))
	return nil
}

// FormatSubmission renders the notification text.
func FormatSubmission(record models.SubmissionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Damage report - %s\n", record.Site)
	fmt.Fprintf(&b, "Pallet: %s\n", record.Pallet)
	fmt.Fprintf(&b, "Engineer: %s\n", record.Engineer)
	fmt.Fprintf(&b, "Modules: %d", record.RowCount)

	for _, m := range record.Modules {
		if m.Serial == "" {
			continue
		}
		line := "\n- " + m.Serial
		if m.Damage != "" {
			line += ": " + m.Damage
		}
		if m.DateReceiving != "" {
			line += " (received " + m.DateReceiving + ")"
		}
		b.WriteString(line)
	}
	return b.String()
}
