package form

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/damagelog/internal/domain/models"
)

const (
	submittingText      = "Submitting..."
	submittedText       = "Data successfully submitted - Add more data"
	rejectedPrefix      = "Submission failed: "
	transportPrefix     = "Submission error: "
	unknownRejectionMsg = "unknown error"
)

// Validate checks the form in a fixed order and returns the serialized
// payload. The first failing check wins.
func (f *Form) Validate() (models.Submission, error) {
	if f.Site == "" {
		return models.Submission{}, &ValidationError{Field: "site", Message: "Please select a site"}
	}

	pallet := strings.TrimSpace(f.Pallet)
	if pallet == "" {
		return models.Submission{}, &ValidationError{Field: "pallet", Message: "Please enter pallet number"}
	}

	engineer := strings.TrimSpace(f.Engineer)
	if engineer == "" {
		return models.Submission{}, &ValidationError{Field: "engineer", Message: "Please enter site engineer name"}
	}

	if f.Rows.Len() == 0 {
		return models.Submission{}, &ValidationError{Field: "modules", Message: "No module rows found"}
	}

	rows := f.Rows.Rows()
	modules := make([]models.ModuleEntry, 0, len(rows))
	hasSerial := false
	for _, r := range rows {
		m := models.ModuleEntry{
			Serial:        strings.TrimSpace(r.Serial),
			Damage:        strings.TrimSpace(r.Damage),
			DateReceiving: r.DateReceiving,
		}
		if m.Serial != "" {
			hasSerial = true
		}
		modules = append(modules, m)
	}
	if !hasSerial {
		return models.Submission{}, &ValidationError{Field: "serial", Message: "Enter at least one module serial number"}
	}

	return models.Submission{
		Site:     f.Site,
		Pallet:   pallet,
		Modules:  modules,
		Engineer: engineer,
	}, nil
}

// Submit validates the form and posts it to the intake API. The outcome is
// reflected in the message banner; the form always ends up idle again.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateIdle {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}
	f.state = StateValidating
	f.mu.Unlock()
	defer f.setState(StateIdle)

	f.Message.Hide()

	sub, err := f.Validate()
	if err != nil {
		f.Message.Show(err.Error(), SeverityError)
		return err
	}

	f.setState(StateSubmitting)
	f.Message.Show(submittingText, SeverityInfo)

	result, err := f.api.Submit(ctx, sub)
	if err != nil {
		f.setState(StateFailed)
		var te *TransportError
		if !errors.As(err, &te) {
			te = &TransportError{Op: "submit", Err: err}
		}
		f.logger.Error("submit error", zap.Error(te))
		f.Message.Show(transportPrefix+te.Err.Error(), SeverityError)
		return te
	}

	if !result.Success {
		f.setState(StateFailed)
		msg := result.Message
		if msg == "" {
			msg = result.Raw
		}
		if msg == "" {
			msg = unknownRejectionMsg
		}
		f.logger.Warn("submit rejected", zap.String("message", msg), zap.String("site", sub.Site), zap.String("pallet", sub.Pallet))
		f.Message.Show(rejectedPrefix+msg, SeverityError)
		return &ServerRejection{Message: msg}
	}

	f.setState(StateSucceeded)
	f.logger.Info("submission accepted", zap.String("site", sub.Site), zap.String("pallet", sub.Pallet), zap.Int("modules", len(sub.Modules)))
	f.Message.Show(submittedText, SeveritySuccess)
	f.Pallet = ""
	f.Engineer = ""
	f.Rows.ClearAll()
	return nil
}
