package form

import (
	"context"

	"go.uber.org/zap"
)

const (
	placeholderLabel  = "-- Select site --"
	failedLabel       = "Failed to load sites"
	serverErrorLabel  = "Error loading sites"
	noSitesLabel      = "No sites found in Sheet"
	noSitesGuidance   = "No sites found in the sheet. Add site names in column B (rows 2...)."
	loadFailurePrefix = "Failed to load sites: "
)

// SiteOption is one entry of the site selector.
type SiteOption struct {
	Value    string
	Label    string
	Disabled bool
}

// SiteSelector is the rendered site drop-down.
type SiteSelector struct {
	Options []SiteOption
}

// Contains reports whether site is a selectable option.
func (s SiteSelector) Contains(site string) bool {
	if site == "" {
		return false
	}
	for _, o := range s.Options {
		if !o.Disabled && o.Value == site {
			return true
		}
	}
	return false
}

func unavailable(label string) SiteSelector {
	return SiteSelector{Options: []SiteOption{{Label: label, Disabled: true}}}
}

// LoadSites fetches the site list and rebuilds the selector. A previously
// selected site is kept only if it is still offered.
func (f *Form) LoadSites(ctx context.Context) error {
	resp, err := f.api.GetSites(ctx)
	if err != nil {
		f.logger.Error("load sites failed", zap.Error(err))
		f.Sites = unavailable(failedLabel)
		f.Site = ""
		f.Message.Show(loadFailurePrefix+err.Error(), SeverityError)
		return &TransportError{Op: "load sites", Err: err}
	}

	if resp.Error != "" {
		f.logger.Warn("intake api returned site error", zap.String("error", resp.Error))
		f.Sites = unavailable(serverErrorLabel)
		f.Site = ""
		f.Message.Show(loadFailurePrefix+resp.Error, SeverityError)
		return &ServerRejection{Message: resp.Error}
	}

	if len(resp.Sites) == 0 {
		f.Sites = unavailable(noSitesLabel)
		f.Site = ""
		f.Message.Show(noSitesGuidance, SeverityError)
		return nil
	}

	options := make([]SiteOption, 0, len(resp.Sites)+1)
	options = append(options, SiteOption{Label: placeholderLabel})
	for _, name := range resp.Sites {
		options = append(options, SiteOption{Value: name, Label: name})
	}
	f.Sites = SiteSelector{Options: options}
	if !f.Sites.Contains(f.Site) {
		f.Site = ""
	}
	f.Message.Hide()
	return nil
}
