package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/mamadbah2/damagelog/internal/domain/models"
	"github.com/mamadbah2/damagelog/internal/form"
)

const (
	formTemplate  = "form.html"
	maxFormBytes  = 32 << 20
	maxFieldBytes = 64 << 10
	logoField     = "logo"

	actionAdd    = "add"
	actionClear  = "clear"
	actionSubmit = "submit"
	actionLogo   = "logo"
	removePrefix = "remove:"
)

// formRequest carries the posted page: field values plus the pressed button.
type formRequest struct {
	Action   string   `form:"action"`
	Site     string   `form:"site"`
	Pallet   string   `form:"pallet"`
	Engineer string   `form:"engineer"`
	Serials  []string `form:"serial"`
	Damages  []string `form:"damage"`
	Dates    []string `form:"date_receiving"`
	LogoData string   `form:"logo_data"`

	// logo is the uploaded file, kept up to one byte past MaxLogoBytes.
	logo    []byte
	hasLogo bool
}

func (r formRequest) entries() []models.ModuleEntry {
	n := max(len(r.Serials), len(r.Damages), len(r.Dates))
	out := make([]models.ModuleEntry, n)
	for i := range out {
		out[i] = models.ModuleEntry{
			Serial:        at(r.Serials, i),
			Damage:        at(r.Damages, i),
			DateReceiving: at(r.Dates, i),
		}
	}
	return out
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// FormHandler renders the data-entry page and applies one user action per POST.
type FormHandler struct {
	api    form.API
	logger *zap.Logger
}

// NewFormHandler constructs the page handler.
func NewFormHandler(api form.API, logger *zap.Logger) *FormHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormHandler{api: api, logger: logger}
}

// Show renders a fresh form: sites loaded, one blank module row.
func (h *FormHandler) Show(c *gin.Context) {
	f := form.New(h.api, h.logger)
	_ = f.LoadSites(c.Request.Context())
	c.HTML(http.StatusOK, formTemplate, f)
}

// Act rebuilds the posted form, applies the pressed action and re-renders.
func (h *FormHandler) Act(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormBytes)

	ctx := c.Request.Context()
	f := form.New(h.api, h.logger)

	req, err := readFormRequest(c.Request)
	if err != nil {
		h.logger.Warn("invalid form post", zap.Error(err))
		_ = f.LoadSites(ctx)
		f.Message.Show("Form could not be read, please re-enter the data: "+err.Error(), form.SeverityError)
		c.HTML(http.StatusBadRequest, formTemplate, f)
		return
	}

	f.Site = req.Site
	f.Pallet = req.Pallet
	f.Engineer = req.Engineer
	f.Rows = form.RowsFromEntries(req.entries())
	_ = f.LoadSites(ctx)

	if err := f.Logo.Restore(req.LogoData); err != nil {
		h.logger.Debug("dropping carried logo preview", zap.Error(err))
	}

	switch req.Action {
	case actionAdd:
		f.AddRow()
	case actionClear:
		f.ClearRows()
	case actionSubmit:
		if err := f.Submit(ctx); err != nil {
			h.logger.Debug("submission not accepted", zap.Error(err))
		}
	case actionLogo:
		loadLogo(f, req)
	default:
		if idx, ok := strings.CutPrefix(req.Action, removePrefix); ok {
			i, err := strconv.Atoi(idx)
			if err != nil {
				i = -1
			}
			_ = f.RemoveRow(i)
		}
	}

	c.HTML(http.StatusOK, formTemplate, f)
}

// loadLogo previews the uploaded file. A post without a file keeps the
// carried preview.
func loadLogo(f *form.Form, req formRequest) {
	if !req.hasLogo || len(req.logo) == 0 {
		return
	}
	if err := f.Logo.Load(req.logo); err != nil {
		f.Message.Show("Logo preview failed: "+err.Error(), form.SeverityError)
	}
}

// readFormRequest decodes the posted page. Multipart bodies are streamed so a
// large logo file is cut at the preview limit instead of failing the post.
func readFormRequest(r *http.Request) (formRequest, error) {
	var req formRequest

	mr, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		return req, binding.MapFormWithTag(&req, r.PostForm, "form")
	}
	if err != nil {
		return req, err
	}

	values := url.Values{}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return req, err
		}

		switch name := part.FormName(); {
		case name == "":
		case part.FileName() != "":
			if name == logoField && !req.hasLogo {
				req.logo, err = io.ReadAll(io.LimitReader(part, form.MaxLogoBytes+1))
				req.hasLogo = true
			}
		default:
			var value []byte
			value, err = io.ReadAll(io.LimitReader(part, maxFieldBytes))
			values.Add(name, string(value))
		}

		// Close drains whatever was not read, including the rest of an oversized file.
		if cerr := part.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return req, err
		}
	}

	return req, binding.MapFormWithTag(&req, values, "form")
}
