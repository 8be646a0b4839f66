package intake

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/damagelog/internal/config"
	"github.com/mamadbah2/damagelog/internal/domain/models"
)

type fakeSheet struct {
	mu        sync.Mutex
	siteRows  [][]interface{}
	readErr   error
	appendErr error
	reads     int
	appended  map[string][][]interface{}
}

func (f *fakeSheet) AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	if f.appended == nil {
		f.appended = map[string][][]interface{}{}
	}
	f.appended[sheetRange] = append(f.appended[sheetRange], rows...)
	return nil
}

func (f *fakeSheet) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.siteRows, f.readErr
}

type recorder struct {
	records []models.SubmissionRecord
	err     error
}

func (r *recorder) SaveSubmission(ctx context.Context, record models.SubmissionRecord) error {
	r.records = append(r.records, record)
	return r.err
}

func (r *recorder) NotifySubmission(ctx context.Context, record models.SubmissionRecord) error {
	r.records = append(r.records, record)
	return r.err
}

var intakeCfg = config.IntakeConfig{SitesRange: "Sheet1!B2:B", SubmissionsRange: "Damages!A:G"}

func newTestService(sheet *fakeSheet, opts ...Option) *Service {
	s := NewService(sheet, intakeCfg, nil, opts...)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 10, 30, 0, 0, time.FixedZone("GMT+2", 7200)) }
	return s
}

func TestSitesCachesAndRefreshes(t *testing.T) {
	sheet := &fakeSheet{siteRows: [][]interface{}{{"North"}, {" "}, {}, {"South "}, {"<script>x</script>"}}}
	s := newTestService(sheet)

	sites, err := s.Sites(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"North", "South", "<script>x</script>"}, sites)

	_, err = s.Sites(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sheet.reads)

	sheet.siteRows = [][]interface{}{{"East"}}
	sites, err = s.RefreshSites(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"East"}, sites)

	sheet.readErr = errors.New("quota exceeded")
	_, err = s.RefreshSites(context.Background())
	require.Error(t, err)

	sites, err = s.Sites(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"East"}, sites, "failed refresh keeps the previous list")
}

func TestSitesFirstLoadFailure(t *testing.T) {
	s := newTestService(&fakeSheet{readErr: errors.New("forbidden")})
	_, err := s.Sites(context.Background())
	assert.ErrorContains(t, err, "load sites range")
}

func TestSubmitAppendsOneRowPerSerial(t *testing.T) {
	sheet := &fakeSheet{}
	archive := &recorder{}
	notifier := &recorder{}
	s := newTestService(sheet, WithArchive(archive), WithNotifier(notifier))

	record, err := s.Submit(context.Background(), models.Submission{
		Site:   " North ",
		Pallet: "P-1",
		Modules: []models.ModuleEntry{
			{Serial: " SN-1 ", Damage: "cracked", DateReceiving: "2024-04-30"},
			{Serial: "", Damage: "ignored"},
			{Serial: "=SUM(A1)", Damage: "-dent"},
		},
		Engineer: "Jane",
	})
	require.NoError(t, err)

	rows := sheet.appended["Damages!A:G"]
	require.Len(t, rows, 2)
	assert.Equal(t, []interface{}{"2024-05-01T08:30:00Z", "North", "P-1", "SN-1", "cracked", "2024-04-30", "Jane"}, rows[0])
	assert.Equal(t, "'=SUM(A1)", rows[1][3])
	assert.Equal(t, "'-dent", rows[1][4])

	assert.Equal(t, 2, record.RowCount)
	assert.Equal(t, "North", record.Site)
	assert.Len(t, record.Modules, 3)
	assert.Len(t, archive.records, 1)
	assert.Len(t, notifier.records, 1)
}

func TestSubmitValidation(t *testing.T) {
	base := models.Submission{Site: "North", Pallet: "P-1", Engineer: "Jane", Modules: []models.ModuleEntry{{Serial: "SN"}}}

	cases := map[string]struct {
		edit   func(s *models.Submission)
		reason string
	}{
		"site":     {func(s *models.Submission) { s.Site = " " }, "site is required"},
		"pallet":   {func(s *models.Submission) { s.Pallet = "" }, "pallet is required"},
		"engineer": {func(s *models.Submission) { s.Engineer = "\n" }, "engineer is required"},
		"serials":  {func(s *models.Submission) { s.Modules = []models.ModuleEntry{{Damage: "x"}} }, "at least one module serial is required"},
		"no rows":  {func(s *models.Submission) { s.Modules = nil }, "at least one module serial is required"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			sheet := &fakeSheet{}
			sub := base
			sub.Modules = append([]models.ModuleEntry(nil), base.Modules...)
			tc.edit(&sub)

			_, err := newTestService(sheet).Submit(context.Background(), sub)

			var invalid *InvalidSubmissionError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.reason, invalid.Reason)
			assert.Empty(t, sheet.appended)
		})
	}
}

func TestSubmitStoreFailureIsAllOrNothing(t *testing.T) {
	archive := &recorder{}
	s := newTestService(&fakeSheet{appendErr: errors.New("503")}, WithArchive(archive))

	_, err := s.Submit(context.Background(), models.Submission{Site: "N", Pallet: "P", Engineer: "E", Modules: []models.ModuleEntry{{Serial: "S"}}})
	assert.ErrorContains(t, err, "record submission")
	assert.Empty(t, archive.records)
}

func TestSubmitSideEffectFailuresDoNotFail(t *testing.T) {
	s := newTestService(&fakeSheet{}, WithArchive(&recorder{err: errors.New("mongo down")}), WithNotifier(&recorder{err: errors.New("whatsapp down")}))

	_, err := s.Submit(context.Background(), models.Submission{Site: "N", Pallet: "P", Engineer: "E", Modules: []models.ModuleEntry{{Serial: "S"}}})
	assert.NoError(t, err)
}
