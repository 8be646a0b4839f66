package form

import (
	"context"
	"sync"

	"github.com/mamadbah2/damagelog/internal/domain/models"
)

type fakeAPI struct {
	mu sync.Mutex

	sites    models.SitesResponse
	sitesErr error

	result    models.SubmissionResult
	submitErr error
	submitted []models.Submission

	// entered and release, when set, make Submit block until released.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeAPI) GetSites(ctx context.Context) (models.SitesResponse, error) {
	return f.sites, f.sitesErr
}

func (f *fakeAPI) Submit(ctx context.Context, sub models.Submission) (models.SubmissionResult, error) {
	f.mu.Lock()
	f.submitted = append(f.submitted, sub)
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	return f.result, f.submitErr
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitted)
}
