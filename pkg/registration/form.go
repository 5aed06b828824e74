package registration

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ColetaApp/coleta_api/pkg/coleta"
	"github.com/ColetaApp/coleta_api/pkg/ibge"
)

// RegionDirectory supplies the region and sub-region lists. *ibge.Client
// satisfies it.
type RegionDirectory interface {
	Regions(ctx context.Context) ([]ibge.Region, error)
	SubRegions(ctx context.Context, code string) ([]ibge.SubRegion, error)
}

// Submitter sends a finished registration. *coleta.Client satisfies it.
type Submitter interface {
	CreatePoint(ctx context.Context, sub coleta.Submission) (*coleta.Point, error)
}

// Form coordinates one registration session: it owns the draft, loads the
// region directory, and refreshes the sub-region list whenever the selected
// region changes. Sub-region fetches resolve asynchronously; a response is
// applied only while its region is still the selected one, so a slow fetch
// for a superseded region can never overwrite a newer list.
type Form struct {
	directory RegionDirectory
	api       Submitter

	mu         sync.Mutex
	draft      Draft
	regions    []string
	subRegions []string
	epoch      uint64

	pending sync.WaitGroup
}

// NewForm creates a form session backed by the given directory and API
// client.
func NewForm(directory RegionDirectory, api Submitter) *Form {
	return &Form{directory: directory, api: api}
}

// Load fetches the region list once. Failures degrade to an empty list: the
// region selector simply shows no options.
func (f *Form) Load(ctx context.Context) {
	regions, err := f.directory.Regions(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("region directory unavailable")
		return
	}

	codes := make([]string, len(regions))
	for i, r := range regions {
		codes[i] = r.Code
	}

	f.mu.Lock()
	f.regions = codes
	f.mu.Unlock()
}

// SetRegion selects a region, resets the sub-region selection and requests
// the new sub-region list in the background. Only the response for the most
// recent selection is applied, regardless of resolution order.
func (f *Form) SetRegion(ctx context.Context, code string) {
	f.mu.Lock()
	f.draft.SetRegion(code)
	f.draft.ClearSubRegion()
	f.subRegions = nil
	f.epoch++
	epoch := f.epoch
	f.mu.Unlock()

	if code == "" {
		return
	}

	f.pending.Add(1)
	go func() {
		defer f.pending.Done()

		subRegions, err := f.directory.SubRegions(ctx, code)
		if err != nil {
			log.Warn().Err(err).Str("region", code).Msg("sub-region fetch failed")
			return
		}

		names := make([]string, len(subRegions))
		for i, s := range subRegions {
			names[i] = s.Name
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		if f.epoch != epoch {
			// A newer region selection superseded this fetch.
			return
		}
		f.subRegions = names
	}()
}

// SetSubRegion selects a sub-region of the current region.
func (f *Form) SetSubRegion(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.SetSubRegion(name)
}

// SetField merges one contact field into the draft.
func (f *Form) SetField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.SetField(name, value)
}

// SetCoordinates records an explicit location pick.
func (f *Form) SetCoordinates(lat, lng float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.SetCoordinates(lat, lng)
}

// SetAmbientCoordinates records a best-effort device location read.
func (f *Form) SetAmbientCoordinates(lat, lng float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.SetAmbientCoordinates(lat, lng)
}

// ToggleItem flips one item id in the selection.
func (f *Form) ToggleItem(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.ToggleItem(id)
}

// AttachImage sets the optional image upload.
func (f *Form) AttachImage(name string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.AttachImage(name, data)
}

// Regions returns the loaded region codes.
func (f *Form) Regions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.regions))
	copy(out, f.regions)
	return out
}

// SubRegions returns the sub-region names of the selected region.
func (f *Form) SubRegions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.subRegions))
	copy(out, f.subRegions)
	return out
}

// Draft returns a snapshot of the current draft state.
func (f *Form) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := f.draft
	snapshot.items = f.draft.SelectedItems()
	return snapshot
}

// Wait blocks until all in-flight sub-region fetches have settled.
func (f *Form) Wait() {
	f.pending.Wait()
}

// Submit serializes the draft and sends it once. The caller discards the
// form on success; failures surface as the API client's error taxonomy and
// resubmission requires explicit user action.
func (f *Form) Submit(ctx context.Context) (*coleta.Point, error) {
	f.mu.Lock()
	payload := f.draft.Payload()
	f.mu.Unlock()

	return f.api.CreatePoint(ctx, payload)
}
