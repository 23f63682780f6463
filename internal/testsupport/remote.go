package testsupport

import (
	"context"
	"sort"
	"strings"
	"sync"

	"soundvault"
	"soundvault/sound"
)

// FakeRemote is an in-memory soundvault.RemoteSource for engine tests.
// Payloads are registered up front; call counters let tests assert how
// often the network would have been touched.
type FakeRemote struct {
	mu       sync.Mutex
	payloads map[string]soundvault.RemotePayload

	SearchErr error
	FetchErr  error
	PingErr   error

	searchCalls int
	fetchCalls  int
}

// NewFakeRemote returns an empty fake source.
func NewFakeRemote() *FakeRemote {
	return &FakeRemote{payloads: make(map[string]soundvault.RemotePayload)}
}

// AddSound registers a remote sound with audio payload under the given
// source id.
func (f *FakeRemote) AddSound(sourceID, name string, tags []string, data []byte, ext string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entity := sound.NewRemoteSound(sourceID, sound.Metadata{
		Name:     name,
		Tags:     tags,
		Duration: float64(len(data)),
		License:  "CC0",
	}, "https://remote.test/previews/"+sourceID+ext)
	f.payloads[sourceID] = soundvault.RemotePayload{Sound: entity, Data: data, Ext: ext}
}

// SearchCalls reports how many Search invocations the fake served.
func (f *FakeRemote) SearchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchCalls
}

// FetchCalls reports how many Fetch invocations the fake served.
func (f *FakeRemote) FetchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

// Search matches registered sounds whose name or tags contain the query,
// ordered by source id for determinism.
func (f *FakeRemote) Search(ctx context.Context, query string, opts soundvault.RemoteSearchOptions) (soundvault.RemoteSearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.SearchErr != nil {
		return soundvault.RemoteSearchResult{}, f.SearchErr
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	ids := make([]string, 0, len(f.payloads))
	for id := range f.payloads {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var hits []sound.Sound
	for _, id := range ids {
		entity := f.payloads[id].Sound
		if needle == "" || strings.Contains(strings.ToLower(entity.Metadata.Name), needle) || tagMatch(entity.Metadata.Tags, needle) {
			hits = append(hits, entity.Clone())
		}
	}
	return soundvault.RemoteSearchResult{Sounds: hits, Total: len(hits), Page: 1}, nil
}

// Resolve returns the registered record or ErrNotFoundUpstream.
func (f *FakeRemote) Resolve(ctx context.Context, sourceID string) (sound.Sound, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.payloads[sourceID]
	if !ok {
		return sound.Sound{}, sound.Wrap(sound.ErrNotFoundUpstream, "fake resolve", sourceID, nil)
	}
	return payload.Sound.Clone(), nil
}

// Fetch returns the registered payload or ErrNotFoundUpstream.
func (f *FakeRemote) Fetch(ctx context.Context, sourceID string) (soundvault.RemotePayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.FetchErr != nil {
		return soundvault.RemotePayload{}, f.FetchErr
	}
	payload, ok := f.payloads[sourceID]
	if !ok {
		return soundvault.RemotePayload{}, sound.Wrap(sound.ErrNotFoundUpstream, "fake fetch", sourceID, nil)
	}
	out := payload
	out.Sound = payload.Sound.Clone()
	out.Data = append([]byte(nil), payload.Data...)
	return out, nil
}

// Ping reports the configured ping error.
func (f *FakeRemote) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.PingErr
}

func tagMatch(tags []string, needle string) bool {
	for _, tag := range tags {
		if strings.Contains(tag, needle) {
			return true
		}
	}
	return false
}
