package soundvault

import (
	"context"
	"net/http"
	"time"

	"soundvault/config"
	"soundvault/freesound"
	"soundvault/sound"
)

// RemoteSearchOptions tunes a remote discovery query. Filter and Sort use
// the remote service's own expression syntax and pass through verbatim.
// Zero values request the service defaults.
type RemoteSearchOptions struct {
	Filter   string
	Sort     string
	Page     int
	PageSize int
}

// RemoteSearchResult is one page of remote hits converted to transient
// remote sounds.
type RemoteSearchResult struct {
	Sounds  []sound.Sound
	Total   int
	Page    int
	HasMore bool
}

// RemotePayload carries a fetched remote asset: the resolved sound, the
// audio bytes, and the rendition's file extension.
type RemotePayload struct {
	Sound sound.Sound
	Data  []byte
	Ext   string
}

// RemoteSource is the discovery-and-fetch surface the vault uses for remote
// operations. Implementations classify failures with the sound sentinel
// errors so callers can branch on them.
type RemoteSource interface {
	// Search queries the remote service for sounds matching query.
	Search(ctx context.Context, query string, opts RemoteSearchOptions) (RemoteSearchResult, error)
	// Resolve fetches the current remote record for one source id.
	Resolve(ctx context.Context, sourceID string) (sound.Sound, error)
	// Fetch resolves a source id and downloads its best audio rendition.
	Fetch(ctx context.Context, sourceID string) (RemotePayload, error)
	// Ping verifies reachability and the configured credential.
	Ping(ctx context.Context) error
}

// freesoundSource adapts the Freesound client to the RemoteSource surface.
type freesoundSource struct {
	client *freesound.Client
}

func newFreesoundSource(cfg *config.Config, httpClient *http.Client) (RemoteSource, error) {
	client, err := freesound.New(freesound.Config{
		APIKey:     cfg.Freesound.APIKey,
		BaseURL:    cfg.Freesound.BaseURL,
		UserAgent:  cfg.Freesound.UserAgent,
		Timeout:    time.Duration(cfg.Freesound.TimeoutSeconds) * time.Second,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, err
	}
	return &freesoundSource{client: client}, nil
}

func (s *freesoundSource) Search(ctx context.Context, query string, opts RemoteSearchOptions) (RemoteSearchResult, error) {
	resp, err := s.client.Search(ctx, freesound.SearchRequest{
		Query:    query,
		Filter:   opts.Filter,
		Sort:     opts.Sort,
		Page:     opts.Page,
		PageSize: opts.PageSize,
	})
	if err != nil {
		return RemoteSearchResult{}, err
	}
	sounds := make([]sound.Sound, 0, len(resp.Sounds))
	for _, hit := range resp.Sounds {
		sounds = append(sounds, hit.Entity())
	}
	return RemoteSearchResult{
		Sounds:  sounds,
		Total:   resp.Total,
		Page:    resp.Page,
		HasMore: resp.HasMore,
	}, nil
}

func (s *freesoundSource) Resolve(ctx context.Context, sourceID string) (sound.Sound, error) {
	result, err := s.client.SoundByID(ctx, sourceID)
	if err != nil {
		return sound.Sound{}, err
	}
	return result.Entity(), nil
}

func (s *freesoundSource) Fetch(ctx context.Context, sourceID string) (RemotePayload, error) {
	dl, err := s.client.Download(ctx, sourceID)
	if err != nil {
		return RemotePayload{}, err
	}
	return RemotePayload{
		Sound: dl.Sound.Entity(),
		Data:  dl.Data,
		Ext:   dl.Ext,
	}, nil
}

func (s *freesoundSource) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
