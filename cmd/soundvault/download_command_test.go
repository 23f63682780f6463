package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"soundvault/internal/testsupport"
)

var cricketsPayload = []byte("crickets-preview-payload")

// newFreesoundStub serves the slice of the Freesound API the vault talks
// to: text search, sound detail, and the preview file itself.
func newFreesoundStub(t *testing.T, previewHits *atomic.Int64) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var server *httptest.Server

	soundJSON := func() string {
		return fmt.Sprintf(
			`{"id":412,"name":"Night Crickets","tags":["night","crickets"],"description":"Field recording at dusk","duration":12.5,"license":"CC0","username":"fieldrec","previews":{"preview-hq-mp3":%q}}`,
			server.URL+"/previews/412.mp3",
		)
	}

	mux.HandleFunc("/apiv2/search/text/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprintf(w, `{"count":1,"next":"","results":[%s]}`, soundJSON())
	})
	mux.HandleFunc("/apiv2/sounds/412/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, soundJSON())
	})
	mux.HandleFunc("/previews/412.mp3", func(w http.ResponseWriter, r *http.Request) {
		if previewHits != nil {
			previewHits.Add(1)
		}
		w.Write(cricketsPayload)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestDownloadAndPreviewAgainstStub(t *testing.T) {
	var previewHits atomic.Int64
	server := newFreesoundStub(t, &previewHits)
	env := setupCLITestEnv(t, testsupport.WithAPIKey("test-key"), testsupport.WithBaseURL(server.URL))

	out, _, err := runCLI(t, []string{"search", "--remote", "crickets"}, env.configPath)
	if err != nil {
		t.Fatalf("search --remote: %v", err)
	}
	requireContains(t, out, "Night Crickets")
	requireContains(t, out, "412")

	out, _, err = runCLI(t, []string{"download", "412"}, env.configPath)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	requireContains(t, out, "Downloaded 412 as ")
	id := idAfterAs(t, out)

	out, _, err = runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "Night Crickets")
	requireContains(t, out, "freesound 412")

	// A second download of the same source reuses the first record.
	out, _, err = runCLI(t, []string{"download", "412"}, env.configPath)
	if err != nil {
		t.Fatalf("download again: %v", err)
	}
	requireContains(t, out, id)
	if hits := previewHits.Load(); hits != 1 {
		t.Fatalf("expected 1 preview fetch after repeat download, got %d", hits)
	}

	// The preview comes out of the cache written during materialization.
	target := filepath.Join(t.TempDir(), "crickets.mp3")
	out, _, err = runCLI(t, []string{"preview", "412", "-o", target}, env.configPath)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	requireContains(t, out, target)
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read preview file: %v", err)
	}
	if !bytes.Equal(data, cricketsPayload) {
		t.Fatalf("preview bytes mismatch: got %d bytes", len(data))
	}
	if hits := previewHits.Load(); hits != 1 {
		t.Fatalf("expected preview to hit the cache, got %d fetches", hits)
	}
}

func TestDownloadUnknownSourceFails(t *testing.T) {
	server := newFreesoundStub(t, nil)
	env := setupCLITestEnv(t, testsupport.WithAPIKey("test-key"), testsupport.WithBaseURL(server.URL))

	_, _, err := runCLI(t, []string{"download", "999"}, env.configPath)
	if err == nil {
		t.Fatal("expected download of unknown source to fail")
	}
}

func TestDownloadIntoCollection(t *testing.T) {
	server := newFreesoundStub(t, nil)
	env := setupCLITestEnv(t, testsupport.WithAPIKey("test-key"), testsupport.WithBaseURL(server.URL))

	out, _, err := runCLI(t, []string{"collection", "create", "Night Ambience"}, env.configPath)
	if err != nil {
		t.Fatalf("collection create: %v", err)
	}
	collectionID := idAfterAs(t, out)

	if _, _, err := runCLI(t, []string{"download", "412", "--collection", collectionID}, env.configPath); err != nil {
		t.Fatalf("download --collection: %v", err)
	}

	out, _, err = runCLI(t, []string{"collection", "show", collectionID}, env.configPath)
	if err != nil {
		t.Fatalf("collection show: %v", err)
	}
	requireContains(t, out, "Night Crickets")
}
