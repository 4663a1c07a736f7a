package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"poetry-reels/config"
	"poetry-reels/store"
	"poetry-reels/types"
)

// fakePexels serves a single searchable clip with the given id
func fakePexels(t *testing.T, clipID int, clipBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/videos/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprintf(w, `{"videos":[{"id":%d,"duration":20,"video_files":[
			{"quality":"sd","width":540,"height":960,"link":"%s/file/sd"},
			{"quality":"hd","width":1080,"height":1920,"link":"%s/file/hd"}
		]}]}`, clipID, serverURL(r), serverURL(r))
	})
	mux.HandleFunc("/file/hd", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, clipBody)
	})
	return httptest.NewServer(mux)
}

func serverURL(r *http.Request) string {
	return "http://" + r.Host
}

func testFetcher(t *testing.T, pexelsURL string) (*BackgroundFetcher, *store.Store) {
	t.Helper()
	root := t.TempDir()
	st := store.New(filepath.Join(root, "assets"), filepath.Join(root, "defaults"))
	cfg := &config.Config{
		Fetch: config.FetchConfig{
			ProviderDelayMS:  1,
			MinClipDuration:  10,
			MinClipHeight:    720,
			KeywordsPerFetch: 1,
		},
	}
	f := NewBackgroundFetcher(st, cfg)
	f.pexelsKey = "test-key"
	f.pixabayKey = ""
	f.pexelsBase = pexelsURL
	f.delay = time.Millisecond
	return f, st
}

func TestFetchPexelsAddsClips(t *testing.T) {
	srv := fakePexels(t, 101, "clip-bytes")
	defer srv.Close()

	f, st := testFetcher(t, srv.URL)
	theme, err := config.Theme("nature")
	if err != nil {
		t.Fatal(err)
	}

	reports := f.Fetch(context.Background(), theme, 1)
	if len(reports) == 0 {
		t.Fatal("expected at least one report")
	}
	if reports[0].Added != 1 {
		t.Fatalf("pexels added = %d, want 1", reports[0].Added)
	}
	if st.Count(types.KindBackground, "nature") != 1 {
		t.Errorf("store should hold the downloaded clip")
	}
}

func TestFetchIdempotentDedup(t *testing.T) {
	srv := fakePexels(t, 202, "clip-bytes")
	defer srv.Close()

	f, st := testFetcher(t, srv.URL)
	theme, _ := config.Theme("nature")

	first := f.Fetch(context.Background(), theme, 1)
	if first[0].Added != 1 {
		t.Fatalf("first fetch added = %d, want 1", first[0].Added)
	}

	// Second fetch sees only already-stored candidates: zero additions,
	// no error
	second := f.Fetch(context.Background(), theme, 1)
	if second[0].Added != 0 {
		t.Errorf("second fetch added = %d, want 0", second[0].Added)
	}
	if second[0].Skipped == 0 {
		t.Errorf("second fetch should report the duplicate as skipped")
	}
	if st.Count(types.KindBackground, "nature") != 1 {
		t.Errorf("store should still hold exactly one clip")
	}
}

func TestFetchProviderErrorIsPartial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f, _ := testFetcher(t, srv.URL)
	theme, _ := config.Theme("ocean")

	reports := f.Fetch(context.Background(), theme, 2)
	if reports[0].Failed == 0 {
		t.Errorf("rate-limited provider should report failures")
	}
	if reports[0].Added != 0 {
		t.Errorf("nothing should be added on provider error")
	}
}

func TestFetchSkipsShortClips(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"videos":[{"id":5,"duration":3,"video_files":[
			{"quality":"hd","width":1080,"height":1920,"link":"http://unused"}
		]}]}`)
	}))
	defer srv.Close()

	f, st := testFetcher(t, srv.URL)
	theme, _ := config.Theme("forest")

	f.Fetch(context.Background(), theme, 1)
	if st.Count(types.KindBackground, "forest") != 0 {
		t.Errorf("clips under the minimum duration must be rejected")
	}
}
