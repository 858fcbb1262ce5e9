package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(time.Second)
	data, err := f.Fetch(context.Background(), srv.URL+"/ok")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("expected payload, got %q", data)
	}

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	if !errors.Is(err, ErrStatus) {
		t.Errorf("expected ErrStatus for 404, got %v", err)
	}
}

func TestAutoFetcherRoutesFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatar.bin")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0644); err != nil {
		t.Fatal(err)
	}

	f := NewAutoFetcher(time.Second)
	for _, url := range []string{path, "file://" + path} {
		data, err := f.Fetch(context.Background(), url)
		if err != nil {
			t.Fatalf("fetch %s: %v", url, err)
		}
		if len(data) != 3 {
			t.Errorf("expected 3 bytes from %s, got %d", url, len(data))
		}
	}

	if _, err := f.Fetch(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileFetcherHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (FileFetcher{}).Fetch(ctx, "/dev/null"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
