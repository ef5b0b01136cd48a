package clients

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetURL_AbsoluteAndRelative(t *testing.T) {
	tmpDir := t.TempDir()

	c, err := NewLocalStorage(tmpDir, "/files", "http://example.com:5000")
	if err != nil {
		t.Fatalf("failed create storage: %v", err)
	}

	got := c.GetURL("loan_book.xlsx")
	want := "http://example.com:5000/files/loan_book.xlsx"
	if got != want {
		t.Fatalf("expected %s; got %s", want, got)
	}

	// without base url
	c2, _ := NewLocalStorage(tmpDir, "/files", "")
	if got2 := c2.GetURL("loan_book.xlsx"); got2 != "/files/loan_book.xlsx" {
		t.Fatalf("expected /files/loan_book.xlsx; got %s", got2)
	}
}

func TestSaveAndServeFileHandler(t *testing.T) {
	tmpDir := t.TempDir()
	c, err := NewLocalStorage(tmpDir, "/files", "")
	if err != nil {
		t.Fatalf("storage init: %v", err)
	}

	content := []byte("workbook bytes")
	saved, err := c.Save(context.Background(), "loan book 2026.xlsx", content)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// handler as wired in main: serve the file from BaseDir, restoring the
	// original filename in Content-Disposition
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file := strings.TrimPrefix(r.URL.Path, "/files/")
		path := filepath.Join(c.BaseDir, file)
		if _, err := os.Stat(path); err != nil {
			http.NotFound(w, r)
			return
		}
		if idx := strings.IndexByte(file, '_'); idx >= 0 {
			file = file[idx+1:]
		}
		w.Header().Set("Content-Disposition", "attachment; filename=\""+file+"\"")
		http.ServeFile(w, r, path)
	})

	ts := httptest.NewServer(h)
	defer ts.Close()

	resp, err := http.Get(ts.URL + c.GetURL(saved))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("bad status: %d", resp.StatusCode)
	}

	cd := resp.Header.Get("Content-Disposition")
	if !strings.Contains(cd, "loan book 2026.xlsx") {
		t.Fatalf("expected Content-Disposition with original filename, got %s", cd)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != string(content) {
		t.Fatalf("content mismatch: %s", string(body))
	}
}

func TestCleanupOlderThan(t *testing.T) {
	tmpDir := t.TempDir()
	c, err := NewLocalStorage(tmpDir, "/files", "")
	if err != nil {
		t.Fatalf("storage init: %v", err)
	}

	saved, err := c.Save(context.Background(), "stale.xlsx", []byte("old"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	stalePath := filepath.Join(tmpDir, saved)
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stalePath, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	fresh, err := c.Save(context.Background(), "fresh.xlsx", []byte("new"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := c.CleanupOlderThan(30 * time.Minute); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	if _, err := os.Stat(stalePath); !os.IsNotExist(err) {
		t.Error("stale file should have been removed")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, fresh)); err != nil {
		t.Errorf("fresh file should survive cleanup: %v", err)
	}
}
