package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/riffle/internal/events"
	"github.com/pders01/riffle/internal/feedcache"
	"github.com/pders01/riffle/internal/storage"
)

func newTestSyncer(t *testing.T) (*Syncer, *storage.Store, *[]events.CacheEvent) {
	t.Helper()

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "riffle.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	bus := events.NewBus()
	var seen []events.CacheEvent
	bus.Subscribe(func(ev events.CacheEvent) { seen = append(seen, ev) })

	syncer := NewSyncer(store, bus)
	syncer.SetPermissiveValidation(true)
	return syncer, store, &seen
}

func rssBody(title string, items ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>`)
	b.WriteString(title)
	b.WriteString(`</title>`)
	for _, item := range items {
		b.WriteString(item)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func rssItem(guid, title string) string {
	return fmt.Sprintf(
		`<item><title>%s</title><link>http://example.com/%s</link><guid>%s</guid></item>`,
		title, guid, guid)
}

func serveRSS(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSyncer_AddSource(t *testing.T) {
	syncer, store, seen := newTestSyncer(t)
	server := serveRSS(t, rssBody("Morning Post", rssItem("a-1", "One"), rssItem("a-2", "Two")))

	source, err := syncer.AddSource(context.Background(), server.URL)
	require.NoError(t, err)
	require.NotZero(t, source.ID)
	assert.Equal(t, "Morning Post", source.Title)

	count, err := store.CountArticles(source.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.Len(t, *seen, 1)
	assert.Equal(t, events.SourceUpdated, (*seen)[0].Kind)
	assert.Equal(t, source.ID, (*seen)[0].SourceID)

	_, err = syncer.AddSource(context.Background(), server.URL)
	require.Error(t, err, "same URL twice must be rejected")
	assert.Contains(t, err.Error(), "already added")
}

func TestSyncer_AddSourceRejectsBadURL(t *testing.T) {
	syncer, store, _ := newTestSyncer(t)

	_, err := syncer.AddSource(context.Background(), "http://bad<host>/feed")
	require.Error(t, err)

	sources, err := store.Sources()
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestSyncer_AddSourceKeepsRowWhenFetchFails(t *testing.T) {
	syncer, store, _ := newTestSyncer(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	source, err := syncer.AddSource(context.Background(), server.URL)
	require.NoError(t, err, "an unreachable feed still gets a row for a later retry")
	require.NotZero(t, source.ID)

	count, err := store.CountArticles(source.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSyncer_RemoveSource(t *testing.T) {
	syncer, store, seen := newTestSyncer(t)
	server := serveRSS(t, rssBody("Feed", rssItem("a-1", "One")))

	source, err := syncer.AddSource(context.Background(), server.URL)
	require.NoError(t, err)

	require.NoError(t, syncer.RemoveSource(source.ID))

	sources, err := store.Sources()
	require.NoError(t, err)
	assert.Empty(t, sources)

	last := (*seen)[len(*seen)-1]
	assert.Equal(t, events.SourceDeleted, last.Kind)
	assert.Equal(t, source.ID, last.SourceID)
}

func TestSyncer_RenameSource(t *testing.T) {
	syncer, store, seen := newTestSyncer(t)
	server := serveRSS(t, rssBody("Feed", rssItem("a-1", "One")))

	source, err := syncer.AddSource(context.Background(), server.URL)
	require.NoError(t, err)

	require.NoError(t, syncer.RenameSource(source.ID, "My Reader"))

	renamed, err := store.Source(source.ID)
	require.NoError(t, err)
	assert.Equal(t, "My Reader", renamed.Title)

	last := (*seen)[len(*seen)-1]
	assert.Equal(t, events.SourceUpdated, last.Kind)
}

func TestSyncer_SyncOneHonorsNotModified(t *testing.T) {
	syncer, store, _ := newTestSyncer(t)

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		io.WriteString(w, rssBody("Feed", rssItem("a-1", "One")))
	}))
	t.Cleanup(server.Close)

	source, err := syncer.AddSource(context.Background(), server.URL)
	require.NoError(t, err)

	articles, err := syncer.SyncOne(context.Background(), source.ID)
	require.NoError(t, err)
	assert.Nil(t, articles, "an unchanged feed yields nothing to upsert")
	assert.Equal(t, 2, requests)

	count, err := store.CountArticles(source.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSyncer_SyncAll(t *testing.T) {
	syncer, store, _ := newTestSyncer(t)

	good1 := serveRSS(t, rssBody("First", rssItem("f-1", "One"), rssItem("f-2", "Two")))
	good2 := serveRSS(t, rssBody("Second", rssItem("s-1", "Eins")))
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	for _, url := range []string{good1.URL, good2.URL, dead.URL} {
		require.NoError(t, store.SaveSource(&storage.Source{URL: url}))
	}

	var progress, errored, delivered int
	err := syncer.SyncAll(context.Background(), feedcache.SyncAllOptions{
		MaxConcurrent: 2,
		OnProgress:    func(done, total int, name string) { progress++; assert.Equal(t, 3, total) },
		OnArticles:    func(articles []*storage.Article, name string) { delivered += len(articles) },
		OnError:       func(err error, name string) { errored++ },
	})
	require.NoError(t, err, "per-source failures must not fail the pass")

	assert.Equal(t, 3, progress)
	assert.Equal(t, 1, errored)
	assert.Equal(t, 3, delivered)

	sources, err := store.Sources()
	require.NoError(t, err)
	total := 0
	for _, source := range sources {
		count, err := store.CountArticles(source.ID)
		require.NoError(t, err)
		total += count
	}
	assert.Equal(t, 3, total)

	lastSync, err := store.LastSync()
	require.NoError(t, err)
	assert.False(t, lastSync.IsZero())
}

func TestSyncer_SyncAllWithoutSources(t *testing.T) {
	syncer, _, _ := newTestSyncer(t)

	called := false
	err := syncer.SyncAll(context.Background(), feedcache.SyncAllOptions{
		OnProgress: func(int, int, string) { called = true },
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestSyncer_ExportImportRoundtrip(t *testing.T) {
	syncer, store, _ := newTestSyncer(t)
	require.NoError(t, store.SaveSource(&storage.Source{URL: "https://example.com/a.xml", Title: "Alpha"}))
	require.NoError(t, store.SaveSource(&storage.Source{URL: "https://example.com/b.xml"}))

	var buf bytes.Buffer
	require.NoError(t, syncer.ExportSources(&buf))
	assert.Contains(t, buf.String(), "https://example.com/a.xml")
	assert.Contains(t, buf.String(), "Alpha")

	fresh, freshStore, _ := newTestSyncer(t)
	added, err := fresh.ImportSources(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	// A second import finds nothing new.
	added, err = fresh.ImportSources(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Zero(t, added)

	sources, err := freshStore.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "Alpha", sources[0].Title)
}
