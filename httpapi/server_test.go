package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/etnz/hobby"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *hobby.Store) {
	t.Helper()
	store := hobby.NewStore()
	s, err := New(Config{Store: store, Log: zerolog.Nop(), Currency: "KRW", DevMode: true})
	require.NoError(t, err)
	return s, store
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

// TestLifecycle drives one item from purchase to a reverted sale through the API.
func TestLifecycle(t *testing.T) {
	s, store := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/items", `{"name":"Strike Freedom","grade":"MG","purchasePrice":50000}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	it := decodeBody[map[string]any](t, rec)
	id := int64(it["id"].(float64))
	path := "/api/items/" + jsonID(id)

	rec = do(t, s, http.MethodPost, path+"/list", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "listed", decodeBody[map[string]any](t, rec)["stage"])

	rec = do(t, s, http.MethodPost, path+"/sell", `{"salePrice":70000,"saleMedium":"X"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sold := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "sold", sold["stage"])
	assert.EqualValues(t, 70000, sold["salePrice"])

	rec = do(t, s, http.MethodGet, "/api/fund", "")
	fund := decodeBody[map[string]any](t, rec)
	assert.EqualValues(t, 20000, fund["balance"])
	assert.Len(t, fund["history"], 1)

	rec = do(t, s, http.MethodPost, path+"/revert", "")
	require.Equal(t, http.StatusOK, rec.Code)
	back := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "listed", back["stage"])
	assert.NotContains(t, back, "salePrice")

	assert.True(t, store.Summary().Balance.IsZero())
	require.NoError(t, store.Check())
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestListItems(t *testing.T) {
	s, store := newTestServer(t)
	a, _ := store.Add(hobby.NewItem{Name: "Zaku", Grade: "HG"})
	store.Add(hobby.NewItem{Name: "Sazabi", Grade: "RG"})
	b, _ := store.Add(hobby.NewItem{Name: "Gouf", Grade: "HG"})
	store.MoveToListed(b.ID)

	items := decodeBody[[]hobby.Item](t, do(t, s, http.MethodGet, "/api/items", ""))
	assert.Len(t, items, 2, "held is the default list")

	items = decodeBody[[]hobby.Item](t, do(t, s, http.MethodGet, "/api/items?grade=HG", ""))
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].ID)

	items = decodeBody[[]hobby.Item](t, do(t, s, http.MethodGet, "/api/items?list=listed&q=gou", ""))
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)

	rec := do(t, s, http.MethodGet, "/api/items?list=lost", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusCodes(t *testing.T) {
	s, store := newTestServer(t)
	it, _ := store.Add(hobby.NewItem{Name: "Zaku"})
	path := "/api/items/" + jsonID(it.ID)

	testCases := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"get unknown", http.MethodGet, "/api/items/42", "", http.StatusNotFound},
		{"bad id", http.MethodGet, "/api/items/abc", "", http.StatusBadRequest},
		{"add without name", http.MethodPost, "/api/items", `{"grade":"HG"}`, http.StatusBadRequest},
		{"add bad json", http.MethodPost, "/api/items", `{`, http.StatusBadRequest},
		{"patch blank name", http.MethodPatch, path, `{"name":""}`, http.StatusBadRequest},
		{"patch unknown", http.MethodPatch, "/api/items/42", `{"name":"x"}`, http.StatusNoContent},
		{"delete unknown", http.MethodDelete, "/api/items/42", "", http.StatusNoContent},
		{"hold a held item", http.MethodPost, path + "/hold", "", http.StatusNoContent},
		{"sell a held item", http.MethodPost, path + "/sell", `{"salePrice":1,"saleMedium":"X"}`, http.StatusNoContent},
		{"sell without medium", http.MethodPost, path + "/sell", `{"salePrice":1}`, http.StatusBadRequest},
		{"revert a held item", http.MethodPost, path + "/revert", "", http.StatusNoContent},
		{"adjust without reason", http.MethodPost, "/api/fund/adjust", `{"amount":10}`, http.StatusBadRequest},
		{"adjust without amount", http.MethodPost, "/api/fund/adjust", `{"reason":"x"}`, http.StatusBadRequest},
		{"export without name", http.MethodGet, "/api/export", "", http.StatusBadRequest},
		{"import garbage", http.MethodPost, "/api/import", "garbage", http.StatusUnprocessableEntity},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
	held := store.Held()
	require.Len(t, held, 1, "rejected requests do not change the store")
	assert.Equal(t, "Zaku", held[0].Name)
}

func TestUpdateItem(t *testing.T) {
	s, store := newTestServer(t)
	it, _ := store.Add(hobby.NewItem{Name: "Zaku", DesiredSalePrice: hobby.P(9000)})

	rec := do(t, s, http.MethodPatch, "/api/items/"+jsonID(it.ID), `{"details":"painted","desiredSalePrice":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	loc, _ := store.Find(it.ID)
	assert.Equal(t, "painted", loc.Details)
	assert.False(t, loc.DesiredSalePrice.Valid)
	assert.Equal(t, "Zaku", loc.Name)
}

func TestAdjustAndSummary(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/fund/adjust", `{"amount":"12000.5","reason":"deposit"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sum := decodeBody[map[string]any](t, do(t, s, http.MethodGet, "/api/summary", ""))
	assert.EqualValues(t, 12000.5, sum["balance"])
	assert.EqualValues(t, 12000.5, sum["totalAssets"])

	rec = do(t, s, http.MethodGet, "/api/summary?format=md", "")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, rec.Body.String(), "# Hobby Fund Summary")
}

func TestExportImport(t *testing.T) {
	s, store := newTestServer(t)
	store.Add(hobby.NewItem{Name: "Nu Gundam", PurchasePrice: hobby.P(40000)})
	require.NoError(t, store.Adjust(hobby.P(5000).Decimal, "deposit"))

	rec := do(t, s, http.MethodGet, "/api/export?name=kits", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Regexp(t, `attachment; filename="\d{6}_\d{6}_kits\.xlsx"`, rec.Header().Get("Content-Disposition"))
	book := rec.Body.Bytes()

	other, otherStore := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/import?filename=250723_163000_kits.xlsx", bytes.NewReader(book))
	res := httptest.NewRecorder()
	other.Handler().ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.Equal(t, "kits", decodeBody[map[string]any](t, res)["base"])

	held := otherStore.Held()
	require.Len(t, held, 1)
	assert.Equal(t, "Nu Gundam", held[0].Name)
	assert.True(t, otherStore.Summary().Balance.Equal(hobby.P(5000).Decimal))
}

func TestImportTooLarge(t *testing.T) {
	store := hobby.NewStore()
	store.Add(hobby.NewItem{Name: "Zaku"})
	s, err := New(Config{Store: store, Log: zerolog.Nop(), MaxImportSize: 1024})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader(make([]byte, 4096)))
	res := httptest.NewRecorder()
	s.Handler().ServeHTTP(res, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.Code, res.Body.String())
	assert.Len(t, store.Held(), 1, "a rejected import must keep the store")

	res = do(t, s, http.MethodPost, "/api/import", "not a workbook")
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code, res.Body.String())
}

func TestBackup(t *testing.T) {
	store := hobby.NewStore()
	store.Add(hobby.NewItem{Name: "Zaku"})
	dir := t.TempDir()

	b := NewBackup(store, dir, "")
	b.now = func() time.Time { return time.Date(2025, 7, 23, 16, 30, 0, 0, time.UTC) }
	require.NoError(t, NewScheduler(zerolog.Nop()).RunNow(b))

	f, err := os.Open(dir + "/250723_163000_backup.xlsx")
	require.NoError(t, err)
	defer f.Close()

	restored := hobby.NewStore()
	_, err = restored.Import(f, f.Name())
	require.NoError(t, err)
	assert.Len(t, restored.Held(), 1)
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New(Config{Store: hobby.NewStore(), Log: zerolog.Nop(), BackupSchedule: "every tuesday", BackupDir: t.TempDir()})
	assert.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	require.NoError(t, s.AddJob("@every 1h", NewBackup(hobby.NewStore(), t.TempDir(), "")))
	s.Start()
	s.Stop()
}
