package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahara-sahaya/relief-cli/internal/dataset"
	"github.com/sahara-sahaya/relief-cli/internal/model"
)

func newTestServer(t *testing.T, opts ...Option) (*Server, *dataset.Store) {
	t.Helper()
	store := dataset.NewStore(filepath.Join(t.TempDir(), "relief_centers.csv"))
	return NewServer(store, opts...), store
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const validCSV = "Hospital_Name,Category,Lat,Long,Phone,supported_disasters\n" +
	"City Hospital,Hospital,12.9,77.6,111,Flood|Cyclone\n" +
	"Camp B,Camp,13.0,77.5,222,\n"

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadConfirmFlow(t *testing.T) {
	srv, store := newTestServer(t)

	body, contentType := multipartUpload(t, "centres.csv", validCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeJSON(t, rec)
	assert.EqualValues(t, 2, resp["rows"])
	assert.NotContains(t, resp, "warning")
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)

	// Nothing persisted before confirmation.
	_, err := store.Load()
	require.Error(t, err)

	confirmBody, _ := json.Marshal(map[string]string{"token": token})
	req = httptest.NewRequest(http.MethodPost, "/api/admin/confirm", bytes.NewReader(confirmBody))
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 2, decodeJSON(t, rec)["rows"])

	records, err := store.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "City Hospital", records[0].Name)
	assert.Equal(t, "General", records[1].SupportedDisasters)
}

func TestUploadZeroRowsWarns(t *testing.T) {
	srv, _ := newTestServer(t)

	body, contentType := multipartUpload(t, "centres.csv", "foo,bar\n1,2\n")
	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON(t, rec)
	assert.EqualValues(t, 0, resp["rows"])
	assert.Contains(t, resp["warning"], "no valid records")
	assert.NotEmpty(t, resp["token"])
}

func TestUploadUnreadableFile(t *testing.T) {
	srv, _ := newTestServer(t)

	body, contentType := multipartUpload(t, "centres.pdf", "%PDF-1.4")
	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeJSON(t, rec)["error"], "could not read file")
}

func TestConfirmUnknownToken(t *testing.T) {
	srv, _ := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"token": "bogus"})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/confirm", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDiscard(t *testing.T) {
	srv, store := newTestServer(t)
	token := store.Stage([]model.Record{{Name: "x"}})

	body, _ := json.Marshal(map[string]string{"token": token})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/discard", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/admin/discard", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCentres(t *testing.T) {
	srv, store := newTestServer(t)
	require.NoError(t, store.Replace([]model.Record{
		{Name: "Near Camp", Type: "Camp", Latitude: "12.91", Longitude: "77.61", Contact: "1", SupportedDisasters: "Flood"},
		{Name: "Far Hospital", Type: "Hospital", Latitude: "13.5", Longitude: "78.0", Inventory: "beds", Contact: "2", SupportedDisasters: "Flood"},
		{Name: "Quake Shelter", Type: "Shelter", Latitude: "12.95", Longitude: "77.65", Contact: "3", SupportedDisasters: "Earthquake"},
	}))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/centres?lat=12.9&lon=77.6&disaster=flood", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeJSON(t, rec)
	assert.EqualValues(t, 2, resp["count"])

	centres := resp["centres"].([]any)
	first := centres[0].(map[string]any)
	assert.Equal(t, "Near Camp", first["name"])
	assert.Greater(t, first["distance_km"].(float64), 0.0)
	assert.GreaterOrEqual(t, first["time_min"].(float64), 1.0)
}

func TestCentres_InventorySort(t *testing.T) {
	srv, store := newTestServer(t)
	require.NoError(t, store.Replace([]model.Record{
		{Name: "Near Camp", Type: "Camp", Latitude: "12.91", Longitude: "77.61", Contact: "1", SupportedDisasters: "Flood"},
		{Name: "Far Hospital", Type: "Hospital", Latitude: "13.5", Longitude: "78.0", Inventory: "beds", Contact: "2", SupportedDisasters: "Flood"},
	}))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/centres?lat=12.9&lon=77.6&disaster=flood&sort=inventory", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	centres := decodeJSON(t, rec)["centres"].([]any)
	first := centres[0].(map[string]any)
	assert.Equal(t, "Far Hospital", first["name"])
}

func TestCentres_BadCoordinates(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/centres?lat=abc&lon=77.6", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/centres?lat=12.9", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCentres_NoDataset(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/centres?lat=12.9&lon=77.6", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminPassRequired(t *testing.T) {
	srv, _ := newTestServer(t, WithAdminPass("secret"))

	body, contentType := multipartUpload(t, "centres.csv", validCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body, contentType = multipartUpload(t, "centres.csv", validCSV)
	req = httptest.NewRequest(http.MethodPost, "/api/admin/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Admin-Pass", "secret")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Victim-facing endpoints stay open.
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadMalformedLineStillSucceeds(t *testing.T) {
	srv, _ := newTestServer(t)

	csv := strings.Join([]string{
		"name,type,lat,lon,contact",
		"Shelter A,Camp,12.9,77.6,111",
		"Shelter, B,Camp,13.0,77.5,222", // unescaped comma: dropped, not fatal
		"Shelter C,Camp,13.1,77.4,333",
	}, "\n")

	body, contentType := multipartUpload(t, "centres.csv", csv)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decodeJSON(t, rec)["rows"])
}
