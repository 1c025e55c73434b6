package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/po-mobile/po-gateway/internal/odata"
)

const poResource = "ZSB_PO_HEADER_203_2/PO_header"

func newBackend(t *testing.T, status int, goodUser, goodPass string) *httptest.Server {
	t.Helper()
	goodAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte(goodUser+":"+goodPass))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/"+poResource, r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("$top"))
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		if r.Header.Get("Authorization") != goodAuth {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"d":{"results":[]}}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func newProbeService(t *testing.T, baseURL string) *Service {
	t.Helper()
	client, err := odata.NewClient(odata.ClientConfig{
		BaseURL:     baseURL,
		SAPClient:   "324",
		Credentials: odata.Credentials{Username: "SVC-USER", Password: "secret"},
		Timeout:     2 * time.Second,
	})
	require.NoError(t, err)
	return NewService(client, poResource, nil)
}

func TestProbeAcceptsValidCredentials(t *testing.T) {
	server := newBackend(t, 0, "DEV-203", "topsecret")
	svc := newProbeService(t, server.URL)

	ok, err := svc.Probe(context.Background(), "DEV-203", "topsecret")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestProbeRejectsBadCredentials(t *testing.T) {
	server := newBackend(t, 0, "DEV-203", "topsecret")
	svc := newProbeService(t, server.URL)

	ok, err := svc.Probe(context.Background(), "baduser", "badpass")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProbeSurfacesBackendFailure(t *testing.T) {
	server := newBackend(t, http.StatusInternalServerError, "", "")
	svc := newProbeService(t, server.URL)

	ok, err := svc.Probe(context.Background(), "DEV-203", "topsecret")
	require.False(t, ok)
	require.Error(t, err)
}

func newLoginRouter(t *testing.T, svc *Service) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/auth", NewHandler(nil, svc).MountRoutes)
	return r
}

func postLogin(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoginSuccess(t *testing.T) {
	server := newBackend(t, 0, "DEV-203", "topsecret")
	router := newLoginRouter(t, newProbeService(t, server.URL))

	rec := postLogin(t, router, `{"username":"DEV-203","password":"topsecret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
}

func TestLoginWrongPassword(t *testing.T) {
	server := newBackend(t, 0, "DEV-203", "topsecret")
	router := newLoginRouter(t, newProbeService(t, server.URL))

	rec := postLogin(t, router, `{"username":"baduser","password":"badpass"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
}

func TestLoginMissingFields(t *testing.T) {
	server := newBackend(t, 0, "DEV-203", "topsecret")
	router := newLoginRouter(t, newProbeService(t, server.URL))

	rec := postLogin(t, router, `{"username":"DEV-203"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginInvalidBody(t *testing.T) {
	server := newBackend(t, 0, "DEV-203", "topsecret")
	router := newLoginRouter(t, newProbeService(t, server.URL))

	rec := postLogin(t, router, `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginBackendDownIsGatewayError(t *testing.T) {
	server := newBackend(t, http.StatusInternalServerError, "", "")
	router := newLoginRouter(t, newProbeService(t, server.URL))

	rec := postLogin(t, router, `{"username":"DEV-203","password":"topsecret"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
}
