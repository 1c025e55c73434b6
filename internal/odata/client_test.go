package odata

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testHeader struct {
	POID     string `json:"po_id"`
	CompCode string `json:"comp_code"`
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{
		BaseURL:     baseURL,
		SAPClient:   "324",
		Credentials: Credentials{Username: "SVC-USER", Password: "secret"},
		Timeout:     2 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	_, err := NewClient(ClientConfig{BaseURL: "/sap/opu/odata"})
	require.Error(t, err)
}

func TestListUnwrapsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("SVC-USER:secret"))
		require.Equal(t, wantAuth, r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.Equal(t, "/sap/PO_header", r.URL.Path)
		require.Equal(t, "json", r.URL.Query().Get("$format"))
		require.Equal(t, "324", r.URL.Query().Get("sap-client"))
		_, _ = w.Write([]byte(`{"d":{"results":[{"po_id":"45","comp_code":"1000"}]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/sap")
	rows, err := List[testHeader](context.Background(), client, "PO_header", Query{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "45", rows[0].POID)
}

func TestListMissingEnvelopeYieldsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	rows, err := List[testHeader](context.Background(), newTestClient(t, server.URL), "PO_header", Query{})
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestUnauthorizedMapsToErrAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := List[testHeader](context.Background(), newTestClient(t, server.URL), "PO_header", Query{})
	require.ErrorIs(t, err, ErrAuth)
}

func TestForbiddenMapsToErrAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := List[testHeader](context.Background(), newTestClient(t, server.URL), "PO_header", Query{})
	require.ErrorIs(t, err, ErrAuth)
}

func TestServerErrorCarriesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := List[testHeader](context.Background(), newTestClient(t, server.URL), "PO_header", Query{})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusServiceUnavailable, statusErr.Status)
}

func TestInvalidBodyMapsToParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	_, err := List[testHeader](context.Background(), newTestClient(t, server.URL), "PO_header", Query{})
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestTimeoutMapsToRequestError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{
		BaseURL:     server.URL,
		Credentials: Credentials{Username: "u", Password: "p"},
		Timeout:     30 * time.Millisecond,
	})
	require.NoError(t, err)

	_, err = List[testHeader](context.Background(), client, "PO_header", Query{})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	require.True(t, reqErr.Timeout())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEntityUnwrapsD(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/PO_header('45')", r.URL.Path)
		_, _ = w.Write([]byte(`{"d":{"po_id":"45","comp_code":"1000"}}`))
	}))
	defer server.Close()

	entity, err := Entity[testHeader](context.Background(), newTestClient(t, server.URL), EntityKey("PO_header", "45"), Query{})
	require.NoError(t, err)
	require.Equal(t, "1000", entity.CompCode)
}

func TestCountParsesInlineCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "allpages", r.URL.Query().Get("$inlinecount"))
		require.Equal(t, "0", r.URL.Query().Get("$top"))
		_, _ = w.Write([]byte(`{"d":{"results":[],"__count":"123"}}`))
	}))
	defer server.Close()

	total, err := Count(context.Background(), newTestClient(t, server.URL), "PO_header", Query{})
	require.NoError(t, err)
	require.Equal(t, 123, total)
}

func TestCountMissingCountFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"d":{"results":[]}}`))
	}))
	defer server.Close()

	_, err := Count(context.Background(), newTestClient(t, server.URL), "PO_header", Query{})
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestProbeClassifiesCredentials(t *testing.T) {
	goodAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("DEV-203:topsecret"))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "1", r.URL.Query().Get("$top"))
		if r.Header.Get("Authorization") != goodAuth {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"d":{"results":[]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	ok, err := client.Probe(context.Background(), "PO_header", Credentials{Username: "DEV-203", Password: "topsecret"})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = client.Probe(context.Background(), "PO_header", Credentials{Username: "DEV-203", Password: "wrong"})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProbeSurfacesServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ok, err := newTestClient(t, server.URL).Probe(context.Background(), "PO_header", Credentials{Username: "u", Password: "p"})
	require.False(t, ok)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
}
