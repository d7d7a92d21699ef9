package graph

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"ghibligraph/internal/catalog"
	"ghibligraph/internal/platform/ghibli"
	"ghibligraph/internal/testutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandler(t *testing.T, routes map[string]testutil.Response) (*HTTPHandler, *testutil.Upstream) {
	t.Helper()
	upstream := testutil.NewUpstream(t, routes)

	svc := catalog.NewService(ghibli.NewClient(upstream.URL, ghibli.WithHTTPClient(upstream.Client())))
	schema, err := NewSchema(NewResolver(svc, nil, NewMetrics(prometheus.NewRegistry())))
	require.NoError(t, err)

	return NewHTTPHandler(schema, nil), upstream
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeFilm(t *testing.T, raw json.RawMessage) catalog.Film {
	t.Helper()
	var f catalog.Film
	require.NoError(t, json.Unmarshal(raw, &f))
	return f
}

func TestHTTPHandler_Film(t *testing.T) {
	porcoPath := ghibli.FilmPath(testutil.PorcoRossoID)

	t.Run("known id returns upstream film unchanged", func(t *testing.T) {
		h, upstream := setupHandler(t, map[string]testutil.Response{
			porcoPath: testutil.JSON(testutil.PorcoRosso()),
		})

		resp := testutil.RecordGraphQLResponse(t, serve(h, testutil.NewGraphQLRequest("/graphql", filmQuery,
			map[string]any{"id": testutil.PorcoRossoID})))

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		require.Empty(t, resp.Errors)
		assert.Equal(t, testutil.PorcoRosso(), decodeFilm(t, resp.Data["film"]))
		assert.Equal(t, 1, upstream.Hits(porcoPath))
	})

	t.Run("unknown id is NOT_FOUND", func(t *testing.T) {
		h, _ := setupHandler(t, nil)

		resp := testutil.RecordGraphQLResponse(t, serve(h, testutil.NewGraphQLRequest("/graphql", filmQuery,
			map[string]any{"id": "invalid-id"})))

		assert.Equal(t, http.StatusOK, resp.Code)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, CodeNotFound, resp.Errors[0].Code())
		assert.Equal(t, MessageFilmNotFound, resp.Errors[0].Message)
		assert.Equal(t, []any{"film"}, resp.Errors[0].Path)
		assert.Nil(t, resp.Data)
	})

	t.Run("empty upstream body is NOT_FOUND", func(t *testing.T) {
		h, _ := setupHandler(t, map[string]testutil.Response{
			porcoPath: {Status: http.StatusOK, Body: ""},
		})

		resp := testutil.RecordGraphQLResponse(t, serve(h, testutil.NewGraphQLRequest("/graphql", filmQuery,
			map[string]any{"id": testutil.PorcoRossoID})))

		require.Len(t, resp.Errors, 1)
		assert.Equal(t, CodeNotFound, resp.Errors[0].Code())
		assert.Equal(t, "Film not found", resp.Errors[0].Message)
	})

	t.Run("upstream 500 is API_ERROR", func(t *testing.T) {
		h, upstream := setupHandler(t, map[string]testutil.Response{
			porcoPath: {Status: http.StatusInternalServerError, Body: `{"error":"boom"}`},
		})

		resp := testutil.RecordGraphQLResponse(t, serve(h, testutil.NewGraphQLRequest("/graphql", filmQuery,
			map[string]any{"id": testutil.PorcoRossoID})))

		require.Len(t, resp.Errors, 1)
		assert.Equal(t, CodeAPIError, resp.Errors[0].Code())
		assert.Equal(t, "Failed to connect to Studio Ghibli API", resp.Errors[0].Message)
		assert.Equal(t, 1, upstream.Hits(porcoPath))
	})

	t.Run("malformed upstream body is SERVER_ERROR", func(t *testing.T) {
		h, _ := setupHandler(t, map[string]testutil.Response{
			porcoPath: {Status: http.StatusOK, Body: `{"id": 42`},
		})

		resp := testutil.RecordGraphQLResponse(t, serve(h, testutil.NewGraphQLRequest("/graphql", filmQuery,
			map[string]any{"id": testutil.PorcoRossoID})))

		require.Len(t, resp.Errors, 1)
		assert.Equal(t, CodeServerError, resp.Errors[0].Code())
		assert.Equal(t, "Server error", resp.Errors[0].Message)
	})

	t.Run("absent upstream attributes are null", func(t *testing.T) {
		h, _ := setupHandler(t, map[string]testutil.Response{
			ghibli.FilmPath("sparse"): {Status: http.StatusOK, Body: `{"id":"sparse","title":"Sparse"}`},
		})

		resp := testutil.RecordGraphQLResponse(t, serve(h, testutil.NewGraphQLRequest("/graphql",
			`{ film(id: "sparse") { id title rt_score image } }`, nil)))

		require.Empty(t, resp.Errors)
		assert.JSONEq(t, `{"id":"sparse","title":"Sparse","rt_score":null,"image":null}`, string(resp.Data["film"]))
	})
}

func TestHTTPHandler_PanicKeepsErrorEnvelope(t *testing.T) {
	schema, err := NewSchema(NewResolver(panickingCatalog{}, nil, nil))
	require.NoError(t, err)
	h := NewHTTPHandler(schema, nil)

	resp := testutil.RecordGraphQLResponse(t, serve(h, testutil.NewGraphQLRequest("/graphql", `{ film(id: "a") { id } }`, nil)))

	assert.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, CodeServerError, resp.Errors[0].Code())
	assert.Equal(t, "Server error", resp.Errors[0].Message)
	assert.Nil(t, resp.Data)
}

func TestHTTPHandler_Films(t *testing.T) {
	t.Run("lists every film", func(t *testing.T) {
		want := []catalog.Film{testutil.PorcoRosso(), testutil.Kiki()}
		h, _ := setupHandler(t, map[string]testutil.Response{
			ghibli.FilmsPath: testutil.JSON(want),
		})

		resp := testutil.RecordGraphQLResponse(t, serve(h, testutil.NewGraphQLRequest("/graphql",
			`{ films { id title description director release_date running_time rt_score movie_banner image } }`, nil)))

		require.Empty(t, resp.Errors)
		var got []catalog.Film
		require.NoError(t, json.Unmarshal(resp.Data["films"], &got))
		assert.Equal(t, want, got)
	})

	t.Run("zero-length list", func(t *testing.T) {
		h, _ := setupHandler(t, map[string]testutil.Response{
			ghibli.FilmsPath: {Status: http.StatusOK, Body: `[]`},
		})

		resp := testutil.RecordGraphQLResponse(t, serve(h, testutil.NewGraphQLRequest("/graphql", `{ films { id } }`, nil)))

		require.Empty(t, resp.Errors)
		assert.JSONEq(t, `[]`, string(resp.Data["films"]))
	})

	t.Run("upstream 503 is API_ERROR", func(t *testing.T) {
		h, _ := setupHandler(t, map[string]testutil.Response{
			ghibli.FilmsPath: {Status: http.StatusServiceUnavailable},
		})

		resp := testutil.RecordGraphQLResponse(t, serve(h, testutil.NewGraphQLRequest("/graphql", `{ films { id } }`, nil)))

		require.Len(t, resp.Errors, 1)
		assert.Equal(t, CodeAPIError, resp.Errors[0].Code())
	})
}

func TestHTTPHandler_Transport(t *testing.T) {
	h, _ := setupHandler(t, map[string]testutil.Response{
		ghibli.FilmPath(testutil.KikiID): testutil.JSON(testutil.Kiki()),
	})

	t.Run("GET with variables", func(t *testing.T) {
		q := url.Values{}
		q.Set("query", `query Film($id: String!) { film(id: $id) { title } }`)
		q.Set("variables", `{"id":"`+testutil.KikiID+`"}`)
		r := httptest.NewRequest(http.MethodGet, "/graphql?"+q.Encode(), nil)

		resp := testutil.RecordGraphQLResponse(t, serve(h, r))
		require.Empty(t, resp.Errors)
		assert.JSONEq(t, `{"title":"Kiki's Delivery Service"}`, string(resp.Data["film"]))
	})

	t.Run("POST application/graphql", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/graphql",
			strings.NewReader(`{ film(id: "`+testutil.KikiID+`") { director } }`))
		r.Header.Set("Content-Type", "application/graphql")

		resp := testutil.RecordGraphQLResponse(t, serve(h, r))
		require.Empty(t, resp.Errors)
		assert.JSONEq(t, `{"director":"Hayao Miyazaki"}`, string(resp.Data["film"]))
	})

	t.Run("operation name selects operation", func(t *testing.T) {
		body := `{"query":"query A { films { id } } query B { film(id: \"` + testutil.KikiID + `\") { id } }","operationName":"B"}`
		r := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")

		resp := testutil.RecordGraphQLResponse(t, serve(h, r))
		require.Empty(t, resp.Errors)
		assert.Contains(t, resp.Data, "film")
		assert.NotContains(t, resp.Data, "films")
	})

	t.Run("invalid document is reported in errors", func(t *testing.T) {
		resp := testutil.RecordGraphQLResponse(t, serve(h, testutil.NewGraphQLRequest("/graphql", `{ film(id: "x") { budget } }`, nil)))

		assert.Equal(t, http.StatusOK, resp.Code)
		require.NotEmpty(t, resp.Errors)
		assert.Contains(t, resp.Errors[0].Message, "budget")
	})

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		target      string
		wantStatus  int
	}{
		{"method not allowed", http.MethodPut, "application/json", `{"query":"{ films { id } }"}`, "/graphql", http.StatusMethodNotAllowed},
		{"malformed JSON body", http.MethodPost, "application/json", `{"query":`, "/graphql", http.StatusBadRequest},
		{"missing query", http.MethodPost, "application/json", `{}`, "/graphql", http.StatusBadRequest},
		{"unsupported content type", http.MethodPost, "text/plain", `{ films { id } }`, "/graphql", http.StatusBadRequest},
		{"GET without query", http.MethodGet, "", "", "/graphql", http.StatusBadRequest},
		{"GET with bad variables", http.MethodGet, "", "", "/graphql?query=%7Bfilms%7Bid%7D%7D&variables=nope", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}

			resp := testutil.RecordGraphQLResponse(t, serve(h, r))
			assert.Equal(t, tt.wantStatus, resp.Code)
			require.Len(t, resp.Errors, 1)
			assert.NotEmpty(t, resp.Errors[0].Message)
			if tt.wantStatus == http.StatusMethodNotAllowed {
				assert.Equal(t, "GET, POST", resp.Header.Get("Allow"))
			}
		})
	}
}
