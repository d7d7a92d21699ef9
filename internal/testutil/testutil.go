package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"ghibligraph/internal/catalog"
)

const (
	PorcoRossoID = "ebbb6b7c-945c-41ee-a792-de0e43191bd8"
	KikiID       = "ea660b10-85c4-4ae3-8a5f-41cea3648e3e"
)

// Str returns a pointer to s.
func Str(s string) *string {
	return &s
}

// PorcoRosso is a fully populated film fixture.
func PorcoRosso() catalog.Film {
	return catalog.Film{
		ID:          Str(PorcoRossoID),
		Title:       Str("Porco Rosso"),
		Description: Str("A tale of a pig pilot in the Adriatic Sea."),
		Director:    Str("Hayao Miyazaki"),
		ReleaseDate: Str("1992"),
		RunningTime: Str("94"),
		RTScore:     Str("95"),
		MovieBanner: Str("https://example.com/banner.jpg"),
		Image:       Str("https://example.com/image.jpg"),
	}
}

// Kiki is a second film fixture.
func Kiki() catalog.Film {
	return catalog.Film{
		ID:          Str(KikiID),
		Title:       Str("Kiki's Delivery Service"),
		Description: Str("A young witch starts her own delivery service."),
		Director:    Str("Hayao Miyazaki"),
		ReleaseDate: Str("1989"),
		RunningTime: Str("103"),
		RTScore:     Str("96"),
		MovieBanner: Str("https://example.com/kiki_banner.jpg"),
		Image:       Str("https://example.com/kiki_image.jpg"),
	}
}

// Response is a canned upstream answer.
type Response struct {
	Status int
	Body   string
}

// JSON builds a 200 response carrying v encoded as JSON.
func JSON(v any) Response {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return Response{Status: http.StatusOK, Body: string(b)}
}

// Upstream is a stub of the film REST API. Unknown paths answer 404.
type Upstream struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]Response
	hits   map[string]int
}

// NewUpstream starts a stub upstream closed at test cleanup.
func NewUpstream(t testing.TB, routes map[string]Response) *Upstream {
	t.Helper()
	u := &Upstream{routes: routes, hits: make(map[string]int)}
	if u.routes == nil {
		u.routes = make(map[string]Response)
	}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Server.Close)
	return u
}

// Set replaces the answer for path.
func (u *Upstream) Set(path string, r Response) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes[path] = r
}

// Hits returns how many requests path received.
func (u *Upstream) Hits(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[path]
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.hits[r.URL.EscapedPath()]++
	resp, ok := u.routes[r.URL.EscapedPath()]
	u.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if resp.Status == 0 {
		resp.Status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, _ = io.WriteString(w, resp.Body)
}

// GraphQLRequest is the POST body of a GraphQL operation.
type GraphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// NewGraphQLRequest creates a POST request carrying query and variables.
func NewGraphQLRequest(path, query string, variables map[string]any) *http.Request {
	body, _ := json.Marshal(GraphQLRequest{Query: query, Variables: variables})
	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// GraphQLError is one entry of a response's errors list.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path"`
	Extensions map[string]any `json:"extensions"`
}

// Code returns extensions.code, or "" when absent.
func (e GraphQLError) Code() string {
	code, _ := e.Extensions["code"].(string)
	return code
}

// GraphQLResponse is a decoded GraphQL response plus the HTTP status.
type GraphQLResponse struct {
	Code   int                        `json:"-"`
	Header http.Header                `json:"-"`
	Data   map[string]json.RawMessage `json:"data"`
	Errors []GraphQLError             `json:"errors"`
}

// RecordGraphQLResponse decodes the recorded response body.
func RecordGraphQLResponse(t testing.TB, w *httptest.ResponseRecorder) GraphQLResponse {
	t.Helper()
	result := w.Result()
	defer result.Body.Close()

	var out GraphQLResponse
	if err := json.NewDecoder(result.Body).Decode(&out); err != nil {
		t.Fatalf("decode graphql response: %v", err)
	}
	out.Code = result.StatusCode
	out.Header = result.Header
	return out
}
