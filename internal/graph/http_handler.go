package graph

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"ghibligraph/internal/httpx"

	"github.com/graphql-go/graphql"
)

// Request is a GraphQL operation as sent over HTTP.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type HTTPHandler struct {
	schema graphql.Schema
	logger *slog.Logger
}

func NewHTTPHandler(schema graphql.Schema, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{schema: schema, logger: logger}
}

// ServeHTTP handles GET and POST /graphql
// @Summary Execute a GraphQL operation
// @Description Resolves film and films against the upstream film catalog
// @Tags graphql
// @Accept json
// @Produce json
// @Param query query string false "GraphQL document (GET only)"
// @Success 200 {object} graphql.Result
// @Failure 400 {object} graphql.Result
// @Router /graphql [post]
func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var (
		req Request
		err error
	)

	switch r.Method {
	case http.MethodGet:
		req, err = requestFromQuery(r)
	case http.MethodPost:
		req, err = requestFromBody(r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeRequestError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err != nil {
		h.logger.Debug("rejected graphql request",
			"request_id", httpx.RequestIDFrom(r),
			"error", err)
		writeRequestError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	writeJSON(w, http.StatusOK, result)
}

func requestFromQuery(r *http.Request) (Request, error) {
	q := r.URL.Query()
	req := Request{
		Query:         q.Get("query"),
		OperationName: q.Get("operationName"),
	}
	if vars := q.Get("variables"); vars != "" {
		if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
			return Request{}, errors.New("variables must be a JSON object")
		}
	}
	if req.Query == "" {
		return Request{}, errors.New("missing query")
	}
	return req, nil
}

func requestFromBody(r *http.Request) (Request, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var req Request
	switch mediaType {
	case "application/graphql":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return Request{}, errors.New("unable to read request body")
		}
		req.Query = string(body)
	case "application/json", "":
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return Request{}, errors.New("request body must be a JSON GraphQL request")
		}
	default:
		return Request{}, errors.New("unsupported content type " + mediaType)
	}

	if req.Query == "" {
		return Request{}, errors.New("missing query")
	}
	return req, nil
}

func writeRequestError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"errors": []map[string]interface{}{
			{"message": message},
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
