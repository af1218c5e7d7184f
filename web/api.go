package web

import (
	"dql/config"
	"dql/parser"
	"dql/query"
	"dql/render"
	"dql/util"
	"encoding/json"
	"github.com/gorilla/mux"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"io"
	"net/http"
)

const maxLengthOfPrintedQuery = 10000

type ErrorDetail struct {
	Message  string           `json:"message"`
	Position *parser.Position `json:"position,omitempty"`
}

type ParseResponse struct {
	Statements []query.Node  `json:"statements"`
	Errors     []ErrorDetail `json:"errors,omitempty"`
}

type TokensResponse struct {
	Tokens []render.TokenNode `json:"tokens"`
	Errors []ErrorDetail      `json:"errors,omitempty"`
}

type ErrorResponse struct {
	Errors []ErrorDetail `json:"errors"`
}

func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{
		Errors: []ErrorDetail{{Message: message}},
	}
}

func StartServer(cfg *config.Config) {
	r := initRouter(cfg)
	sigolo.Infof("Start server on port %s", cfg.Server.Port)
	err := http.ListenAndServe(":"+cfg.Server.Port, r)
	sigolo.FatalCheck(err)
}

func initRouter(cfg *config.Config) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(writer http.ResponseWriter, request *http.Request) {
		writeJson(writer, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/parse", func(writer http.ResponseWriter, request *http.Request) {
		queryString, ok := readQuery(writer, request, cfg.Server.MaxQueryLength)
		if !ok {
			return
		}

		statements, err := parser.ParseStringWithOptions(queryString, cfg.ParserOptions())
		sigolo.Debugf("Parsed %d statements", len(statements))

		response := ParseResponse{
			Statements: query.EncodeStatements(statements),
		}

		status := http.StatusOK
		if err != nil {
			sigolo.Errorf("Error parsing query: %+v", err)
			response.Errors = errorDetails(err)
			status = http.StatusBadRequest
		}

		writeJson(writer, status, response)
	}).Methods(http.MethodPost)
	r.HandleFunc("/tokens", func(writer http.ResponseWriter, request *http.Request) {
		queryString, ok := readQuery(writer, request, cfg.Server.MaxQueryLength)
		if !ok {
			return
		}

		tokens, err := parser.TokenizeWithOptions(queryString, cfg.ParserOptions())
		if err != nil {
			sigolo.Errorf("Error tokenizing query: %+v", err)
			writeJson(writer, http.StatusBadRequest, TokensResponse{
				Tokens: []render.TokenNode{},
				Errors: errorDetails(err),
			})
			return
		}

		writeJson(writer, http.StatusOK, TokensResponse{
			Tokens: render.EncodeTokens(tokens),
		})
	}).Methods(http.MethodPost)

	return r
}

// readQuery reads the whole request body. When this fails, the error response has already been written and false is
// returned.
func readQuery(writer http.ResponseWriter, request *http.Request, maxQueryLength int64) (string, bool) {
	writer.Header().Set("Access-Control-Allow-Origin", "*")

	queryBytes, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, maxQueryLength))
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			sigolo.Errorf("Request to '%s' exceeds the maximum query length of %d bytes", request.URL.Path, maxQueryLength)
			writeJson(writer, http.StatusRequestEntityTooLarge, NewErrorResponse("Query too long."))
			return "", false
		}

		sigolo.Errorf("Error reading HTTP body of request to '%s': %+v", request.URL.Path, err)
		writeJson(writer, http.StatusInternalServerError, NewErrorResponse("Error reading HTTP body."))
		return "", false
	}

	queryString := string(queryBytes)
	sigolo.Infof("Query:\n%s", util.Truncate(queryString, maxLengthOfPrintedQuery))

	return queryString, true
}

func errorDetails(err error) []ErrorDetail {
	var errs []error
	var errorList parser.ErrorList
	if errors.As(err, &errorList) {
		errs = errorList
	} else {
		errs = []error{err}
	}

	var details []ErrorDetail
	for _, e := range errs {
		detail := ErrorDetail{Message: e.Error()}
		if position, ok := render.Position(e); ok {
			detail.Position = &position
		}
		details = append(details, detail)
	}
	return details
}

func writeJson(writer http.ResponseWriter, status int, response any) {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		sigolo.Errorf("Error marshalling response object: %+v", err)
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	_, err = writer.Write(responseBytes)
	if err != nil {
		sigolo.Errorf("Error writing response: %+v", err)
	}
}
