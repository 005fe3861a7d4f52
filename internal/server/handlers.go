package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	gosolve "github.com/njchilds90/gosolve"
	"github.com/njchilds90/gosolve/internal/cache"
)

// EquationRequest is the body of every /v1 endpoint.
type EquationRequest struct {
	Equation string `json:"equation" validate:"required,max=4096"`
	Unknown  string `json:"unknown,omitempty" validate:"omitempty,len=1,alpha"`
	Language string `json:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
}

// CheckRequest adds the candidate answer to check.
type CheckRequest struct {
	EquationRequest
	Value string `json:"value" validate:"required,max=256"`
}

type NormalizeResponse struct {
	Equation *gosolve.Equation `json:"equation"`
	Markup   string            `json:"markup"`
}

type ClassifyResponse struct {
	Equation       string                 `json:"equation"`
	Classification gosolve.Classification `json:"classification"`
	ModelName      string                 `json:"model_name"`
}

type SolveResponse struct {
	Equation       string                 `json:"equation"`
	Classification gosolve.Classification `json:"classification"`
	Steps          []gosolve.Step         `json:"steps"`
	Solution       gosolve.Solution       `json:"solution"`
	Answer         string                 `json:"answer"`
	AnswerMarkup   string                 `json:"answer_markup"`
	Error          string                 `json:"error,omitempty"`
}

type CheckResponse struct {
	Correct bool   `json:"correct"`
	Value   string `json:"value"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// -- Handlers --

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) schema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, gosolve.ToolSpec())
}

// tool handles a raw tool call, as registered by agent frameworks.
func (s *Server) tool(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req gosolve.ToolRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	// Ensure there's no trailing junk.
	if dec.More() {
		writeError(w, r, http.StatusBadRequest, "invalid JSON: trailing data")
		return
	}

	writeJSON(w, http.StatusOK, gosolve.HandleToolCall(req))
}

func (s *Server) normalize(w http.ResponseWriter, r *http.Request) {
	var req EquationRequest
	if !s.decode(w, r, &req) {
		return
	}
	eq, ok := s.normalizeRequest(w, r, &req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NormalizeResponse{Equation: eq, Markup: eq.Markup()})
}

func (s *Server) classify(w http.ResponseWriter, r *http.Request) {
	var req EquationRequest
	if !s.decode(w, r, &req) {
		return
	}
	eq, ok := s.normalizeRequest(w, r, &req)
	if !ok {
		return
	}
	c := gosolve.Classify(eq, req.Equation, req.Unknown)
	writeJSON(w, http.StatusOK, ClassifyResponse{
		Equation:       eq.String(),
		Classification: c,
		ModelName:      c.SuggestedModel.Name(s.language(r, &req)),
	})
}

func (s *Server) solve(w http.ResponseWriter, r *http.Request) {
	var req EquationRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.defaults(&req)
	tag := s.language(r, &req)
	key := cache.Key("solve", req.Equation, req.Unknown, tag.String())

	if body, ok := s.cached(r, key); ok {
		w.Header().Set("X-Cache", "HIT")
		writeRaw(w, http.StatusOK, body)
		return
	}

	eq, ok := s.normalizeRequest(w, r, &req)
	if !ok {
		return
	}
	res := gosolve.Solve(eq, req.Unknown, gosolve.WithLanguage(tag))
	s.metrics.solutions.WithLabelValues(res.Solution.Kind.String()).Inc()

	resp := SolveResponse{
		Equation:       eq.String(),
		Classification: gosolve.Classify(eq, req.Equation, req.Unknown),
		Steps:          res.Steps,
		Solution:       res.Solution,
		Answer:         res.Solution.Answer(req.Unknown, tag),
		AnswerMarkup:   res.Solution.AnswerMarkup(req.Unknown, tag),
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	body, err := json.Marshal(resp)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to encode response")
		return
	}
	s.store(r, key, body)
	w.Header().Set("X-Cache", "MISS")
	writeRaw(w, http.StatusOK, body)
}

func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if !s.decode(w, r, &req) {
		return
	}
	eq, ok := s.normalizeRequest(w, r, &req.EquationRequest)
	if !ok {
		return
	}
	value, err := gosolve.ParseAnswer(req.Value, req.Unknown)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid value: "+err.Error())
		return
	}
	correct, err := gosolve.Check(eq, req.Unknown, value)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, CheckResponse{Correct: correct, Value: value.String()})
}

// -- Helpers --

// decode reads and validates a JSON body, answering 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, formatValidationError(err).Error())
		return false
	}
	return true
}

func (s *Server) defaults(req *EquationRequest) {
	if req.Unknown == "" {
		req.Unknown = s.unknown
	}
}

func (s *Server) normalizeRequest(w http.ResponseWriter, r *http.Request, req *EquationRequest) (*gosolve.Equation, bool) {
	s.defaults(req)
	eq, err := gosolve.Normalize(req.Equation, req.Unknown)
	if err != nil {
		s.logger.Debug("normalize failed",
			zap.String("equation", req.Equation),
			zap.Error(err),
			zap.String("requestID", chimiddleware.GetReqID(r.Context())),
		)
		writeError(w, r, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return eq, true
}

// language picks the step language: the request field, then the
// Accept-Language header, then the server default.
func (s *Server) language(r *http.Request, req *EquationRequest) language.Tag {
	if req.Language != "" {
		return gosolve.MatchLanguage(req.Language)
	}
	if h := r.Header.Get("Accept-Language"); h != "" {
		return gosolve.MatchLanguage(h)
	}
	return gosolve.MatchLanguage(s.lang.String())
}

func (s *Server) cached(r *http.Request, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	body, err := s.cache.Get(r.Context(), key)
	switch {
	case err == nil:
		s.metrics.cache.WithLabelValues("hit").Inc()
		return body, true
	case errors.Is(err, cache.ErrNotFound):
		s.metrics.cache.WithLabelValues("miss").Inc()
	default:
		s.metrics.cache.WithLabelValues("error").Inc()
		s.logger.Warn("cache lookup failed", zap.Error(err))
	}
	return nil, false
}

func (s *Server) store(r *http.Request, key string, body []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(r.Context(), key, body); err != nil {
		s.logger.Warn("cache store failed", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		RequestID: chimiddleware.GetReqID(r.Context()),
	})
}

// formatValidationError formats validation errors into readable messages
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s character", field, e.Param())
	case "alpha":
		return fmt.Sprintf("%s must be a letter", field)
	case "bcp47_language_tag":
		return fmt.Sprintf("%s must be a language tag such as en or es", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
