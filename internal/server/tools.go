package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/invopop/jsonschema"
	"github.com/ohmpatel46/spotify-wrapped/internal/shared"
	"github.com/ohmpatel46/spotify-wrapped/internal/tasks"
)

const (
	ToolWrappedSummary        = "wrapped_summary"
	ToolCreateWrappedPlaylist = "create_wrapped_playlist"

	toolsPath = "/tools"

	// maxBodyBytes caps tool argument payloads.
	maxBodyBytes = 1 << 20
)

// SummaryArgs are the arguments of the wrapped_summary tool.
type SummaryArgs struct {
	TimeRange string `json:"time_range,omitempty" jsonschema:"default=short_term,example=medium_term" jsonschema_description:"Listening window such as short_term or medium_term or long_term"`
}

// PlaylistArgs are the arguments of the create_wrapped_playlist tool.
type PlaylistArgs struct {
	TimeRange string `json:"time_range,omitempty" jsonschema:"default=short_term,example=medium_term" jsonschema_description:"Listening window such as short_term or medium_term or long_term"`
	Public    bool   `json:"public,omitempty" jsonschema:"default=false" jsonschema_description:"Whether the created playlist is public"`
}

// Tool describes one callable tool and the JSON schema of its arguments.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Tools returns the tool catalog in a stable order.
func Tools() []Tool {
	return []Tool{
		{
			Name:        ToolWrappedSummary,
			Description: "Generate wrapped summary cards.",
			InputSchema: GenerateSchema[SummaryArgs](),
		},
		{
			Name:        ToolCreateWrappedPlaylist,
			Description: "Create a playlist from top tracks.",
			InputSchema: GenerateSchema[PlaylistArgs](),
		},
	}
}

// GenerateSchema reflects T into an inline JSON schema map.
func GenerateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema, err := schemaToMap(reflector.Reflect(v))
	if err != nil {
		panic(err)
	}
	delete(schema, "$schema")
	delete(schema, "$id")
	return schema
}

func schemaToMap(schema *jsonschema.Schema) (map[string]any, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ToolsHandler exposes the wrapped engine's two operations as HTTP tools.
//
// Implements the [Handler] interface for registration with a [Router].
type ToolsHandler struct {
	engine tasks.Engine
	logger *log.Logger
	mux    *http.ServeMux
}

// NewToolsHandler creates a [ToolsHandler] backed by engine.
func NewToolsHandler(engine tasks.Engine, logger *log.Logger) *ToolsHandler {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	h := &ToolsHandler{
		engine: engine,
		logger: shared.WithLogger(logger, "component", "tools"),
		mux:    http.NewServeMux(),
	}
	h.mux.HandleFunc("GET "+toolsPath, h.list)
	h.mux.HandleFunc("POST "+toolsPath+"/"+ToolWrappedSummary, h.summary)
	h.mux.HandleFunc("POST "+toolsPath+"/"+ToolCreateWrappedPlaylist, h.playlist)
	return h
}

// NewRouter builds the service router: panic recovery, request logging, /health and the tool routes.
func NewRouter(engine tasks.Engine, logger *log.Logger) *BasicRouter {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	router := NewBasicRouter()
	router.Use(Recover(logger), Logging(logger))
	router.Handle(http.MethodGet, "/health", http.HandlerFunc(Health))
	router.Handler(NewToolsHandler(engine, logger))
	return router
}

// Routes returns the HTTP routes this handler serves.
func (h *ToolsHandler) Routes() []string {
	return []string{toolsPath, toolsPath + "/"}
}

func (h *ToolsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *ToolsHandler) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": Tools()})
}

func (h *ToolsHandler) summary(w http.ResponseWriter, r *http.Request) {
	var args SummaryArgs
	if err := decodeArgs(r, &args); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if args.TimeRange == "" {
		args.TimeRange = tasks.DefaultTimeRange
	}

	summary, err := h.engine.Summarize(r.Context(), nil, args.TimeRange)
	if err != nil {
		h.fail(w, ToolWrappedSummary, err)
		return
	}

	h.logger.Debug("summary generated", "time_range", args.TimeRange, "vibe", summary.TimeOfDayVibe)
	writeJSON(w, http.StatusOK, summary)
}

func (h *ToolsHandler) playlist(w http.ResponseWriter, r *http.Request) {
	var args PlaylistArgs
	if err := decodeArgs(r, &args); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if args.TimeRange == "" {
		args.TimeRange = tasks.DefaultTimeRange
	}

	result, err := h.engine.CreatePlaylist(r.Context(), nil, args.TimeRange, args.Public)
	if err != nil {
		h.fail(w, ToolCreateWrappedPlaylist, err)
		return
	}

	h.logger.Info("playlist created", "id", result.PlaylistID, "time_range", args.TimeRange, "public", args.Public)
	writeJSON(w, http.StatusOK, result)
}

func (h *ToolsHandler) fail(w http.ResponseWriter, tool string, err error) {
	status := StatusFor(err)
	h.logger.Error("tool failed", "tool", tool, "status", status, "error", err)
	writeError(w, status, err.Error())
}

// StatusFor maps an engine error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrProvider):
		return http.StatusBadGateway
	case errors.Is(err, shared.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeArgs reads a JSON object into v. An empty body leaves v at its zero value.
func decodeArgs(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
