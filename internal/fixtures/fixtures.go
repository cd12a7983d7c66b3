package fixtures

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ohmpatel46/spotify-wrapped/internal/shared"
)

//go:embed fixtures/*.json
var embedded embed.FS

const (
	// Prefix is the path every fixture route is mounted under.
	Prefix = "/v1"

	UserID          = "mock_user_123"
	UserDisplayName = "Mock User"

	defaultLimit = 20

	topTracksFile      = "top_tracks_short.json"
	topArtistsFile     = "top_artists_short.json"
	recentlyPlayedFile = "recently_played.json"
	trackDetailsFile   = "tracks_details.json"
	artistDetailsFile  = "artists_details.json"
)

// Handler serves the fixture-backed provider API.
//
// Reads come from JSON documents in an [fs.FS]; every request re-reads its fixture so edits show up without a restart.
// Writes are never stored: created playlists and snapshots only get fresh ids.
type Handler struct {
	files  fs.FS
	mux    *http.ServeMux
	logger *log.Logger
}

// NewHandler creates a [Handler] backed by the embedded fixtures.
func NewHandler(logger *log.Logger) *Handler {
	sub, err := fs.Sub(embedded, "fixtures")
	if err != nil {
		panic(err)
	}
	return NewHandlerFS(sub, logger)
}

// NewHandlerFS creates a [Handler] reading fixtures from the root of files.
func NewHandlerFS(files fs.FS, logger *log.Logger) *Handler {
	if logger == nil {
		logger = shared.DiscardLogger()
	}

	h := &Handler{
		files:  files,
		mux:    http.NewServeMux(),
		logger: shared.WithLogger(logger, "component", "fixtures"),
	}

	h.mux.HandleFunc("GET "+Prefix+"/me", h.me)
	h.mux.HandleFunc("GET "+Prefix+"/me/top/tracks", h.topItems(topTracksFile))
	h.mux.HandleFunc("GET "+Prefix+"/me/top/artists", h.topItems(topArtistsFile))
	h.mux.HandleFunc("GET "+Prefix+"/me/player/recently-played", h.recentlyPlayed)
	h.mux.HandleFunc("GET "+Prefix+"/tracks", h.byIDs(trackDetailsFile, "tracks"))
	h.mux.HandleFunc("GET "+Prefix+"/artists", h.byIDs(artistDetailsFile, "artists"))
	h.mux.HandleFunc("POST "+Prefix+"/users/{user_id}/playlists", h.createPlaylist)
	h.mux.HandleFunc("POST "+Prefix+"/playlists/{playlist_id}/tracks", h.addTracks)
	return h
}

// Routes implements server.Handler.
func (h *Handler) Routes() []string {
	return []string{Prefix + "/"}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"id": UserID, "display_name": UserDisplayName})
}

// topItems slices the fixture's items by offset and limit and echoes both.
func (h *Handler) topItems(file string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset, err := pagination(r)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		payload, ok := h.load(w, file)
		if !ok {
			return
		}

		items := listOf(payload, "items")
		payload["items"] = window(items, offset, limit)
		payload["limit"] = limit
		payload["offset"] = offset
		writeJSON(w, http.StatusOK, payload)
	}
}

func (h *Handler) recentlyPlayed(w http.ResponseWriter, r *http.Request) {
	limit, _, err := pagination(r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	query := r.URL.Query()
	for _, key := range []string{"after", "before"} {
		if v := query.Get(key); v != "" {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				writeDetail(w, http.StatusUnprocessableEntity, key+" must be an integer")
				return
			}
		}
	}

	payload, ok := h.load(w, recentlyPlayedFile)
	if !ok {
		return
	}

	payload["items"] = window(listOf(payload, "items"), 0, limit)
	payload["limit"] = limit
	if after := query.Get("after"); after != "" {
		payload["cursors"] = map[string]string{"after": after}
	}
	if before := query.Get("before"); before != "" {
		payload["cursors"] = map[string]string{"before": before}
	}
	writeJSON(w, http.StatusOK, payload)
}

// byIDs returns the fixture entries named by the ids parameter in request order, null for unknown ids.
func (h *Handler) byIDs(file, key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids := splitIDs(r.URL.Query().Get("ids"))
		if len(ids) == 0 {
			writeDetail(w, http.StatusBadRequest, "ids query parameter is required")
			return
		}

		payload, ok := h.load(w, file)
		if !ok {
			return
		}

		byID := map[string]any{}
		for _, item := range listOf(payload, key) {
			if obj, ok := item.(map[string]any); ok {
				if id, ok := obj["id"].(string); ok {
					byID[id] = obj
				}
			}
		}

		results := make([]any, len(ids))
		for i, id := range ids {
			results[i] = byID[id]
		}
		writeJSON(w, http.StatusOK, map[string]any{key: results})
	}
}

type createPlaylistBody struct {
	Name        *string `json:"name"`
	Public      bool    `json:"public"`
	Description string  `json:"description"`
}

func (h *Handler) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var body createPlaylistBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}

	name := "Wrapped"
	if body.Name != nil {
		name = *body.Name
	}

	userID := r.PathValue("user_id")
	playlistID := "mock_playlist_" + shared.ShortID(8)
	base := "http://" + r.Host + Prefix + "/playlists/" + playlistID

	h.logger.Info("created playlist", "id", playlistID, "user", userID, "public", body.Public)

	writeJSON(w, http.StatusOK, map[string]any{
		"id":            playlistID,
		"name":          name,
		"public":        body.Public,
		"description":   body.Description,
		"owner":         map[string]string{"id": userID},
		"snapshot_id":   "snapshot_" + shared.ShortID(8),
		"external_urls": map[string]string{"spotify": "https://open.spotify.com/playlist/" + playlistID},
		"href":          base,
		"type":          "playlist",
		"uri":           "spotify:playlist:" + playlistID,
		"tracks":        map[string]any{"href": base + "/tracks", "total": 0},
	})
}

func (h *Handler) addTracks(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URIs []string `json:"uris"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}

	if len(body.URIs) == 0 {
		writeDetail(w, http.StatusBadRequest, "uris list is required")
		return
	}

	h.logger.Info("added tracks", "playlist", r.PathValue("playlist_id"), "count", len(body.URIs))
	writeJSON(w, http.StatusOK, map[string]string{"snapshot_id": "snapshot_" + shared.ShortID(8)})
}

// load decodes a fixture document, writing a 500 and returning false when it is missing or unreadable.
func (h *Handler) load(w http.ResponseWriter, name string) (map[string]any, bool) {
	data, err := fs.ReadFile(h.files, name)
	if errors.Is(err, fs.ErrNotExist) {
		h.logger.Error("fixture not found", "name", name)
		writeDetail(w, http.StatusInternalServerError, "Missing fixture: "+name)
		return nil, false
	}
	if err != nil {
		h.logger.Error("failed to read fixture", "name", name, "error", err)
		writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("failed to read fixture %s", name))
		return nil, false
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		h.logger.Error("failed to decode fixture", "name", name, "error", err)
		writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("invalid fixture %s", name))
		return nil, false
	}
	return payload, true
}

func pagination(r *http.Request) (limit, offset int, err error) {
	query := r.URL.Query()
	limit, offset = defaultLimit, 0

	if v := query.Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			return 0, 0, fmt.Errorf("limit must be a non-negative integer")
		}
	}
	if v := query.Get("offset"); v != "" {
		if offset, err = strconv.Atoi(v); err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}

func listOf(payload map[string]any, key string) []any {
	items, _ := payload[key].([]any)
	return items
}

// window returns items[offset:offset+limit] clamped to the slice end. offset and limit are non-negative.
func window(items []any, offset, limit int) []any {
	if offset > len(items) {
		offset = len(items)
	}
	end := min(offset+limit, len(items))
	return append([]any{}, items[offset:end]...)
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
