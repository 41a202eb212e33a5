// Package handlers exposes the gateway's HTTP surface: the snapshot
// read/write endpoints, the admin login, and the geocoding proxy.
package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/euvalley/directory/internal/directory/auth"
	e "github.com/euvalley/directory/internal/directory/errors"
	"github.com/euvalley/directory/internal/directory/events"
	"github.com/euvalley/directory/internal/directory/geocode"
	"github.com/euvalley/directory/internal/directory/models"
	"go.uber.org/zap"
)

// SnapshotRepository is the storage behind the snapshot endpoints.
type SnapshotRepository interface {
	Load(ctx context.Context) (*models.Snapshot, error)
	Save(ctx context.Context, snapshot *models.Snapshot) (time.Time, error)
}

// Geocoder resolves addresses for the admin form.
type Geocoder interface {
	Search(ctx context.Context, street, city, country string) (*geocode.Result, error)
}

// AuditProducer receives audit events derived from snapshot writes.
type AuditProducer interface {
	Produce(eventType events.EventType, record *models.Company)
}

// Handler bundles the HTTP endpoints with their dependencies.
type Handler struct {
	repo          SnapshotRepository
	geocoder      Geocoder
	producer      AuditProducer
	adminPassword string
	jwtSecret     string
	logger        *zap.Logger
}

// NewHandler constructs a Handler. producer may be nil, in which case
// snapshot writes emit no audit events.
func NewHandler(repo SnapshotRepository, geocoder Geocoder, producer AuditProducer, adminPassword, jwtSecret string, logger *zap.Logger) *Handler {
	return &Handler{
		repo:          repo,
		geocoder:      geocoder,
		producer:      producer,
		adminPassword: adminPassword,
		jwtSecret:     jwtSecret,
		logger:        logger.Named("http_handler"),
	}
}

// GetSnapshot serves the stored snapshot. A gateway that has never been
// written answers an empty default, not an error.
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.repo.Load(r.Context())
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			writeJSON(w, http.StatusOK, models.Snapshot{
				Companies: []models.Company{},
				HiddenIDs: []string{},
			})
			return
		}
		h.logger.Error("failed to load snapshot", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to access storage")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// SaveSnapshot overwrites the stored snapshot wholesale. The previous
// contents are discarded: last writer wins.
func (h *Handler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Companies []models.Company `json:"companies"`
		HiddenIDs []string         `json:"hiddenIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if body.Companies == nil {
		writeError(w, http.StatusBadRequest, "Companies must be an array")
		return
	}
	if body.HiddenIDs == nil {
		body.HiddenIDs = []string{}
	}
	incoming := &models.Snapshot{
		Companies: body.Companies,
		HiddenIDs: body.HiddenIDs,
	}

	var previous *models.Snapshot
	if h.producer != nil {
		previous, _ = h.repo.Load(r.Context())
	}

	stamp, err := h.repo.Save(r.Context(), incoming)
	if err != nil {
		h.logger.Error("failed to save snapshot", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to access storage")
		return
	}

	if h.producer != nil {
		h.auditChanges(previous, incoming)
	}

	h.logger.Info("snapshot saved", zap.Int("companies", len(body.Companies)))
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"lastUpdated": stamp,
	})
}

// auditChanges diffs two snapshots and emits one event per changed
// record. previous may be nil for the first ever write.
func (h *Handler) auditChanges(previous, current *models.Snapshot) {
	prevByID := map[string]*models.Company{}
	prevHidden := map[string]struct{}{}
	if previous != nil {
		for i := range previous.Companies {
			prevByID[previous.Companies[i].ID] = &previous.Companies[i]
		}
		for _, id := range previous.HiddenIDs {
			prevHidden[id] = struct{}{}
		}
	}

	currByID := map[string]*models.Company{}
	for i := range current.Companies {
		record := &current.Companies[i]
		currByID[record.ID] = record
		prev, ok := prevByID[record.ID]
		switch {
		case !ok:
			h.producer.Produce(events.RecordCreated, record)
		case !prev.UpdatedAt.Equal(record.UpdatedAt):
			h.producer.Produce(events.RecordUpdated, record)
		}
	}
	for id, record := range prevByID {
		if _, ok := currByID[id]; !ok {
			h.producer.Produce(events.RecordDeleted, record)
		}
	}

	currHidden := map[string]struct{}{}
	for _, id := range current.HiddenIDs {
		currHidden[id] = struct{}{}
		if _, was := prevHidden[id]; !was {
			if record, ok := currByID[id]; ok {
				h.producer.Produce(events.RecordHidden, record)
			}
		}
	}
	for id := range prevHidden {
		if _, still := currHidden[id]; !still {
			if record, ok := currByID[id]; ok {
				h.producer.Produce(events.RecordShown, record)
			}
		}
	}
}

// AdminLogin exchanges the shared admin password for a session token.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	if subtle.ConstantTimeCompare([]byte(body.Password), []byte(h.adminPassword)) != 1 {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "Incorrect password",
		})
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
	})
}

// Geocode resolves the address given in the street, city and country
// query parameters.
func (h *Handler) Geocode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.geocoder.Search(r.Context(), q.Get("street"), q.Get("city"), q.Get("country"))
	if err != nil {
		switch {
		case errors.Is(err, e.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "An address or city is required")
		case errors.Is(err, e.ErrNotFound):
			writeError(w, http.StatusNotFound, "Could not find coordinates for this address")
		default:
			h.logger.Error("geocoding failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "Failed to fetch coordinates")
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
