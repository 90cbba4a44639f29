package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/mirror"
)

// SyncController serves the mirror side of the sync protocol.
type SyncController struct {
	Store mirror.Store
}

type syncRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func (sc *SyncController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"db":        "mariadb",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Data returns every collection in decoded shape, keyed by collection name.
// This is the hydration payload.
func (sc *SyncController) Data(c *gin.Context) {
	data, err := sc.Store.ReadAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

// Sync replaces a single collection. The value may arrive either as a JSON
// array or as a JSON-encoded string holding one (the portal mirrors its local
// storage values verbatim).
func (sc *SyncController) Sync(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := collections.ByKey(req.Key); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown collection key"})
		return
	}

	records, ok, err := decodeValue(req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON value"})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"ok": true, "skipped": true})
		return
	}

	if err := sc.Store.Replace(c.Request.Context(), req.Key, records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": len(records)})
}

// SyncAll replaces every recognized collection in the payload. Unknown keys
// and non-array values are ignored rather than rejected.
func (sc *SyncController) SyncAll(c *gin.Context) {
	var payload map[string]json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	total := 0
	for key, raw := range payload {
		if _, ok := collections.ByKey(key); !ok {
			continue
		}
		if !isJSONArray(raw) {
			continue
		}
		var records []mirror.Record
		if err := json.Unmarshal(raw, &records); err != nil {
			continue
		}
		if err := sc.Store.Replace(c.Request.Context(), key, records); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		total += len(records)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "total": total})
}

// decodeValue unwraps the sync value. Returns ok=false when the value is
// valid JSON but not an array (the caller answers skipped).
func decodeValue(raw json.RawMessage) ([]mirror.Record, bool, error) {
	if len(raw) == 0 {
		return nil, false, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		// A string value must itself parse as JSON; anything else is a
		// malformed payload.
		raw = json.RawMessage(text)
		var anything any
		if err := json.Unmarshal(raw, &anything); err != nil {
			return nil, false, err
		}
	}

	if !isJSONArray(raw) {
		return nil, false, nil
	}
	var records []mirror.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false, err
	}
	return records, true, nil
}

func isJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b == '['
		}
	}
	return false
}
