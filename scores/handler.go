package scores

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// maxBody 单条提交的最大字节数
const maxBody = 4 << 10

// Handler 排行榜接口
// GET  /api/scores  返回 {"scores":[...]}
// POST /api/scores  提交一条记录，返回 {"success":true}
func Handler(store Store, log *zap.SugaredLogger) http.Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			recs, err := store.Top(r.Context(), 0)
			if err != nil {
				log.Errorw("read scores failed", "err", err)
				writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed to read scores"})
				return
			}
			writeJSON(w, http.StatusOK, Document{Scores: recs})
		case http.MethodPost:
			var rec Record
			if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&rec); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
				return
			}
			rec.Complete(time.Now())
			if err := store.Submit(r.Context(), rec); err != nil {
				if errors.Is(err, ErrInvalidRecord) || errors.Is(err, ErrInvalidName) {
					writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
					return
				}
				log.Errorw("save score failed", "err", err, "name", rec.Name)
				writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed to save score"})
				return
			}
			log.Infow("score saved", "name", rec.Name, "score", rec.Score, "height", rec.Height)
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
