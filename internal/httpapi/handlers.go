package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/DoyleJ11/quiz-contest-backend/internal/bank"
	"github.com/DoyleJ11/quiz-contest-backend/internal/engine"
	"github.com/DoyleJ11/quiz-contest-backend/internal/hub"
	"github.com/DoyleJ11/quiz-contest-backend/internal/lobby"
	"github.com/DoyleJ11/quiz-contest-backend/internal/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const codeLength = 6

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, codeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

type contestResponse struct {
	Code    string            `json:"code,omitempty"`
	Version int               `json:"version"`
	Contest types.ContestView `json:"contest"`
}

func CreateContest(h *hub.Hub, e *engine.Engine, log *zap.Logger, newContest func() engine.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to generate code")
				return
			}
			if h.Lookup(c) == nil {
				code = c
				break
			}
			log.Debug("collision on code, regenerating", zap.String("code", c))
		}

		state := newContest()
		if _, err := h.Ensure(code, state); err != nil {
			writeLobbyError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, contestResponse{Code: code, Contest: types.NewContestView(e, state)})
	}
}

func GetContest(h *hub.Hub, e *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lb := h.Lookup(chi.URLParam(r, "code"))
		if lb == nil {
			writeError(w, http.StatusNotFound, "contest not found")
			return
		}
		view, err := lb.View(r.Context())
		if err != nil {
			writeLobbyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, contestResponse{Version: view.Version, Contest: types.NewContestView(e, view.State)})
	}
}

// PostIntent applies one intent. A rejected intent is not an error: the
// response just carries the unchanged version.
func PostIntent(h *hub.Hub, e *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lb := h.Lookup(chi.URLParam(r, "code"))
		if lb == nil {
			writeError(w, http.StatusNotFound, "contest not found")
			return
		}

		var cm types.ClientMessage
		if err := json.NewDecoder(r.Body).Decode(&cm); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		cmd, ok := types.ToCommand(cm)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown type")
			return
		}

		res, err := lb.Dispatch(r.Context(), cmd)
		if err != nil {
			writeLobbyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, contestResponse{Version: res.Version, Contest: types.NewContestView(e, res.State)})
	}
}

func DeleteContest(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := h.Remove(chi.URLParam(r, "code"))
		if err != nil {
			writeLobbyError(w, err)
			return
		}
		if !removed {
			writeError(w, http.StatusNotFound, "contest not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func BankIndex(e *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locale := bank.Locale(chi.URLParam(r, "locale"))
		if !locale.Valid() {
			writeError(w, http.StatusNotFound, "unknown locale")
			return
		}
		writeJSON(w, http.StatusOK, types.NewBankIndex(locale, e.BankFor(locale)))
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeLobbyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lobby.ErrClosed):
		writeError(w, http.StatusNotFound, "contest closed")
	case errors.Is(err, hub.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "shutting down")
	default:
		writeError(w, http.StatusServiceUnavailable, err.Error())
	}
}
