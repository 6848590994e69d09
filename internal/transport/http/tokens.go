package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/mlazareva/go-auth-sessions/internal/service"
)

const (
	msgRefreshNotCached = "Refresh token not available in cache or invalid uuid"
	msgRefreshRequired  = "Please enter a refresh token"
	msgTokenInvalid     = "Token is invalid or expired"
)

type cachedTokensResponse struct {
	RefreshToken string `json:"refresh_token"`
}

// CachedTokens возвращает закэшированный refresh-токен по uuid из query.
// Отладочно-саппортовый эндпоинт: любая причина отсутствия (нет записи,
// TTL истёк, кривой uuid) даёт одинаковый 404.
func (h *Handlers) CachedTokens(w http.ResponseWriter, r *http.Request) {
	uid, err := uuid.Parse(r.URL.Query().Get("uuid"))
	if err != nil {
		writeErrors(w, http.StatusNotFound, msgTokensNotPresent)
		return
	}

	token, err := h.svc.CachedRefreshToken(r.Context(), uid)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeErrors(w, http.StatusNotFound, msgTokensNotPresent)
			return
		}

		writeErrors(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeData(w, http.StatusOK, cachedTokensResponse{RefreshToken: token})
}

type refreshRequest struct {
	UUID         string `json:"uuid"`
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

// RefreshAccessToken выпускает новый access-токен по refresh-токену.
// Маппинг ошибок:
//   - кривой uuid / нет записи в кэше -> 404;
//   - пустой refresh_token -> 403;
//   - невалидный/просроченный токен -> 400 (запись в кэше уже удалена сервисом).
//
// Успешный ответ — голый объект {"access_token":...} без envelope
// (исторический контракт).
func (h *Handlers) RefreshAccessToken(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeStrict(r, &in); err != nil {
		writeError(w, http.StatusNotFound, msgRefreshNotCached)
		return
	}

	uid, err := uuid.Parse(in.UUID)
	if err != nil {
		writeError(w, http.StatusNotFound, msgRefreshNotCached)
		return
	}

	access, err := h.svc.RefreshAccessToken(r.Context(), uid, in.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound, msgRefreshNotCached)
		case errors.Is(err, service.ErrEmptyRefreshToken):
			writeError(w, http.StatusForbidden, msgRefreshRequired)
		case errors.Is(err, service.ErrInvalidToken):
			writeError(w, http.StatusBadRequest, msgTokenInvalid)
		default:
			writeError(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{AccessToken: access})
}
