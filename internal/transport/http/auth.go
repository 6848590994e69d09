package http

import (
	"errors"
	"net/http"

	"github.com/mlazareva/go-auth-sessions/internal/service"
)

// Сообщения исторического контракта API.
const (
	msgRegistered       = "Registration Successful, Email verification link sent. Please verify your email."
	msgLoginSuccess     = "Login Success"
	msgEmailTaken       = "An account with the given email already exists"
	msgBadCredentials   = "Email or Password is not Valid"
	msgInternal         = "internal error"
	msgInvalidBody      = "Invalid request body"
	msgTokensNotPresent = "Your tokens may not present"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type registerResponse struct {
	UUID         string `json:"uuid"`
	Msg          string `json:"msg"`
	Email        string `json:"email"`
	RefreshToken string `json:"refresh_token"`
	AccessToken  string `json:"access_token"`
}

// Register регистрирует пользователя и возвращает пару токенов.
// Маппинг ошибок:
//   - ErrEmailTaken -> 403 с фиксированным сообщением;
//   - ValidationError -> 403 с пополевыми ошибками;
//   - прочее -> 500 (без раскрытия деталей).
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeStrict(r, &in); err != nil {
		writeErrors(w, http.StatusForbidden, msgInvalidBody)
		return
	}

	user, pair, err := h.svc.RegisterUser(r.Context(), service.RegisterInput{
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeErrors(w, http.StatusForbidden, msgEmailTaken)
			return
		}

		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeErrors(w, http.StatusForbidden, verr.Fields)
			return
		}

		writeErrors(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeData(w, http.StatusCreated, registerResponse{
		UUID:         user.ID.String(),
		Msg:          msgRegistered,
		Email:        user.Email,
		RefreshToken: pair.RefreshToken,
		AccessToken:  pair.AccessToken,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPairResponse struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

type loginResponse struct {
	UUID  string            `json:"uuid"`
	Token tokenPairResponse `json:"token"`
	Msg   string            `json:"msg"`
}

// Login выполняет вход по email+пароль. Неизвестный email и неверный пароль
// дают одинаковый ответ 404 (защита от перебора аккаунтов).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		writeErrors(w, http.StatusNotFound, msgBadCredentials)
		return
	}

	uid, pair, err := h.svc.LoginUser(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeErrors(w, http.StatusNotFound, msgBadCredentials)
			return
		}

		writeErrors(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeData(w, http.StatusOK, loginResponse{
		UUID: uid.String(),
		Token: tokenPairResponse{
			Refresh: pair.RefreshToken,
			Access:  pair.AccessToken,
		},
		Msg: msgLoginSuccess,
	})
}
