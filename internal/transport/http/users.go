package http

import (
	"net/http"
	"time"

	"github.com/mlazareva/go-auth-sessions/internal/models"
)

// userProfile — представление пользователя наружу; хэш пароля исключён.
type userProfile struct {
	UUID        string    `json:"uuid"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	IsSuperuser bool      `json:"is_superuser"`
	IsStaff     bool      `json:"is_staff"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserProfiles возвращает всех пользователей голым JSON-массивом
// (исторический контракт: без envelope).
func (h *Handlers) UserProfiles(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		writeErrors(w, http.StatusInternalServerError, msgInternal)
		return
	}

	out := make([]userProfile, 0, len(users))
	for i := range users {
		out = append(out, toUserProfile(&users[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

func toUserProfile(u *models.User) userProfile {
	return userProfile{
		UUID:        u.ID.String(),
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsSuperuser: u.IsSuperuser,
		IsStaff:     u.IsStaff(),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
