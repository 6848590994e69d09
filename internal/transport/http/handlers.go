// transport/http реализует REST-эндпоинты сервиса.
// Здесь выполняется только маппинг данных и ошибок доменного слоя (service) в HTTP.
// Вся валидация и бизнес-логика находятся в пакете service.
//
// Контракт ответов: envelope-объекты с полем code, зеркалящим HTTP-статус
// ({"code":N,"data":{...}} / {"code":N,"errors":...} / {"code":N,"error":"..."});
// исключения — список профилей (голый массив) и успешное обновление
// access-токена (голый объект {"access_token":...}).
package http

import (
	"encoding/json"
	"net/http"

	"github.com/mlazareva/go-auth-sessions/internal/service"
)

// Handlers агрегирует зависимости эндпоинтов (сервисный слой).
type Handlers struct {
	svc *service.Service
}

// NewHandlers создаёт набор HTTP-обработчиков поверх сервисного слоя.
func NewHandlers(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

// dataEnvelope — успешный ответ с полем code, зеркалящим HTTP-статус.
type dataEnvelope struct {
	Code int `json:"code"`
	Data any `json:"data"`
}

// errorsEnvelope — ответ об ошибке в форме {"code":N,"errors":...};
// errors может быть строкой или картой поле -> сообщения.
type errorsEnvelope struct {
	Code   int `json:"code"`
	Errors any `json:"errors"`
}

// errorEnvelope — ответ об ошибке в форме {"code":N,"error":"..."}
// (её использует поток обновления access-токена).
type errorEnvelope struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// writeJSON — единый ответ JSON с нужным Content-Type.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dataEnvelope{Code: status, Data: data})
}

func writeErrors(w http.ResponseWriter, status int, errs any) {
	writeJSON(w, status, errorsEnvelope{Code: status, Errors: errs})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorEnvelope{Code: status, Error: msg})
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
