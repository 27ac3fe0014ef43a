package identity

import (
	"net/http"

	"github.com/kperminova/gig-service/internal/models"
)

// Provider - интерфейс для определения личности вызывающего по запросу.
// Проверка токена выполняется внешним слоем; здесь только извлечение
// уже проверенной личности. Анонимные запросы отклоняются.
type Provider interface {
	Identify(r *http.Request) (string, error)
}

// HeaderProvider извлекает личность из заголовка X-User-Id.
type HeaderProvider struct{}

// NewHeaderProvider создает новый экземпляр HeaderProvider.
func NewHeaderProvider() *HeaderProvider {
	return &HeaderProvider{}
}

// Identify возвращает личность вызывающего или ошибку 401, если её нет.
func (p *HeaderProvider) Identify(r *http.Request) (string, error) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		return "", models.NewErrorResponse(http.StatusUnauthorized, "missing user identity")
	}
	return userID, nil
}
