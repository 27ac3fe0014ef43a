package models

// ErrorResponse описывает ошибку бизнес-логики с HTTP-кодом и сообщением.
// Статус-код несёт категорию ошибки: 404 - нет такой сущности, 403 - нет
// прав, 409 - нарушено состояние (гиг уже закрыт, проигранная гонка найма),
// 400 - некорректный ввод.
type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Message    string `json:"reason"`
}

// NewErrorResponse создает новую ошибку с кодом и сообщением.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message}
}

// Реализация метода Error() для удовлетворения интерфейса error.
func (e *ErrorResponse) Error() string {
	return e.Message
}
