package dto

// PageResponse - страница списка
type PageResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// Pagination - страница и размер, уже нормализованные хендлером
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// StatusRequest - смена статуса; допустимые значения проверяет сервис по типу записи
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CommentRequest - новый комментарий в журнал записи
type CommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// CommentWriter - автор комментария; Email = "deleted user", если аккаунта больше нет
type CommentWriter struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

type CommentResponse struct {
	ID     uint          `json:"id"`
	Text   string        `json:"text"`
	Date   string        `json:"date"`
	Writer CommentWriter `json:"writer"`
}
