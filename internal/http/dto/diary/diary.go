// Package diary define las respuestas de /diary.
package diary

import "github.com/dropDatabas3/hellodiary/internal/domain/repository"

// DiaryResponse: owner es el username del dueño.
type DiaryResponse struct {
	Owner string `json:"owner"`
	Title string `json:"title"`
}

func NewDiaryResponse(d *repository.Diary) DiaryResponse {
	return DiaryResponse{Owner: d.OwnerUsername, Title: d.Title}
}
