package domain

import "time"

// Feedback es un comentario libre enviado por un usuario. Solo se inserta y se borra por antiguedad.
type Feedback struct {
	ID         int64     `json:"id"`
	SenderName string    `json:"sender_name"`
	Email      string    `json:"email"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// PurgeReport resume una corrida de limpieza de feedback.
type PurgeReport struct {
	Cutoff  time.Time `json:"cutoff"`
	Before  int64     `json:"before"`
	Deleted int64     `json:"deleted"`
	After   int64     `json:"after"`
}
