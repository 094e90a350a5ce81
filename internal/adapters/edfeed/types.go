package edfeed

import "time"

// Thread is one discussion thread as the forum API returns it
type Thread struct {
	ID           int64     `json:"id"`
	User         User      `json:"user"`
	Title        string    `json:"title"`
	Document     string    `json:"document"`
	Category     string    `json:"category"`
	URL          string    `json:"url"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// User is the author payload nested in a thread
type User struct {
	Name string `json:"name"`
}

// threadsPage is the list envelope for the threads endpoint
type threadsPage struct {
	Threads []Thread `json:"threads"`
}
