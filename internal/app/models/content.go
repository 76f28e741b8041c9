package models

// Job is a job posting as returned by the content service
type Job struct {
	ID          string `json:"id" db:"id"`
	AuthorID    string `json:"authorId" db:"author_id"`
	Title       string `json:"title" db:"title"`
	Company     string `json:"company" db:"company"`
	Location    string `json:"location" db:"location"`
	Description string `json:"description" db:"description"`
	Type        string `json:"type" db:"job_type"` // full-time, internship, ...
	PostedAt    string `json:"postedAt" db:"posted_at"`
}

// Event is an event announcement. Date is the event's own date and doubles
// as its feed timestamp.
type Event struct {
	ID          string `json:"id" db:"id"`
	AuthorID    string `json:"authorId" db:"author_id"`
	Title       string `json:"title" db:"title"`
	Date        string `json:"date" db:"event_date"`
	Location    string `json:"location" db:"location"`
	Description string `json:"description" db:"description"`
	Image       string `json:"image,omitempty" db:"image_url"`
}

// Post is a general post; the title is optional
type Post struct {
	ID       string  `json:"id" db:"id"`
	AuthorID string  `json:"authorId" db:"author_id"`
	Title    *string `json:"title,omitempty" db:"title"`
	Content  string  `json:"content" db:"content"`
	PostedAt string  `json:"postedAt" db:"posted_at"`
}
