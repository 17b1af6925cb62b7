package models

type Category struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Genre struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Title is the reviewable catalogue item. Rating is the mean review score
// and stays nil until the first review is posted.
type Title struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	Rating      *float64  `json:"rating"`
	Description *string   `json:"description"`
	Genres      []Genre   `json:"genre"`
	Category    *Category `json:"category"`
}
