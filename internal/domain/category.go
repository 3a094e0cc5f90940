package domain

import "time"

type Category struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type Brand struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	LogoURL   string    `json:"logo_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Slide is one banner of the home page hero slider.
type Slide struct {
	ID       int64  `json:"id"`
	Title    string `json:"title,omitempty"`
	ImageURL string `json:"image_url"`
	LinkURL  string `json:"link_url,omitempty"`
	Position int    `json:"position"`
}
