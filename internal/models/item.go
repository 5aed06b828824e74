package models

import "strings"

// Item is a recyclable material category a point can accept. Rows are seed
// data; the API never writes them.
type Item struct {
	ID    int64  `db:"id" json:"id"`
	Title string `db:"title" json:"title"`
	Image string `db:"image" json:"image"`
}

// ItemResponse is an Item serialized for API responses. Image stays
// storage-relative in the row; ImageURL is the public address.
type ItemResponse struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
}

// Serialize converts an Item row into its response shape.
func (i Item) Serialize(baseURL string) ItemResponse {
	return ItemResponse{
		ID:       i.ID,
		Title:    i.Title,
		ImageURL: joinURL(baseURL, i.Image),
	}
}

// joinURL concatenates a base URL and a storage-relative name with exactly
// one separating slash.
func joinURL(base, name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + name
}
