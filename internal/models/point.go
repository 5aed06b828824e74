package models

// Point represents a registered waste-collection point.
type Point struct {
	ID        int64   `db:"id" json:"id"`
	Image     string  `db:"image" json:"image"`
	Name      string  `db:"name" json:"name"`
	Email     string  `db:"email" json:"email"`
	Whatsapp  string  `db:"whatsapp" json:"whatsapp"`
	Latitude  float64 `db:"latitude" json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`
	City      string  `db:"city" json:"city"`
	UF        string  `db:"uf" json:"uf"`
}

// PointItem links a point to one accepted item category.
type PointItem struct {
	ID      int64 `db:"id"`
	PointID int64 `db:"point_id"`
	ItemID  int64 `db:"item_id"`
}

// PointResponse is a Point serialized for API responses, with the public
// image URL derived from the stored filename.
type PointResponse struct {
	ID        int64   `json:"id"`
	Image     string  `json:"image"`
	ImageURL  string  `json:"image_url"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Whatsapp  string  `json:"whatsapp"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	UF        string  `json:"uf"`
}

// PointDetailResponse is the shape returned by GET /points/:id.
type PointDetailResponse struct {
	Point PointResponse   `json:"point"`
	Items []ItemTitleOnly `json:"items"`
}

// ItemTitleOnly carries just the title of an associated item.
type ItemTitleOnly struct {
	Title string `json:"title"`
}

// Serialize converts a Point row into its response shape.
func (p Point) Serialize(baseURL string) PointResponse {
	return PointResponse{
		ID:        p.ID,
		Image:     p.Image,
		ImageURL:  joinURL(baseURL, p.Image),
		Name:      p.Name,
		Email:     p.Email,
		Whatsapp:  p.Whatsapp,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		City:      p.City,
		UF:        p.UF,
	}
}
