package coleta

// Item is a recyclable material category as served by the API.
type Item struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
}

// Point is a registered collection point as served by the API.
type Point struct {
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

// PointDetail is the GET /points/:id response: the point plus the titles of
// the items it accepts.
type PointDetail struct {
	Point Point       `json:"point"`
	Items []ItemTitle `json:"items"`
}

// ItemTitle carries just an item title.
type ItemTitle struct {
	Title string `json:"title"`
}

// Filter narrows a point listing. Zero values match everything.
type Filter struct {
	City    string
	UF      string
	ItemIDs []int64
}

// Submission is a point registration payload ready to send. ItemIDs must not
// be empty; Image is optional.
type Submission struct {
	Name      string
	Email     string
	Whatsapp  string
	Latitude  float64
	Longitude float64
	City      string
	UF        string
	ItemIDs   []int64

	ImageName string
	Image     []byte
}
