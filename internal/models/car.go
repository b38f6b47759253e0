package models

import "time"

// Типы топлива.
const (
	FuelBenzin = "benzin"
	FuelDizel  = "dizel"
	FuelElektr = "elektr"
	FuelGibrid = "gibrid"
)

// Типы коробки передач.
const (
	TransmissionManual  = "manual"
	TransmissionAvtomat = "avtomat"
)

// Location место, где можно забрать автомобиль.
type Location struct {
	City      string   `json:"city"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Rating агрегированный рейтинг автомобиля.
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Car единица автопарка.
type Car struct {
	ID           string    `json:"id"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Color        string    `json:"color"`
	FuelType     string    `json:"fuelType"`
	Transmission string    `json:"transmission"`
	Seats        int       `json:"seats"`
	PricePerDay  int64     `json:"pricePerDay"`
	Images       []string  `json:"images"`
	Features     []string  `json:"features"`
	Description  string    `json:"description"`
	Location     Location  `json:"location"`
	IsAvailable  bool      `json:"isAvailable"`
	Rating       Rating    `json:"rating"`
	OwnerID      *string   `json:"ownerId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Title короткое название автомобиля для уведомлений.
func (c Car) Title() string {
	return c.Brand + " " + c.Model
}

// CarFilter параметры поиска автомобилей.
type CarFilter struct {
	Query         string
	Brand         string
	FuelType      string
	Transmission  string
	City          string
	MinPrice      int64
	MaxPrice      int64
	MinSeats      int
	OnlyAvailable bool
	Sort          string
	Limit         int
	Offset        int
}

// Варианты сортировки при поиске.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
	SortNewest    = "newest"
)
