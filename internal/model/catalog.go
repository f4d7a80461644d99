package model

// Category groups related wellness programs (e.g. "Art Therapy").
// Rows come from the `categories` table and are managed by staff
// outside of this service; the booking core only reads them.
type Category struct {
	ID          uint64 // categories.id
	Name        string // categories.name
	Description string // categories.description
	ImageURL    string // categories.image_url
}

// Program is a bookable activity offered by the wellness center, such
// as a painting class or a sound bath.  Capacity is the default number
// of spots per generated time slot unless a schedule template overrides
// it.  Inactive programs are hidden from browsing and skipped by slot
// generation.
//
// Fields:
//  ID           – primary key identifier.
//  CategoryID   – owning category.
//  Title        – display title.
//  Description  – long description shown on the program page.
//  DurationMins – informational session length in minutes.
//  Location     – room or area where the program takes place.
//  Capacity     – default spots per slot.
//  ImageURL     – illustration for the catalog.
//  IsActive     – whether the program is bookable.
type Program struct {
	ID           uint64 // programs.id
	CategoryID   uint64 // programs.category_id
	Title        string // programs.title
	Description  string // programs.description
	DurationMins uint32 // programs.duration_mins
	Location     string // programs.location
	Capacity     uint32 // programs.capacity
	ImageURL     string // programs.image_url
	IsActive     bool   // programs.is_active
}
