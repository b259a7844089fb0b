package domain

import "time"

type StockMoveType string

const (
	StockMoveIn     StockMoveType = "IN"
	StockMoveOut    StockMoveType = "OUT"
	StockMoveAdjust StockMoveType = "ADJUST"
)

// Valid reports whether t is one of the known move types.
func (t StockMoveType) Valid() bool {
	switch t {
	case StockMoveIn, StockMoveOut, StockMoveAdjust:
		return true
	}
	return false
}

type Product struct {
	ID   string
	Name string
	SKU  *string
}

type Warehouse struct {
	ID   string
	Name string
}

// StockMove is a single inventory movement of a product in a warehouse.
type StockMove struct {
	ID        string        `validate:"required"`
	Date      time.Time     `validate:"required"`
	Product   Product       `validate:"-"`
	Warehouse Warehouse     `validate:"-"`
	Type      StockMoveType `validate:"oneof=IN OUT ADJUST"`
	Quantity  int           `validate:"gt=0"`
	Reference string        `validate:"min=3,max=60"`
}

var stockMoveMessages = map[string]string{
	"ID":       "stock move ID is required",
	"Date":     "date is required",
	"Type":     "type must be one of IN, OUT, ADJUST",
	"Quantity": "quantity must be greater than 0",
}

// Validate checks the move invariants. Reference violations are reported
// as ErrInvalidReference.
func (m *StockMove) Validate() error {
	if !validReference(m.Reference) {
		return ErrInvalidReference
	}
	return validateStruct(m, stockMoveMessages)
}

// UpdateReference replaces the reference, leaving the move untouched when the
// new value is invalid.
func (m *StockMove) UpdateReference(reference string) error {
	if !validReference(reference) {
		return ErrInvalidReference
	}
	m.Reference = reference
	return nil
}

func validReference(ref string) bool {
	n := len([]rune(ref))
	return n >= 3 && n <= 60
}
