// Package domain defines the recipient entity, its rendering capability and
// the persistence contract shared by every storage backend of sembako.
package domain

import (
	"fmt"
	"time"
)

// RationPerMember is the number of ration items allotted per family member.
const RationPerMember = 3

// Describable is implemented by anything that can render itself as a single
// line of recipient details.
type Describable interface {
	Details() string
}

// Recipient is one aid-distribution recipient.
//
// ID and AddedDate are assigned by the store on creation and are zero for
// entries that only live in the session mirror. A non-empty Category marks
// the special variant, whose details rendering appends the category.
type Recipient struct {
	ID         int64     `json:"id,omitempty"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	FamilySize int       `json:"family_size"`
	AddedDate  time.Time `json:"added_date,omitzero"`
	Category   string    `json:"category,omitempty"`
}

// Compile-time assertion that recipients render details.
var _ Describable = Recipient{}

// NewRecipient builds the base recipient variant.
func NewRecipient(name, address string, familySize int) Recipient {
	return Recipient{Name: name, Address: address, FamilySize: familySize}
}

// NewSpecialRecipient builds the specialised variant carrying a category.
func NewSpecialRecipient(name, address string, familySize int, category string) Recipient {
	r := NewRecipient(name, address, familySize)
	r.Category = category
	return r
}

// RationQuantity is derived from the family size and never persisted.
func (r Recipient) RationQuantity() int {
	return r.FamilySize * RationPerMember
}

// IsSpecial reports whether the recipient carries a category.
func (r Recipient) IsSpecial() bool {
	return r.Category != ""
}

// Details renders name, address and family size, followed by the category
// for the special variant.
func (r Recipient) Details() string {
	base := fmt.Sprintf("Nama: %s, Alamat: %s, Jumlah Keluarga: %d", r.Name, r.Address, r.FamilySize)
	if !r.IsSpecial() {
		return base
	}
	return base + ", Kategori: " + r.Category
}
