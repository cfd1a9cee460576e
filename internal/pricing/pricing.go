// Package pricing computes case prices from persisted option selections.
// All amounts are in cents.
package pricing

import "caseshop/internal/domain"

const (
	Currency  = "usd"
	BasePrice = int64(14_00)
)

type Option[T ~string] struct {
	Value       T      `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
}

type Group[T ~string] struct {
	Name    string      `json:"name"`
	Options []Option[T] `json:"options"`
}

// Find returns the option for v. ok is false when v is not in the group.
func (g Group[T]) Find(v T) (Option[T], bool) {
	for _, o := range g.Options {
		if o.Value == v {
			return o, true
		}
	}
	return Option[T]{}, false
}

type ColorOption struct {
	Option[domain.CaseColor]
	Hex string `json:"hex"`
}

var Colors = []ColorOption{
	{Option: Option[domain.CaseColor]{Value: domain.ColorBlack, Label: "Black"}, Hex: "#18181b"},
	{Option: Option[domain.CaseColor]{Value: domain.ColorBlue, Label: "Blue"}, Hex: "#1e3a8a"},
	{Option: Option[domain.CaseColor]{Value: domain.ColorRose, Label: "Rose"}, Hex: "#881337"},
}

var Models = Group[domain.PhoneModel]{
	Name: "models",
	Options: []Option[domain.PhoneModel]{
		{Value: domain.ModelIPhoneX, Label: "iPhone X"},
		{Value: domain.ModelIPhone11, Label: "iPhone 11"},
		{Value: domain.ModelIPhone12, Label: "iPhone 12"},
		{Value: domain.ModelIPhone13, Label: "iPhone 13"},
		{Value: domain.ModelIPhone14, Label: "iPhone 14"},
		{Value: domain.ModelIPhone15, Label: "iPhone 15"},
	},
}

var Materials = Group[domain.CaseMaterial]{
	Name: "material",
	Options: []Option[domain.CaseMaterial]{
		{Value: domain.MaterialSilicone, Label: "Silicone", Price: 0},
		{Value: domain.MaterialPolycarbonate, Label: "Soft Polycarbonate", Description: "Scratch-resistant coating", Price: 5_00},
	},
}

var Finishes = Group[domain.CaseFinish]{
	Name: "finish",
	Options: []Option[domain.CaseFinish]{
		{Value: domain.FinishSmooth, Label: "Smooth Finish", Price: 0},
		{Value: domain.FinishTextured, Label: "Textured Finish", Description: "Soft grippy texture", Price: 3_00},
	},
}

// Catalog is the option set served to the configurator.
type Catalog struct {
	BasePrice int64                      `json:"basePrice"`
	Currency  string                     `json:"currency"`
	Colors    []ColorOption              `json:"colors"`
	Models    Group[domain.PhoneModel]   `json:"models"`
	Materials Group[domain.CaseMaterial] `json:"materials"`
	Finishes  Group[domain.CaseFinish]   `json:"finishes"`
}

func NewCatalog() Catalog {
	return Catalog{
		BasePrice: BasePrice,
		Currency:  Currency,
		Colors:    Colors,
		Models:    Models,
		Materials: Materials,
		Finishes:  Finishes,
	}
}

// Total prices a full option selection. Every group contributes its option's
// surcharge, so an option that gains a price later is picked up here.
func Total(o domain.Options) int64 {
	total := BasePrice
	total += colorPrice(o.Color)
	total += surcharge(Models, o.Model)
	total += surcharge(Materials, o.Material)
	total += surcharge(Finishes, o.Finish)
	return total
}

// ForConfiguration prices what has been persisted for c.
func ForConfiguration(c *domain.Configuration) int64 {
	return Total(c.Selected())
}

func surcharge[T ~string](g Group[T], v T) int64 {
	o, _ := g.Find(v)
	return o.Price
}

func colorPrice(c domain.CaseColor) int64 {
	for _, o := range Colors {
		if o.Value == c {
			return o.Price
		}
	}
	return 0
}
