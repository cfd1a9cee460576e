package domain

import "fmt"

type CaseColor string

const (
	ColorBlack CaseColor = "black"
	ColorBlue  CaseColor = "blue"
	ColorRose  CaseColor = "rose"
)

type PhoneModel string

const (
	ModelIPhoneX  PhoneModel = "iphonex"
	ModelIPhone11 PhoneModel = "iphone11"
	ModelIPhone12 PhoneModel = "iphone12"
	ModelIPhone13 PhoneModel = "iphone13"
	ModelIPhone14 PhoneModel = "iphone14"
	ModelIPhone15 PhoneModel = "iphone15"
)

type CaseMaterial string

const (
	MaterialSilicone      CaseMaterial = "silicone"
	MaterialPolycarbonate CaseMaterial = "polycarbonate"
)

type CaseFinish string

const (
	FinishSmooth   CaseFinish = "smooth"
	FinishTextured CaseFinish = "textured"
)

var (
	Colors    = []CaseColor{ColorBlack, ColorBlue, ColorRose}
	Models    = []PhoneModel{ModelIPhoneX, ModelIPhone11, ModelIPhone12, ModelIPhone13, ModelIPhone14, ModelIPhone15}
	Materials = []CaseMaterial{MaterialSilicone, MaterialPolycarbonate}
	Finishes  = []CaseFinish{FinishSmooth, FinishTextured}
)

// Options is one complete selection made on the design step.
type Options struct {
	Color    CaseColor    `json:"color"`
	Model    PhoneModel   `json:"model"`
	Material CaseMaterial `json:"material"`
	Finish   CaseFinish   `json:"finish"`
}

func ParseColor(s string) (CaseColor, error) { return parseOption(s, Colors, "color") }

func ParseModel(s string) (PhoneModel, error) { return parseOption(s, Models, "model") }

func ParseMaterial(s string) (CaseMaterial, error) { return parseOption(s, Materials, "material") }

func ParseFinish(s string) (CaseFinish, error) { return parseOption(s, Finishes, "finish") }

// ParseOptions validates raw option values against the closed enumerations.
func ParseOptions(color, model, material, finish string) (Options, error) {
	var (
		o   Options
		err error
	)
	if o.Color, err = ParseColor(color); err != nil {
		return Options{}, err
	}
	if o.Model, err = ParseModel(model); err != nil {
		return Options{}, err
	}
	if o.Material, err = ParseMaterial(material); err != nil {
		return Options{}, err
	}
	if o.Finish, err = ParseFinish(finish); err != nil {
		return Options{}, err
	}
	return o, nil
}

func parseOption[T ~string](s string, allowed []T, kind string) (T, error) {
	for _, v := range allowed {
		if string(v) == s {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: unknown %s %q", ErrInvalidOption, kind, s)
}
