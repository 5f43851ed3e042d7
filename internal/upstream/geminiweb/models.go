package geminiweb

// Model identifies an upstream model variant. Header carries the
// x-goog-ext-525001261-jspb value that selects it; an empty header
// leaves the server on its default model.
type Model struct {
	Name         string
	Header       string
	AdvancedOnly bool
}

const modelHeaderName = "x-goog-ext-525001261-jspb"

var (
	Model25Pro = Model{
		Name:   "gemini-2.5-pro",
		Header: `[1,null,null,null,"61530e79959ab139",null,null,null,[4]]`,
	}
	Model25Flash = Model{
		Name:   "gemini-2.5-flash",
		Header: `[1,null,null,null,"9ec249fc9ad08861",null,null,null,[4]]`,
	}
	Model20Flash = Model{
		Name:   "gemini-2.0-flash",
		Header: `[null,null,null,null,"f299729663a2343f"]`,
	}
	Model20FlashThinking = Model{
		Name:   "gemini-2.0-flash-thinking",
		Header: `[null,null,null,null,"9c17b1863f581b8a"]`,
	}
	// The exp-advanced variants are only reachable on Advanced
	// accounts and carry no published header, so the server picks the
	// variant from the account entitlement.
	Model25ExpAdvanced = Model{
		Name:         "gemini-2.5-exp-advanced",
		AdvancedOnly: true,
	}
	Model20ExpAdvanced = Model{
		Name:         "gemini-2.0-exp-advanced",
		AdvancedOnly: true,
	}
)

// AllModels lists every supported model in catalog order.
func AllModels() []Model {
	return []Model{
		Model25Pro,
		Model25Flash,
		Model20Flash,
		Model20FlashThinking,
		Model25ExpAdvanced,
		Model20ExpAdvanced,
	}
}

// ModelFromName resolves a model by name.
func ModelFromName(name string) (Model, bool) {
	for _, m := range AllModels() {
		if m.Name == name {
			return m, true
		}
	}
	return Model{}, false
}
