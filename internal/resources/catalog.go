package resources

// Persona is a talk-mode character. The system prompt for a persona lives in
// prompts/talk_<ID>.txt.
type Persona struct {
	ID   string
	Name string
}

// Topic is a quiz subject offered on the topic keyboard.
type Topic struct {
	ID    string
	Title string
}

// Language is a translation target offered on the language keyboard.
type Language struct {
	Code string
	Name string
}

// Personas lists talk-mode characters in keyboard order.
var Personas = []Persona{
	{ID: "cobain", Name: "Kurt Cobain"},
	{ID: "hawking", Name: "Stephen Hawking"},
	{ID: "nietzsche", Name: "Friedrich Nietzsche"},
	{ID: "queen", Name: "Queen Elizabeth II"},
	{ID: "tolkien", Name: "J.R.R. Tolkien"},
}

// Topics lists quiz subjects in keyboard order.
var Topics = []Topic{
	{ID: "prog", Title: "Programming"},
	{ID: "math", Title: "Mathematics"},
	{ID: "biology", Title: "Biology"},
}

// Languages lists translation targets in keyboard order.
var Languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Spanish"},
	{Code: "de", Name: "German"},
	{Code: "fr", Name: "French"},
	{Code: "it", Name: "Italian"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "ja", Name: "Japanese"},
	{Code: "zh", Name: "Chinese"},
}

// PersonaByID returns the persona with the given id.
func PersonaByID(id string) (Persona, bool) {
	for _, p := range Personas {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}

// TopicByID returns the topic with the given id.
func TopicByID(id string) (Topic, bool) {
	for _, t := range Topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

// LanguageByCode returns the language with the given code.
func LanguageByCode(code string) (Language, bool) {
	for _, l := range Languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}
