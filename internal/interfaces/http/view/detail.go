package view

// Detail is a read-only record page
type Detail struct {
	Title    string
	Subtitle string
	Badge    *Cell
	Sections []Section
	Actions  []Action
	Tables   []*Table
	Messages []Message
	Back     string
}

// Section groups label/value pairs under a heading
type Section struct {
	Title string
	Items []Item
}

// Item is one label/value pair
type Item struct {
	Label string
	Value string
	Href  string
	Tone  string
	Mono  bool
}

// Message is an SRI processing message shown on a document page
type Message struct {
	Code string
	Text string
	Info string
	Tone string
}
