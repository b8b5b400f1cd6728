package view

// Home is the dashboard landing page for signed-in users
type Home struct {
	Cards []Card
	Bars  []Bar
	Alert *Flash
}

// Card is one summary figure
type Card struct {
	Label string
	Value string
	Href  string
	Tone  string
}

// Bar is one day of the sales chart. Percent is its height relative to the
// tallest bar.
type Bar struct {
	Label   string
	Value   string
	Percent int
}

// Reporte is the sales report page
type Reporte struct {
	Desde      string
	Hasta      string
	Error      string
	Cards      []Card
	Bars       []Bar
	Tables     []*Table
	ExcelHref  string
	PDFHref    string
	PDFEnabled bool
}
