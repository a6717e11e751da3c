package domain

// Button is a labelled action in a view
type Button struct {
	Label  string
	Action Action
}

// View is a text body plus rows of selectable actions
type View struct {
	Text string
	Rows [][]Button
}

// Row is a convenience constructor for a single view row
func Row(buttons ...Button) []Button {
	return buttons
}
