package wizard

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Quit      key.Binding
	Back      key.Binding
	Next      key.Binding
	Prev      key.Binding
	Select    key.Binding
	Smaller   key.Binding
	Larger    key.Binding
	SmallerXL key.Binding
	LargerXL  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "dismiss"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Smaller: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "smaller"),
		),
		Larger: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "larger"),
		),
		SmallerXL: key.NewBinding(
			key.WithKeys("shift+left", "H"),
		),
		LargerXL: key.NewBinding(
			key.WithKeys("shift+right", "L"),
		),
	}
}
