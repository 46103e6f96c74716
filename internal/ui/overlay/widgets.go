package overlay

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// tapText is a canvas.Text that reacts to taps.
type tapText struct {
	widget.BaseWidget
	text     *canvas.Text
	onTapped func()
}

var _ fyne.Tappable = (*tapText)(nil)

func newTapText(text *canvas.Text, onTapped func()) *tapText {
	tap := &tapText{text: text, onTapped: onTapped}
	tap.ExtendBaseWidget(tap)
	return tap
}

func (tap *tapText) Tapped(*fyne.PointEvent) {
	if tap.onTapped != nil {
		tap.onTapped()
	}
}

func (tap *tapText) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(tap.text)
}

// editEntry is a single-line entry that reports Escape.
type editEntry struct {
	widget.Entry
	onCancel func()
}

func newEditEntry() *editEntry {
	entry := &editEntry{}
	entry.ExtendBaseWidget(entry)
	entry.Wrapping = fyne.TextWrapOff
	return entry
}

func (entry *editEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape {
		if entry.onCancel != nil {
			entry.onCancel()
		}
		return
	}
	entry.Entry.TypedKey(key)
}

func (entry *editEntry) MinSize() fyne.Size {
	size := entry.Entry.MinSize()
	if size.Width < 160 {
		size.Width = 160
	}
	return size
}
