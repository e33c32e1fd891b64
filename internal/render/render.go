// Package render abstracts result-card image rendering. Handlers ask
// the renderer for an image path and fall back to plain text whenever
// the path comes back empty, so the bot works the same with rendering
// switched off.
package render

// Card is the data a handler wants drawn: a heading plus free-form
// lines. Renderers may ignore fields they cannot place.
type Card struct {
	Title    string
	Subtitle string
	Lines    []string
}

// Renderer turns a card into an image file and returns its path.
// An empty path with a nil error means "no image, use text".
type Renderer interface {
	Render(kind string, card Card) (string, error)
}

// Disabled is the no-op renderer used when FEATURE_RENDER_ENABLED is
// off or no rendering backend is available.
type Disabled struct{}

// Render always reports "no image".
func (Disabled) Render(string, Card) (string, error) {
	return "", nil
}
