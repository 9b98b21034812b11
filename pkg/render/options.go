package render

// Endpoints are the URLs HTMX attributes in the page point at.
type Endpoints struct {
	Events string `json:"events"`
	Next   string `json:"next"`
	Back   string `json:"back"`
	Repeat string `json:"repeat"`
}

// DefaultEndpoints matches the routes of the HTTP transport.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Events: "/events",
		Next:   "/stages/next",
		Back:   "/stages/back",
		Repeat: "/repeats",
	}
}

// Assets are optional script and stylesheet URLs linked from the page head.
type Assets struct {
	HTMX       string `json:"htmx,omitempty"`
	Stylesheet string `json:"stylesheet,omitempty"`
}

// RenderOptions describe per-request data for the page shell.
type RenderOptions struct {
	// Hidden fields are emitted inside the form in name order.
	Hidden map[string]string
	// Endpoints override DefaultEndpoints when non-empty.
	Endpoints Endpoints
	Assets    Assets
	// InlineCSS is embedded in a <style> element, for standalone output.
	InlineCSS string
}
