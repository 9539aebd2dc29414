package live

// wireOp is one view mutation pushed to the browser. Numeric and boolean
// fields are omitted at their zero value; the client defaults missing
// fields to zero when applying an op.
type wireOp struct {
	Op         string  `json:"op"`
	Target     string  `json:"target,omitempty"`
	Value      string  `json:"value,omitempty"`
	Src        string  `json:"src,omitempty"`
	Alt        string  `json:"alt,omitempty"`
	Disabled   bool    `json:"disabled,omitempty"`
	Pane       string  `json:"pane,omitempty"`
	Name       string  `json:"name,omitempty"`
	Index      int     `json:"index,omitempty"`
	Lat        float64 `json:"lat,omitempty"`
	Lng        float64 `json:"lng,omitempty"`
	DurationMs int64   `json:"duration_ms,omitempty"`
	Pitch      float64 `json:"pitch,omitempty"`
	Heading    float64 `json:"heading,omitempty"`
	Roll       float64 `json:"roll,omitempty"`
	Zoom       float64 `json:"zoom,omitempty"`
	RadiusM    float64 `json:"radius_m,omitempty"`
}

// wireEnvelope is one WebSocket message to the browser: either an op
// batch ("apply") or a control message ("storyReload").
type wireEnvelope struct {
	Type string   `json:"type"`
	Ops  []wireOp `json:"ops,omitempty"`
}

// clientEvent is one viewer input from the browser. The first event on a
// connection must be "hello", whose params carry the page URL's query
// parameters.
type clientEvent struct {
	Type   string            `json:"type"`
	Index  int               `json:"index"`
	Params map[string]string `json:"params,omitempty"`
}
