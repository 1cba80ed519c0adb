package models

// LatestPayload is the query endpoint's response for the most recent reading
// of a meter, plus descriptive metadata. Numeric fields are pointers because
// the upstream omits them for meters without readings yet.
type LatestPayload struct {
	MeterCode     string   `json:"meter_code"`
	Category      string   `json:"category"`
	Barrio        string   `json:"barrio"`
	Calle         string   `json:"calle"`
	Numero        string   `json:"numero"`
	Predio        string   `json:"predio"`
	FlowLPS       *float64 `json:"flow_lps"`
	LitersTotal   *float64 `json:"liters_total"`
	PricePerLiter *float64 `json:"price_per_liter"`
	Currency      string   `json:"currency"`
	Timestamp     string   `json:"timestamp"`
}

// RecentPayload is the query endpoint's response for the last readings,
// newest first.
type RecentPayload struct {
	MeterCode string        `json:"meter_code"`
	Recent    []RecentEntry `json:"recent"`
}

// RecentEntry is one historical reading row. Cost fields are optional; when
// the upstream omits them the client recomputes from the known price.
type RecentEntry struct {
	Timestamp   string   `json:"timestamp"`
	FlowLPS     float64  `json:"flow_lps"`
	LitersDelta float64  `json:"liters_delta"`
	LitersTotal float64  `json:"liters_total"`
	CostDelta   *float64 `json:"cost_delta,omitempty"`
	CostTotal   *float64 `json:"cost_total,omitempty"`
}

// PushMessage is one frame from the push channel. The first frame after
// connect is a handshake with Status "connected"; data frames leave Status
// empty and carry incremental reading fields, any of which may be absent.
type PushMessage struct {
	Status      string   `json:"status,omitempty"`
	MeterCode   string   `json:"meter_code"`
	FlowLPS     *float64 `json:"flow_lps"`
	LitersDelta *float64 `json:"liters_delta"`
	LitersTotal *float64 `json:"liters_total"`
	Timestamp   string   `json:"timestamp"`
}

// IsHandshake reports whether the frame is the connection acknowledgment
// sent by the server on channel open.
func (m PushMessage) IsHandshake() bool {
	return m.Status == "connected"
}
