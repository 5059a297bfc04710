package model

// Msg is the envelope of every websocket message
type Msg struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Content string `json:"content"`
}

// Geometry of one well path
type Geometry struct {
	VerticalLength   float64 `json:"vertical_length"` // signed, > 0 production, < 0 injection
	HorizontalLength float64 `json:"horizontal_length" validate:"gte=0"`
	Radius           float64 `json:"radius" validate:"gt=0"`
}

// EntryState is the fluid state at the well entry
type EntryState struct {
	Fluid                string   `json:"fluid" validate:"required"`
	Pressure             float64  `json:"pressure" validate:"gt=0"`
	Temperature          float64  `json:"temperature"`
	FormationTemperature *float64 `json:"formation_temperature,omitempty"` // defaults to the surface temperature continued down to the entry
}

// Operating conditions of one solve
type Operating struct {
	Roughness          float64 `json:"roughness" validate:"gte=0"`
	ElapsedYears       float64 `json:"elapsed_years" validate:"gt=0"`
	MassFlowRate       float64 `json:"mass_flow_rate" validate:"ne=0"`
	GeothermalGradient float64 `json:"geothermal_gradient"`
}

// SolveRequest asks for the exit state of one well
type SolveRequest struct {
	Geometry  Geometry   `json:"geometry" validate:"required"`
	State     EntryState `json:"state" validate:"required"`
	Operating Operating  `json:"operating" validate:"required"`
	Segments  int        `json:"segments" validate:"gte=0,lte=10000"`
	Trace     bool       `json:"trace"`
}

// SweepRequest repeats a solve over several operating times
type SweepRequest struct {
	Base         SolveRequest `json:"base" validate:"required"`
	ElapsedYears []float64    `json:"elapsed_years" validate:"required,min=1,max=500,dive,gt=0"`
	Workers      int          `json:"workers" validate:"gte=0,lte=64"`
}

// SegmentTrace is the state at the end of one marching segment
type SegmentTrace struct {
	Leg                  string  `json:"leg"`
	Distance             float64 `json:"distance"`
	Elevation            float64 `json:"elevation"`
	Pressure             float64 `json:"pressure"`
	Temperature          float64 `json:"temperature"`
	Enthalpy             float64 `json:"enthalpy"`
	Density              float64 `json:"density"`
	FormationTemperature float64 `json:"formation_temperature"`
	HeatFlow             float64 `json:"heat_flow"`
	FrictionLoss         float64 `json:"friction_loss"`
	Iterations           int     `json:"iterations"`
}

// SolveReply carries the exit state of one well
type SolveReply struct {
	ID             string         `json:"id"`
	Fluid          string         `json:"fluid"`
	ElapsedYears   float64        `json:"elapsed_years"`
	EndPressure    float64        `json:"end_pressure"`
	EndTemperature float64        `json:"end_temperature"`
	EndEnthalpy    float64        `json:"end_enthalpy"`
	Trace          []SegmentTrace `json:"trace,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// SweepReply collects the replies of a sweep in request order
type SweepReply struct {
	ID      string       `json:"id"`
	Results []SolveReply `json:"results"`
}
