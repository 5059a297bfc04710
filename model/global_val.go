package model

// physical constants
const (
	Gravity        = 9.81                  // m/s²
	SecondsPerYear = 3600.0 * 24.0 * 365.0 // s
	Kelvin         = 273.15                // °C -> K
)

// message types exchanged over the websocket
const (
	MsgSolve  = "solve"
	MsgSolved = "solved"
	MsgSweep  = "sweep"
	MsgSwept  = "swept"
	MsgError  = "error"
)
