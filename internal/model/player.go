package model

type Player struct {
	ID string
}

type ClientPlayer struct {
	ID     string `json:"name"`
	Color  Color  `json:"color"`
	Engine bool   `json:"engine"`
}

// Mode gates whether the engine answers human moves.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeAI     Mode = "ai"
)

func (m Mode) Valid() bool {
	return m == ModeNormal || m == ModeAI
}
