package model

// WSMove is the payload of a websocket "move" message.
type WSMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// WSSelect is the payload of a websocket "select" message.
type WSSelect struct {
	Square Position `json:"square"`
}
