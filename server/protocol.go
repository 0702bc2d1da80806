package main

import "math"

// Protocol uses single-character JSON keys to minimize wire size.
// All coordinates are rounded to 1 decimal place.
//
// Message type constants (value of "t" field):
//   Client → Server:
//     "j" = join    {"t":"j","n":"Name"}         spawn (or respawn) the viewer's own snake
//     "g" = goal    {"t":"g","x":10.5,"y":-3}    set the viewer's snake destination
//   Server → Client:
//     "w" = welcome {"t":"w","i":"id","b":[minX,minY,maxX,maxY],"r":30}
//     "s" = state   {"t":"s","k":tick,"s":[snakes],"l":[leaderboard]}
//     "e" = error   {"t":"e","m":"message"}
//
// SnakeDTO: {"i":"id","n":"name","c":"#color","o":1,"s":[[x,y,r],...],
//            "e":[[x,y],[x,y]],"d":[x,y],"h":[[x,y],...],"a":"look","v":1.2,"p":3}
// LeaderboardEntry: {"i":"id","n":"name","p":retargets}

// Message type identifiers
const (
	MsgJoin    = "j"
	MsgGoal    = "g"
	MsgWelcome = "w"
	MsgState   = "s"
	MsgError   = "e"
)

// ClientMessage is the incoming message from a viewer
type ClientMessage struct {
	Type string  `json:"t"`
	Name string  `json:"n,omitempty"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
}

// WelcomeMsg is sent to a viewer immediately on WebSocket connect.
// b = destination bounds, r = tick rate
type WelcomeMsg struct {
	Type     string     `json:"t"`
	ID       string     `json:"i"`
	Bounds   [4]float64 `json:"b"`
	TickRate int        `json:"r"`
}

// SnakeDTO is the compact snake for per-tick state updates.
// Segments are [x,y,radius] triples, h is the outline silhouette (empty
// when the snake has no outline).
type SnakeDTO struct {
	ID          string        `json:"i"`
	Name        string        `json:"n"`
	Color       string        `json:"c"`
	Owned       int           `json:"o,omitempty"` // 1 if driven by a viewer
	Segments    [][3]float64  `json:"s"`
	Eyes        [2][2]float64 `json:"e"`
	Destination [2]float64    `json:"d"`
	Silhouette  [][2]float64  `json:"h,omitempty"`
	Action      string        `json:"a"`
	Speed       float64       `json:"v"`
	Retargets   int           `json:"p"`
}

// LeaderboardEntry is a single leaderboard row ranked by retargets
type LeaderboardEntry struct {
	ID        string `json:"i"`
	Name      string `json:"n"`
	Retargets int    `json:"p"`
}

// StateMsg is the per-tick state update broadcast to every viewer
type StateMsg struct {
	Type        string             `json:"t"`
	Tick        int                `json:"k"`
	Snakes      []SnakeDTO         `json:"s"`
	Leaderboard []LeaderboardEntry `json:"l"`
}

// ErrorMsg is sent before the server closes a rejected connection
type ErrorMsg struct {
	Type    string `json:"t"`
	Message string `json:"m"`
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
