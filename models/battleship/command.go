package battleship

// Command is what a player asked for once the utterance or request
// has been decoded. Only the three variants below implement it.
type Command interface {
	Kind() string
	isCommand()
}

type PlaceShip struct {
	Ship        ShipType    `json:"ship"`
	Row         int         `json:"row"`
	Col         int         `json:"col"`
	Orientation Orientation `json:"orientation"`
}

type Fire struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Invalid carries the reason a command could not be decoded.
// Err is the underlying cause when one exists.
type Invalid struct {
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

func (PlaceShip) Kind() string { return "place_ship" }
func (Fire) Kind() string      { return "fire" }
func (Invalid) Kind() string   { return "invalid" }

func (PlaceShip) isCommand() {}
func (Fire) isCommand()      {}
func (Invalid) isCommand()   {}

func NewInvalid(reason string, err error) Invalid {
	return Invalid{Reason: reason, Err: err}
}
