package train

// State is the stage a training run has reached. A run only moves forward.
type State int

const (
	Loaded State = iota
	Tokenized
	Encoded
	Split
	Training
	Trained
	Saved
)

var stateNames = [...]string{
	Loaded:    "loaded",
	Tokenized: "tokenized",
	Encoded:   "encoded",
	Split:     "split",
	Training:  "training",
	Trained:   "trained",
	Saved:     "saved",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
