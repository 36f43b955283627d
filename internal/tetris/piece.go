package tetris

type Type string

const (
    I Type = "I"
    O Type = "O"
    T Type = "T"
    S Type = "S"
    Z Type = "Z"
    J Type = "J"
    L Type = "L"
)

// All lists the seven tetromino types in canonical order. A fresh bag starts from this order
// before shuffling, so changing it changes every seeded sequence.
var All = [...]Type{I, O, T, S, Z, J, L}

func (t Type) Valid() bool {
    for _, x := range All {
        if x == t {
            return true
        }
    }
    return false
}

type Piece struct {
    Type Type `json:"type"`
}
