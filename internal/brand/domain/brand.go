package domain

type Brand struct {
	ID          int64
	Title       string
	UserID      int64
	StateTypeID int64
}

// StateType is a row of the state_type lookup table.
type StateType struct {
	ID   int64
	Code string
	Name string
}

type Page struct {
	Brands []Brand
	Total  int64
}
