package domain

import "encoding/json"

// User is the entity resolved by the lookup chain. It is immutable once built.
type User struct {
	id   int64
	name string
}

func NewUser(id int64, name string) User {
	return User{id: id, name: name}
}

func (u User) ID() int64      { return u.id }
func (u User) Name() string   { return u.name }
func (u User) IsZero() bool   { return u == User{} }
func (u User) String() string { return "User(" + u.name + ")" }

type userJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{ID: u.id, Name: u.name})
}

func (u *User) UnmarshalJSON(data []byte) error {
	var v userJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	u.id, u.name = v.ID, v.Name
	return nil
}
