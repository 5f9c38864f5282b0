package models

import "encoding/json"

// Role is the closed set of roles a participant can hold within a room.
// The data source encodes roles as integers (0, 1, 2); those are decoded
// into this type at the load boundary and never travel further as raw ints.
type Role int

// Role values match the wire encoding order.
const (
	RoleAdmin Role = iota
	RoleAgent
	RoleCustomer
)

// String returns the display name for the role
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleAgent:
		return "Agent"
	default:
		return "Customer"
	}
}

// RoleFromWire decodes the integer role encoding used by the data source.
// Values outside the closed set fall back to Customer.
func RoleFromWire(code int) Role {
	switch code {
	case 0:
		return RoleAdmin
	case 1:
		return RoleAgent
	default:
		return RoleCustomer
	}
}

// MarshalJSON renders the role display name
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts either the wire integer encoding or a display name
func (r *Role) UnmarshalJSON(b []byte) error {
	var code int
	if err := json.Unmarshal(b, &code); err == nil {
		*r = RoleFromWire(code)
		return nil
	}
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	switch name {
	case "Admin":
		*r = RoleAdmin
	case "Agent":
		*r = RoleAgent
	default:
		*r = RoleCustomer
	}
	return nil
}

// Participant holds a named identity scoped to a single room
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// UnknownSender is the placeholder identity used when a message's sender id
// does not resolve to any participant in the owning room.
func UnknownSender(id string) Participant {
	return Participant{
		ID:   id,
		Name: "Unknown User",
		Role: RoleCustomer,
	}
}
