package domain

import (
	"encoding/json"
)

// UserProfile is the server-returned profile cached by the session.
// Only the identity fields are interpreted; everything else rides in Extra.
type UserProfile struct {
	ID    Identifier     `json:"id"`
	Name  string         `json:"name"`
	Email string         `json:"email"`
	Extra map[string]any `json:"-"`
}

func (u UserProfile) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(u.Extra, map[string]any{"id": u.ID, "name": u.Name, "email": u.Email})
}

func (u *UserProfile) UnmarshalJSON(data []byte) error {
	type plain UserProfile
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := splitExtra(data, "id", "name", "email")
	if err != nil {
		return err
	}
	p.Extra = extra
	*u = UserProfile(p)
	return nil
}

// Clone returns a deep enough copy for callers that must not share Extra.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	if u.Extra != nil {
		c.Extra = make(map[string]any, len(u.Extra))
		for k, v := range u.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

// RegisterInput is the payload for account registration. Fields beyond the
// credentials are sent as given through Extra.
type RegisterInput struct {
	Name     string         `json:"name" validate:"required"`
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=6"`
	Extra    map[string]any `json:"-"`
}

func (in RegisterInput) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(in.Extra, map[string]any{"name": in.Name, "email": in.Email, "password": in.Password})
}

func (in *RegisterInput) UnmarshalJSON(data []byte) error {
	type plain RegisterInput
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := splitExtra(data, "name", "email", "password")
	if err != nil {
		return err
	}
	p.Extra = extra
	*in = RegisterInput(p)
	return nil
}

// ProfileInput carries the profile fields a user may change. Name and email
// are checked; anything else in Extra is passed through untouched.
type ProfileInput struct {
	Name  string         `json:"name,omitempty" validate:"omitempty,min=1"`
	Email string         `json:"email,omitempty" validate:"omitempty,email"`
	Extra map[string]any `json:"-"`
}

func (in ProfileInput) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, 2)
	if in.Name != "" {
		fields["name"] = in.Name
	}
	if in.Email != "" {
		fields["email"] = in.Email
	}
	return marshalWithExtra(in.Extra, fields)
}

func (in *ProfileInput) UnmarshalJSON(data []byte) error {
	type plain ProfileInput
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := splitExtra(data, "name", "email")
	if err != nil {
		return err
	}
	p.Extra = extra
	*in = ProfileInput(p)
	return nil
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// marshalWithExtra encodes extra merged with fields; fields win on collision.
func marshalWithExtra(extra, fields map[string]any) ([]byte, error) {
	out := make(map[string]any, len(extra)+len(fields))
	for k, v := range extra {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return json.Marshal(out)
}

// splitExtra returns the object members of data not named in known, or nil.
func splitExtra(data []byte, known ...string) (map[string]any, error) {
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}
