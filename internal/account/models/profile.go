package models

// Profile is the public view of an account. Two physical variants exist in
// the store (user and bot); both decode into this shape.
//
// Email and Birthdate are PII: they are nil unless the profile was read by
// its owner, and the serialized form is what gets cached, so a snapshot
// written during a non-owner read never discloses them later.
type Profile struct {
	Username  string  `json:"username"`
	Vanity    string  `json:"vanity"`
	Avatar    *string `json:"avatar"`
	Bio       *string `json:"bio"`
	Email     *string `json:"email"`
	Birthdate *string `json:"birthdate"`
	Deleted   bool    `json:"deleted"`
	Flags     uint32  `json:"flags"`
	Verified  bool    `json:"verified"`
}

// IsEmpty reports whether the profile is the unknown-identifier placeholder.
// An empty vanity never belongs to a live record.
func (p Profile) IsEmpty() bool {
	return p.Vanity == ""
}

// Suspended returns the redacted placeholder served instead of a deleted
// profile. Everything but the vanity is blanked; the username carries the
// user-facing suspension notice.
func Suspended(vanity string) Profile {
	return Profile{
		Username: "Account suspended",
		Vanity:   vanity,
		Deleted:  true,
	}
}

// Patch is a partial profile update. Nil means "leave the field alone";
// a pointer to the empty string is a deliberate clear where the field
// supports it (bio).
type Patch struct {
	Username    *string `json:"username"`
	Avatar      *string `json:"avatar"`
	Bio         *string `json:"bio"`
	Email       *string `json:"email"`
	Birthdate   *string `json:"birthdate"`
	Phone       *string `json:"phone"`
	Password    *string `json:"password"`
	NewPassword *string `json:"newpassword"`
}
