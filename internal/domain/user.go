package domain

// User identifies an account by mail address.
type User struct {
	Email string `json:"email"`
}

// UserLogin is a stored account including the bcrypt password hash.
type UserLogin struct {
	Email          string `json:"email"`
	HashedPassword string `json:"-"`
}
