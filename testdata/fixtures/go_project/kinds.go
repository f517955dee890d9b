package project

// UserID identifies a user record.
type UserID int

// Admin extends User with elevated permissions.
type Admin struct {
	User
	Level int
}

// ReadOnlyRepository is a Repository restricted to reads.
type ReadOnlyRepository interface {
	Repository
	Count() (int, error)
}
