package user

// Principal is the authenticated identity supplied by the auth
// collaborator. The core never authenticates; it only consumes the opaque
// user ID attached to each mutating call.
type Principal struct {
	UserID string
	Email  string
}
