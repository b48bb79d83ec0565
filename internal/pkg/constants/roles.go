package constants

const (
	Donor = "donor"
	NGO   = "ngo"
	Admin = "admin"
)

// UserRoles are the roles a user profile may carry.
var UserRoles = []string{Donor, NGO, Admin}

// SignupRoles are the roles open to self-service account creation; admins are appointed.
var SignupRoles = []string{Donor, NGO}
