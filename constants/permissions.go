package constants

// Organization permissions
const (
	// Admin permissions
	PermSuperAdminFull = "artist-booking.super-admin.full-permit"
	PermAdminFull      = "artist-booking.admin.full-permit"

	// Marketplace roles
	PermArtistFull   = "artist-booking.artist.full-permit"
	PermCustomerFull = "artist-booking.customer.full-permit"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	AdminPermissions = []string{
		PermSuperAdminFull,
		PermAdminFull,
	}
)
