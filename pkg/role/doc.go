// Package role defines the ordered role hierarchy used for authorization.
//
// Roles are totally ordered and every permission check is expressed as
// "caller role is at least the required role":
//
//	Guest < Normal < VIP < Admin < SuperAdmin
//
// # Usage
//
//	if caller.AtLeast(role.Admin) {
//	    // allowed
//	}
//
// Role values are persisted as integers in the users.level column. The
// String/RoleString methods are generated by enumer and use the lower-case
// constant names ("guest", "normal", "vip", "admin", "superadmin"), which is
// what the blogctl CLI accepts.
package role
