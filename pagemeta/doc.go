// Package pagemeta reads named values out of a page's metadata markup.
//
// The dashboard server renders the CSRF token into a meta tag on the login
// page; this package is the read side of that contract. Absence of the tag
// is a valid, non-exceptional result everywhere.
package pagemeta
