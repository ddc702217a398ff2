// Package locator finds the page element a summary point was drawn from and
// marks it while the point plays.
package locator
