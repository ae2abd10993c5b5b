// Package report renders a per-user progress summary as markdown and
// converts it to a standalone HTML page for sharing with parents and
// teachers.
package report
