// internal/domain/models/site.go
package models

// DefaultSiteName is shown in the header and page titles.
const DefaultSiteName = "GMG"
