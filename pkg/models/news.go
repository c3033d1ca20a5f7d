package models

import "time"

// NewsRecord represents one row of the news headlines dataset.
// Row is the zero-based row position in the source file.
type NewsRecord struct {
	Date         time.Time `json:"date" db:"published_at"`
	Headline     string    `json:"headline" db:"headline"`
	URL          string    `json:"url" db:"url"`
	Publisher    string    `json:"publisher" db:"publisher"`
	Stock        string    `json:"stock" db:"stock"`
	Organization string    `json:"organization,omitempty" db:"organization"`
	Row          int       `json:"row" db:"row_num"`
}

// PublisherCount is the number of headlines attributed to a publisher
type PublisherCount struct {
	Publisher string `json:"publisher"`
	Count     int    `json:"count"`
}

// OrganizationCount is the number of headlines attributed to an organization
type OrganizationCount struct {
	Organization string `json:"organization"`
	Count        int    `json:"count"`
}

// HeadlineLength is the character length of a headline row
type HeadlineLength struct {
	Row    int `json:"row"`
	Length int `json:"length"`
}
