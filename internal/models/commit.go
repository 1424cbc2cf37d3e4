package models

import "time"

type Commit struct {
	Hash           string
	ShortHash      string
	Author         string
	Date           time.Time
	RawSummary     string // first line of the commit message
	DisplaySummary string // RawSummary fitted to the configured summary length
}
