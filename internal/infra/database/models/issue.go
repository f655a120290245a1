package models

import (
	"time"
)

type Issue struct {
	Seq           int64         `json:"seq" gorm:"primaryKey;autoIncrement"`
	ID            string        `json:"id" gorm:"type:text;uniqueIndex:issue_id_unique;not null"`
	Title         string        `json:"title" gorm:"type:text"`
	Description   string        `json:"description" gorm:"type:text"`
	Location      string        `json:"location" gorm:"type:text"`
	Category      string        `json:"category" gorm:"type:text;index"`
	Priority      string        `json:"priority" gorm:"type:text;index"`
	Status        string        `json:"status" gorm:"type:text;index"`
	ReportedBy    string        `json:"reportedBy" gorm:"type:text"`
	ReportedDate  time.Time     `json:"reportedDate" gorm:"type:timestamp with time zone;not null"`
	ResolvedDate  *time.Time    `json:"resolvedDate" gorm:"type:timestamp with time zone"`
	Rating        *int          `json:"rating" gorm:"type:smallint"`
	Images        string        `json:"images" gorm:"type:json;default:'[]'"`
	VoiceURI      *string       `json:"voiceURI" gorm:"type:text"`
	VoiceDuration int           `json:"voiceDuration" gorm:"type:integer;not null;default:0"`
	ContactName   string        `json:"-" gorm:"type:text"`
	ContactPhone  string        `json:"-" gorm:"type:text"`
	ContactEmail  string        `json:"-" gorm:"type:text"`
	Updates       []IssueUpdate `json:"updates" gorm:"foreignKey:IssueID;references:ID;constraint:OnDelete:CASCADE;"`
	CDate         time.Time     `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type IssueUpdate struct {
	ID      int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	IssueID string    `json:"issueID" gorm:"type:text;index;not null"`
	Date    time.Time `json:"date" gorm:"type:timestamp with time zone;not null"`
	Message string    `json:"message" gorm:"type:text"`
	Status  string    `json:"status" gorm:"type:text;not null"`
}
