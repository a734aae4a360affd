// Package model provides the subject and label entities backing notification enrichment.
package model

import (
	"time"
)

// Subject represents the richer resource behind a notification: an issue,
// pull request, commit or release. Notifications reference subjects weakly
// by API URL; a missing subject row is a valid state.
type Subject struct {
	ID                 int64     `gorm:"primaryKey;column:id;type:bigserial"                        json:"id"`
	URL                string    `gorm:"column:url;type:varchar(1024);not null;uniqueIndex:idx_subjects_url" json:"url"`
	HTMLURL            string    `gorm:"column:html_url;type:varchar(1024)"                         json:"html_url"`
	Title              string    `gorm:"column:title;type:text"                                     json:"title"`
	State              string    `gorm:"column:state;type:varchar(255)"                             json:"state"`
	Author             string    `gorm:"column:author;type:varchar(255)"                            json:"author"`
	RepositoryFullName string    `gorm:"column:repository_full_name;type:varchar(255);index:idx_subjects_repository_full_name" json:"repository_full_name"`
	CreatedAt          time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"  json:"-"`
	UpdatedAt          time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"  json:"-"`

	Labels []Label `gorm:"foreignKey:SubjectID" json:"labels,omitempty"`
}

// TableName specifies the table name for GORM.
func (Subject) TableName() string {
	return "subjects"
}

// Label represents an issue or pull request label attached to a subject.
type Label struct {
	ID        int64  `gorm:"primaryKey;column:id;type:bigserial"                      json:"id"`
	SubjectID int64  `gorm:"column:subject_id;not null;index:idx_labels_subject_id"   json:"subject_id"`
	GithubID  int64  `gorm:"column:github_id"                                         json:"github_id"`
	Name      string `gorm:"column:name;type:varchar(255);not null"                   json:"name"`
	Color     string `gorm:"column:color;type:varchar(10)"                            json:"color"`
}

// TableName specifies the table name for GORM.
func (Label) TableName() string {
	return "labels"
}
