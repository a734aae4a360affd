// Package model provides the notification entity, its remote attribute
// mapping and the domain errors of the notification module.
package model

import (
	"strconv"
	"strings"
	"time"
)

// Subject type values reported by the notifications API.
const (
	SubjectTypeIssue                = "Issue"
	SubjectTypePullRequest          = "PullRequest"
	SubjectTypeCommit               = "Commit"
	SubjectTypeRelease              = "Release"
	SubjectTypeRepositoryInvitation = "RepositoryInvitation"
)

// subjectableTypes are the subject types that can be enriched with a
// fetched subject row.
var subjectableTypes = map[string]bool{
	SubjectTypeIssue:       true,
	SubjectTypePullRequest: true,
	SubjectTypeCommit:      true,
	SubjectTypeRelease:     true,
}

// Notification represents one notification thread of a user's inbox.
// Matches the notifications table schema.
//
// UpdatedAt mirrors the remote thread's updated_at and must never be bumped
// by a local save, hence autoUpdateTime is disabled.
type Notification struct {
	ID                  int64      `gorm:"primaryKey;column:id;type:bigserial"                                            json:"id"`
	UserID              int64      `gorm:"column:user_id;not null;uniqueIndex:idx_notifications_user_github,priority:1"   json:"user_id"`
	GithubID            string     `gorm:"column:github_id;type:varchar(255);not null;uniqueIndex:idx_notifications_user_github,priority:2" json:"github_id"`
	Reason              string     `gorm:"column:reason;type:varchar(255)"                                                json:"reason"`
	Unread              bool       `gorm:"column:unread;not null;default:true;index:idx_notifications_unread"             json:"unread"`
	Archived            *bool      `gorm:"column:archived"                                                                json:"archived"`
	URL                 string     `gorm:"column:url;type:varchar(1024)"                                                  json:"url"`
	SubjectTitle        string     `gorm:"column:subject_title;type:text"                                                 json:"subject_title"`
	SubjectType         string     `gorm:"column:subject_type;type:varchar(255)"                                          json:"subject_type"`
	SubjectURL          string     `gorm:"column:subject_url;type:varchar(1024);not null"                                 json:"subject_url"`
	LatestCommentURL    string     `gorm:"column:latest_comment_url;type:varchar(1024)"                                   json:"latest_comment_url"`
	RepositoryFullName  string     `gorm:"column:repository_full_name;type:varchar(255);index:idx_notifications_repository_full_name" json:"repository_full_name"`
	RepositoryOwnerName string     `gorm:"column:repository_owner_name;type:varchar(255)"                                 json:"repository_owner_name"`
	LastReadAt          *time.Time `gorm:"column:last_read_at;type:timestamptz"                                           json:"last_read_at,omitempty"`
	MutedAt             *time.Time `gorm:"column:muted_at;type:timestamptz"                                               json:"muted_at,omitempty"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;type:timestamptz;autoUpdateTime:false"                        json:"updated_at"`
	CreatedAt           time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"                      json:"-"`

	displaySubject *bool `gorm:"-" json:"-"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}

// IsArchived reports the archived flag, treating legacy NULL rows as false.
func (n *Notification) IsArchived() bool {
	return n.Archived != nil && *n.Archived
}

// SetArchived sets the archived flag.
func (n *Notification) SetArchived(v bool) {
	n.Archived = &v
}

// Subjectable reports whether the subject type supports enrichment.
func (n *Notification) Subjectable() bool {
	return subjectableTypes[n.SubjectType]
}

// DisplaySubject reports whether the enriched subject should be used for this
// notification. fetchSubject is the global flag; appInstalled captures an
// active app integration with an authorized user and a repository whose own
// display flag is on. The result is memoized for the instance's lifetime and
// recomputed on every fresh load.
func (n *Notification) DisplaySubject(fetchSubject, appInstalled bool) bool {
	if n.displaySubject == nil {
		v := n.Subjectable() && (fetchSubject || appInstalled)
		n.displaySubject = &v
	}
	return *n.displaySubject
}

// ResetDisplaySubject drops the memoized display decision.
func (n *Notification) ResetDisplaySubject() {
	n.displaySubject = nil
}

// Assign applies mapped remote attributes onto the record in memory and
// reports whether any field actually changed.
func (n *Notification) Assign(attrs Attrs) bool {
	changed := false
	if setString(&n.GithubID, attrs["github_id"]) {
		changed = true
	}
	if setTimePtr(&n.LastReadAt, attrs["last_read_at"]) {
		changed = true
	}
	if setString(&n.Reason, attrs["reason"]) {
		changed = true
	}
	if setBool(&n.Unread, attrs["unread"]) {
		changed = true
	}
	if setTime(&n.UpdatedAt, attrs["updated_at"]) {
		changed = true
	}
	if setString(&n.URL, attrs["url"]) {
		changed = true
	}
	if setString(&n.SubjectTitle, attrs["subject_title"]) {
		changed = true
	}
	if setString(&n.SubjectType, attrs["subject_type"]) {
		changed = true
	}
	if setString(&n.SubjectURL, attrs["subject_url"]) {
		changed = true
	}
	if setString(&n.LatestCommentURL, attrs["latest_comment_url"]) {
		changed = true
	}
	if setString(&n.RepositoryFullName, attrs["repository_full_name"]) {
		changed = true
	}
	if setString(&n.RepositoryOwnerName, attrs["repository_owner_name"]) {
		changed = true
	}
	return changed
}

// UnarchiveIfUpdated clears the archived flag when the remote updated_at
// advanced past the previously stored value. Only already archived records
// are affected. Reports whether the flag was flipped.
func (n *Notification) UnarchiveIfUpdated(previous time.Time) bool {
	if !n.IsArchived() {
		return false
	}
	if n.UpdatedAt.After(previous) {
		n.SetArchived(false)
		return true
	}
	return false
}

// CastBool coerces a string to a boolean following common casting rules.
// Falsey tokens ("0", "f", "false", "off", "no") yield false, anything else true.
func CastBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "0", "f", "false", "off", "no":
		return false
	default:
		return true
	}
}

func setString(dst *string, v any) bool {
	var s string
	switch value := v.(type) {
	case nil:
		return false
	case string:
		s = value
	case float64:
		// JSON numbers decode as float64; thread ids are integral
		s = strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return false
	}
	if *dst == s {
		return false
	}
	*dst = s
	return true
}

func setBool(dst *bool, v any) bool {
	b, ok := v.(bool)
	if !ok || *dst == b {
		return false
	}
	*dst = b
	return true
}

func setTime(dst *time.Time, v any) bool {
	t, ok := asTime(v)
	if !ok || dst.Equal(t) {
		return false
	}
	*dst = t
	return true
}

func setTimePtr(dst **time.Time, v any) bool {
	t, ok := asTime(v)
	if !ok {
		return false
	}
	if *dst != nil && (*dst).Equal(t) {
		return false
	}
	*dst = &t
	return true
}

func asTime(v any) (time.Time, bool) {
	switch value := v.(type) {
	case time.Time:
		return value, true
	case string:
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}
