package model

import (
	"strings"
	"time"
)

// Attrs is the flat mapping of local field name to extracted remote value.
type Attrs map[string]any

// attributePath pairs a local field with the nested path into the raw payload.
type attributePath struct {
	field string
	path  []string
}

// apiAttributeMap is the fixed, ordered field list applied to every
// notification payload.
var apiAttributeMap = []attributePath{
	{"github_id", []string{"id"}},
	{"last_read_at", []string{"last_read_at"}},
	{"reason", []string{"reason"}},
	{"unread", []string{"unread"}},
	{"updated_at", []string{"updated_at"}},
	{"url", []string{"url"}},
	{"subject_title", []string{"subject", "title"}},
	{"subject_type", []string{"subject", "type"}},
	{"subject_url", []string{"subject", "url"}},
	{"latest_comment_url", []string{"subject", "latest_comment_url"}},
	{"repository_full_name", []string{"repository", "full_name"}},
	{"repository_owner_name", []string{"repository", "owner", "login"}},
}

// AttributesFromAPIResponse maps one raw notification payload into local
// attributes. Missing nested fields resolve to nil, never to an error; the
// only failure mode is an untraversable root payload.
//
// Embedded NUL characters are stripped from string values since they break
// the storage layer. The invitation subject type gets a synthesized web URL
// because the API exposes no stable REST URL for invitations. A missing
// updated_at is substituted with the current time.
func AttributesFromAPIResponse(payload map[string]any) (Attrs, error) {
	if payload == nil {
		return nil, ErrMalformedPayload
	}

	attrs := make(Attrs, len(apiAttributeMap))
	for _, ap := range apiAttributeMap {
		value := dig(payload, ap.path)
		if s, ok := value.(string); ok {
			value = strings.ReplaceAll(s, "\x00", "")
		}
		attrs[ap.field] = value
	}

	if subjectType, _ := attrs["subject_type"].(string); subjectType == SubjectTypeRepositoryInvitation {
		if htmlURL, ok := dig(payload, []string{"repository", "html_url"}).(string); ok {
			attrs["subject_url"] = htmlURL + "/invitations"
		}
	}

	if attrs["updated_at"] == nil {
		attrs["updated_at"] = time.Now()
	}

	return attrs, nil
}

// dig performs a safe nested lookup; any missing or non-object intermediate
// yields nil.
func dig(m map[string]any, path []string) any {
	var current any = m
	for _, key := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = node[key]
		if !ok {
			return nil
		}
	}
	return current
}
